package gate

import "strings"

type (
	// Credentials is the canonical form of a submitted identity
	// payload, whatever field names the client picked.
	Credentials struct {
		Identifier string
		Secret     string
	}
)

// Clients of the old system submitted whichever spelling their form
// happened to use, so every observed alias stays accepted. First
// alias present wins.
var (
	identifierAliases = []string{"username", "usuario", "user"}
	secretAliases     = []string{"password", "pass", "contrasena", "contraseña"}
)

// Resolve normalizes a submitted payload into a credential pair.
// Missing aliases resolve to the empty string, validation is the
// authenticator's job. The identifier is trimmed, the secret never is:
// a padded secret must not compare equal to its unpadded form.
func Resolve(payload map[string]string) Credentials {
	return Credentials{
		Identifier: strings.TrimSpace(firstOf(payload, identifierAliases)),
		Secret:     firstOf(payload, secretAliases),
	}
}

func firstOf(payload map[string]string, aliases []string) string {
	for _, k := range aliases {
		if v, ok := payload[k]; ok {
			return v
		}
	}
	return ""
}
