package cmdflags

import (
	"github.com/amontoro/porteria/gate/api"
	"github.com/urfave/cli/v2"
)

func StoreDir(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "store",
		Aliases:     []string{"s", "db"},
		Usage:       "Directory holding the account database",
		Destination: out,
		Value:       *out,
	}
}

func AllowUsernameOnly(out *bool) cli.Flag {
	return &cli.BoolFlag{
		Name:        "allow-username-only",
		Usage:       "Accept logins that submit an identifier without any secret",
		EnvVars:     []string{"ALLOW_USERNAME_ONLY"},
		Destination: out,
		Value:       *out,
	}
}

func SessionKeyEnvVar(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = api.SessionKeyEnvVar
	}
	return &cli.StringFlag{
		Name:        "session-key-envvar-name",
		Usage:       "Name of the environment variable that holds the cookie sealing key. The key itself should not be passed as an argument",
		Value:       *out,
		Destination: out,
	}
}
