package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAliasInvariance(t *testing.T) {
	payloads := []map[string]string{
		{"username": "admin", "password": "s3cret"},
		{"usuario": "admin", "contrasena": "s3cret"},
		{"user": "admin", "pass": "s3cret"},
		{"usuario": "admin", "contraseña": "s3cret"},
	}
	for _, payload := range payloads {
		creds := Resolve(payload)
		assert.Equal(t, Credentials{Identifier: "admin", Secret: "s3cret"}, creds, "payload %v", payload)
	}
}

func TestResolveAliasOrder(t *testing.T) {
	creds := Resolve(map[string]string{"user": "second", "username": "first"})
	assert.Equal(t, "first", creds.Identifier)
	creds = Resolve(map[string]string{"contrasena": "second", "password": "first"})
	assert.Equal(t, "first", creds.Secret)
}

func TestResolveTrimsOnlyTheIdentifier(t *testing.T) {
	creds := Resolve(map[string]string{"username": "  admin\t", "password": " s3cret "})
	assert.Equal(t, "admin", creds.Identifier)
	assert.Equal(t, " s3cret ", creds.Secret)
}

func TestResolveMissingFields(t *testing.T) {
	assert.Equal(t, Credentials{}, Resolve(map[string]string{"unrelated": "x"}))
	assert.Equal(t, Credentials{}, Resolve(nil))
}
