package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/amontoro/porteria/account"
)

type (
	// Lookup fetches the account registered under an identifier.
	// Implementations report a missing account with account.NotFound,
	// any other error means the store itself misbehaved.
	Lookup func(ctx context.Context, identifier string) (account.Account, error)
)

// Authenticate decides whether the submitted credentials identify a
// registered account.
//
// The checks run in a fixed order and stop at the first failure:
// field validation before any store access, then the lookup, then the
// secret comparison. The order is observable through the reject codes
// and clients depend on it.
func Authenticate(ctx context.Context, creds Credentials, policy Policy, lookup Lookup) (Session, error) {
	if creds.Identifier == "" {
		return Session{}, reject(MissingIdentifier)
	}
	if !policy.IdentifierOnly && creds.Secret == "" {
		return Session{}, reject(MissingSecret)
	}
	acc, err := lookup(ctx, creds.Identifier)
	var notFound account.NotFound
	if errors.As(err, &notFound) {
		return Session{}, reject(AccountNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("unable to lookup account %v, cause %w", creds.Identifier, err)
	}
	if policy.IdentifierOnly && creds.Secret == "" {
		// identifier-only mode triggers on the submitted secret being
		// absent, the stored secret plays no part in it
		return Session{AccountID: acc.ID, Identifier: acc.Identifier}, nil
	}
	if creds.Secret != acc.Secret {
		return Session{}, reject(InvalidCredentials)
	}
	return Session{AccountID: acc.ID, Identifier: acc.Identifier}, nil
}
