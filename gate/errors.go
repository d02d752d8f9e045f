package gate

import "fmt"

type (
	// Reason is the stable client-visible code for a refused login.
	Reason string

	// Rejection is returned by Authenticate when the credentials were
	// examined and turned down. Anything else coming out of
	// Authenticate is an infrastructure failure, not a decision.
	Rejection struct {
		Reason Reason
	}
)

const (
	MissingIdentifier  = Reason("missing_identifier")
	MissingSecret      = Reason("missing_secret")
	AccountNotFound    = Reason("account_not_found")
	InvalidCredentials = Reason("invalid_credentials")
)

func (r *Rejection) Error() string {
	return fmt.Sprintf("login rejected, reason %v", r.Reason)
}

func reject(reason Reason) error {
	return &Rejection{Reason: reason}
}
