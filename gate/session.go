package gate

type (
	// Session records that a connection authenticated as a given
	// account. It is copied out of the account at login time and never
	// mutated afterwards, only destroyed.
	Session struct {
		AccountID  int64  `json:"accountId"`
		Identifier string `json:"identifier"`
	}
)

// Authenticated reports whether the session is bound to an account.
func (s Session) Authenticated() bool {
	return s.AccountID != 0
}
