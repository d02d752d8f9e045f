package gate

type (
	// Policy is fixed at process start and passed into every
	// Authenticate call. There is no ambient configuration state.
	Policy struct {
		// IdentifierOnly accepts a login that submits an identifier
		// without any secret, skipping the secret comparison entirely.
		IdentifierOnly bool
	}
)
