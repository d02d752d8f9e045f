// Package gate decides who gets past the login form.
//
// The policy here is deliberately a faithful port of the system it
// replaces, warts included. Secrets are stored and compared as plain
// text, and a login with an unknown identifier answers with a different
// code than a login with a wrong secret, so anyone on the internet can
// probe which identifiers exist.
//
// Keeping the warts is the point: clients depend on the exact reject
// codes and on the exact order the checks run in. Field validation
// happens before the store is touched, the lookup happens before the
// secret comparison, and in identifier-only mode a submission without
// any secret skips the comparison entirely, no matter what secret the
// account has on file.
//
// If you are tempted to reuse this anywhere else: hash the secrets
// behind the same comparison contract and collapse the two
// unauthorized codes into one first.
package gate
