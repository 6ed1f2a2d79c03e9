// Package registration implements the account registration use case.
// A use case encapsulates one business operation: it validates domain
// invariants, orchestrates entity creation through the store, and triggers
// side effects. The boundary layer never constructs or mutates accounts
// directly; it always goes through this package.
package registration
