package errs

// Error categories shared by every layer. Concrete errors are marked with one of
// these so handlers can map them to a status without knowing the origin.
var (
	// malformed input, recovered locally
	ErrValidation = New("validation failed")
	// referenced book, member, location or transaction is absent
	ErrNotFound = New("record not found")
	// transaction status precondition failed
	ErrStateConflict = New("transaction state conflict")
	// physically verified book does not match the transaction
	ErrIdentityMismatch = New("book identity mismatch")
	// member may not start a checkout
	ErrIneligible = New("member is not eligible")
	// book already reserved or checked out; safe to retry
	ErrInventoryUnavailable = New("book is not available")
	// no in_possession transaction for the member and book
	ErrNoActiveCustody = New("no active custody")
	// actor does not own the transaction
	ErrUnauthorized = New("actor does not own the transaction")
	// record store unreachable or timed out; caller retries with backoff
	ErrStoreUnavailable = New("record store unavailable")
	// no unique transaction id after the bounded number of attempts
	ErrIDGenerationExhausted = New("transaction id generation exhausted")
)
