package sanity

import "fmt"

// UnavailableError reports that the content store could not be reached or
// failed internally (network error or 5xx). Callers surface it as a
// generic failure; the client never retries.
type UnavailableError struct {
	Op  string // "query" or "mutate"
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("sanity %s: store unavailable: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// QueryError reports a malformed or rejected request (4xx). This is a
// programmer error in normal operation: the query text or parameters are
// invalid, or a mutation was refused.
type QueryError struct {
	Op          string
	StatusCode  int
	Description string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("sanity %s: %s (status %d)", e.Op, e.Description, e.StatusCode)
}
