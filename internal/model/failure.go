package model

import "fmt"

// FailureKind is the coarse classification of a chunk fetch error.
// It drives the diagnostic shown to the user and never changes control flow.
type FailureKind string

const (
	Unauthorized FailureKind = "unauthorized"
	RateLimited  FailureKind = "rate_limited"
	Transient    FailureKind = "transient"
	Unknown      FailureKind = "unknown"
)

// Hint returns a user-facing explanation for the kind.
func (k FailureKind) Hint() string {
	switch k {
	case Unauthorized:
		return "not authorized to access this data; check the API key or subscription level"
	case RateLimited:
		return "rate limit exceeded; the free tier allows 5 requests per minute"
	case Transient:
		return "network or server error; re-run the fetch for this sub-range"
	default:
		return "unclassified provider error"
	}
}

// FetchFailure is the error returned for one failed chunk request.
type FetchFailure struct {
	Kind   FailureKind
	Ticker string
	Chunk  Chunk
	Err    error
}

func (f *FetchFailure) Error() string {
	return fmt.Sprintf("fetch %s %s: %s: %v", f.Ticker, f.Chunk.Range, f.Kind, f.Err)
}

func (f *FetchFailure) Unwrap() error { return f.Err }
