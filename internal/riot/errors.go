package riot

import (
	"errors"
	"fmt"
)

// Kind classifies an upstream failure. The coordinator dispatches on it to
// decide what is retryable and how a failed match is reported.
type Kind int

const (
	// KindRateLimited is a 429 that survived every backoff attempt.
	KindRateLimited Kind = iota
	// KindTransient is a network error or 5xx that survived its retries.
	KindTransient
	// KindNotFound is a 404; the identity or match does not exist upstream.
	KindNotFound
	// KindDecode is a 200 whose payload did not match the expected shape.
	KindDecode
	// KindInvalid is any other 4xx; the request itself is wrong.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindTransient:
		return "transient"
	case KindNotFound:
		return "not_found"
	case KindDecode:
		return "decode"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind   Kind
	Status int
	URL    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("riot api %s (%s): %v", e.Kind, e.URL, e.Err)
	}
	return fmt.Sprintf("riot api %s (%s): status %d", e.Kind, e.URL, e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	return hasKind(err, KindNotFound)
}

func IsRateLimited(err error) bool {
	return hasKind(err, KindRateLimited)
}

func hasKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
