package fetch

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// The API failure taxonomy callers dispatch on:
//
//   - AuthError: bad or unauthorized credential. Never retried, always
//     aborts the run.
//   - QuotaError: rate budget exhausted. Retried with backoff, fatal once
//     retries are spent.
//   - TransientError: everything else HTTP. Retried, then skippable at
//     page/chunk granularity (fatal only during service init).

type AuthError struct {
	Status int
	Err    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authorization rejected (status %d): %v", e.Status, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

type QuotaError struct {
	Status int
	Err    error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("quota exceeded (status %d): %v", e.Status, e.Err)
}

func (e *QuotaError) Unwrap() error { return e.Err }

type TransientError struct {
	Status int
	Err    error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient api failure (status %d): %v", e.Status, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Classify maps an API error into the taxonomy. Non-HTTP failures (DNS,
// connection resets, timeouts) count as transient.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &TransientError{Err: err}
	}

	switch gerr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		// A 403 carrying a quota reason is a budget problem, not a bad key.
		for _, item := range gerr.Errors {
			if item.Reason == "quotaExceeded" || item.Reason == "rateLimitExceeded" {
				return &QuotaError{Status: gerr.Code, Err: err}
			}
		}
		return &AuthError{Status: gerr.Code, Err: err}
	case http.StatusTooManyRequests:
		return &QuotaError{Status: gerr.Code, Err: err}
	default:
		return &TransientError{Status: gerr.Code, Err: err}
	}
}

// IsFatal reports whether an error must abort the whole run rather than
// just the current page or chunk.
func IsFatal(err error) bool {
	var authErr *AuthError
	var quotaErr *QuotaError
	return errors.As(err, &authErr) || errors.As(err, &quotaErr)
}
