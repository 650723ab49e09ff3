package semaphore

import (
	"errors"
	"fmt"

	apperrors "github.com/ebdruplab/semactl/internal/errors"
)

// APIError is returned for any response outside the 2xx range. It keeps the
// raw status and body so callers can surface them verbatim.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("semaphore API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("semaphore API returned status %d: %s", e.StatusCode, e.Body)
}

// AsAPIError unwraps err down to the *APIError it carries, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is an API failure with status 404.
func IsNotFound(err error) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode == 404
	}
	return false
}

func wrapStatusError(method, path string, apiErr *APIError) error {
	msg := fmt.Sprintf("%s %s failed", method, path)
	switch apiErr.StatusCode {
	case 401, 403:
		return apperrors.Wrap(apiErr, apperrors.CodeAuthError, msg)
	case 404:
		return apperrors.Wrap(apiErr, apperrors.CodeResourceNotFound, msg)
	default:
		return apperrors.Wrap(apiErr, apperrors.CodeAPIError, msg)
	}
}
