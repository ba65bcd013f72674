package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// StatusError reports that the backend was reachable but rejected the request
// with a non-2xx status. Transport failures are returned as ordinary wrapped
// errors, so callers can tell the two apart with IsStatus.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("backend returned status %d", e.Code)
}

// Detail extracts the detail message FastAPI puts in rejection bodies, if any.
func (e *StatusError) Detail() string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(e.Body), &payload); err == nil {
		return payload.Detail
	}
	return ""
}

// IsStatus reports whether err stems from a backend status rejection rather
// than a transport failure.
func IsStatus(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}
