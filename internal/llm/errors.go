package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("empty response")

// StatusError is a non-2xx answer from an HTTP provider.
type StatusError struct {
	Provider string
	Op       string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s failed: status %d, body: %s", e.Provider, e.Op, e.Code, e.Body)
}

// IsAuthError reports whether err means the credential was rejected.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden
	}
	var ae genai.APIError
	if errors.As(err, &ae) {
		switch {
		case ae.Code == http.StatusUnauthorized, ae.Code == http.StatusForbidden:
			return true
		case ae.Status == "UNAUTHENTICATED", ae.Status == "PERMISSION_DENIED":
			return true
		case ae.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(ae.Message), "api key"):
			return true
		}
	}
	return false
}

func statusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	var ae genai.APIError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return 0
}
