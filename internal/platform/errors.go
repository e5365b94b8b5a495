package platform

import (
	"fmt"
	"net/http"
	"strings"
)

// Operations reported in errors and used to pick remediation hints.
const (
	OpList   = "list"
	OpGet    = "get"
	OpUpdate = "update"
)

// APIError describes a failed call to the forms API. StatusCode is zero when
// the request never produced a response.
type APIError struct {
	Op         string
	Method     string
	URL        string
	StatusCode int
	Body       string
	Hint       string
	Cause      error
}

func newAPIError(op, method, rawURL string, status int, body []byte, cause error) *APIError {
	return &APIError{
		Op:         op,
		Method:     method,
		URL:        rawURL,
		StatusCode: status,
		Body:       string(body),
		Hint:       HintFor(op, status),
		Cause:      cause,
	}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Method, e.URL)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, ": %s", truncate(e.Body, 200))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Remediation hints keyed by status code.
const (
	HintUnauthorized   = "The API key is invalid or has expired. Generate a new private app access token in HubSpot and re-run to replace the saved key."
	HintForbiddenRead  = "The API key lacks permission to read forms. Make sure the private app has the \"forms\" scope."
	HintForbiddenWrite = "The API key lacks permission to modify forms. Make sure the private app has write access on the \"forms\" scope."
	HintNotFound       = "No form exists with that ID. Check the ID in the form's URL in HubSpot."
	HintBadRequest     = "The API rejected the update as invalid. Inspect the response body above for the offending field."
	HintRateLimited    = "The API rate limit was hit. Wait a moment and run again."
	HintTransport      = "The API could not be reached. Check your network connection."
)

// HintFor returns the troubleshooting hint for a failed operation, or "".
func HintFor(op string, status int) string {
	switch status {
	case 0:
		return HintTransport
	case http.StatusUnauthorized:
		return HintUnauthorized
	case http.StatusForbidden:
		if op == OpUpdate {
			return HintForbiddenWrite
		}
		return HintForbiddenRead
	case http.StatusNotFound:
		if op == OpGet {
			return HintNotFound
		}
	case http.StatusBadRequest:
		if op == OpUpdate {
			return HintBadRequest
		}
	case http.StatusTooManyRequests:
		return HintRateLimited
	}
	return ""
}
