package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	genericErrorMessage = "Something went wrong"
	maxTextMessage      = 256
)

var ErrUnauthorized = errors.New("unauthorized")

// An HTTPError is a non-2xx response.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Body       []byte
}

func newHTTPError(method, url string, status int, body []byte) *HTTPError {
	e := &HTTPError{
		Method:     method,
		URL:        url,
		StatusCode: status,
		Body:       body,
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Message = payload.Message
		if e.Message == "" {
			e.Message = payload.Error
		}
		return e
	}

	// plain text replies such as http.Error
	if text := strings.TrimSpace(string(body)); len(text) <= maxTextMessage {
		e.Message = text
	}
	return e
}

func (e *HTTPError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %d %s",
		e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsClientError reports a 4xx response.
func IsClientError(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 400 && httpErr.StatusCode < 500
	}
	return false
}

// ErrorMessage returns a human readable message for err.
//
// It prefers the server supplied message, then the error text, then a generic
// fallback.
func ErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return genericErrorMessage
}
