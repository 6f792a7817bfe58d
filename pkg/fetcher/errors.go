package fetcher

import (
	"errors"
	"fmt"
	"strings"
)

const maxSnippetBytes = 512

// StatusError reports a response whose status code is outside 2xx.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: status %d from %s", e.StatusCode, e.URL)
}

// ParseError reports a 2xx response whose body is not valid JSON for the target.
type ParseError struct {
	URL  string
	Body string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NetworkError reports a request that never produced a response
// (DNS, connection, cancellation, deadline).
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Error kinds reported by ErrorKind.
const (
	KindNetwork = "network"
	KindStatus  = "status"
	KindParse   = "parse"
	KindOther   = "other"
)

// ErrorKind classifies err into one of the Kind* labels.
func ErrorKind(err error) string {
	var (
		statusErr  *StatusError
		parseErr   *ParseError
		networkErr *NetworkError
	)
	switch {
	case errors.As(err, &statusErr):
		return KindStatus
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &networkErr):
		return KindNetwork
	default:
		return KindOther
	}
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippetBytes {
		return s[:maxSnippetBytes] + "..."
	}
	return s
}
