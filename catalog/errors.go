package catalog

import (
	"errors"
	"fmt"
)

// ErrAuthRejected means the token refresh did not yield a usable token.
// For a user identity this is "login failed", for the service identity
// a configuration or environment problem.
var ErrAuthRejected = errors.New("authentication rejected")

// ProtocolError is an HTTP failure status combined with a response
// body that is not parseable as the catalog's JSON format. Status is
// the full status line, Body the raw response for diagnostics.
type ProtocolError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("HTTP error %s: %s", e.Status, e.Body)
}
