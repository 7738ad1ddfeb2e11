package driver

import "fmt"

// CatalogError is a business-level failure reported inside a decoded
// catalog response body, e.g. "hold already exists". The gateway
// delivers such bodies as normal results and the driver maps them here.
type CatalogError struct {
	Message string
	Code    int
	Detail  string
}

func (e *CatalogError) Error() string {
	s := e.Message
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	if e.Code != 0 {
		s += fmt.Sprintf(" (code %d)", e.Code)
	}
	return s
}

// apiError is the error envelope the catalog embeds in its JSON bodies.
type apiError struct {
	Error string `json:"error,omitempty"`
	Code  int    `json:"code,omitempty"`
}

func checkApiError(op string, e apiError) error {
	if e.Error != "" {
		return &CatalogError{
			Message: op + " failed",
			Code:    e.Code,
			Detail:  e.Error,
		}
	}
	return nil
}
