package models

// Response is the envelope for every REST payload. Errors built from the
// errs package marshal as their message strings.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  []error     `json:"errors,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
