package models

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string       `json:"message"`
	Error   string       `json:"error,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}
