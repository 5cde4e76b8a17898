package dto

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Fields  []string `json:"fields,omitempty"`
	Types   []string `json:"types,omitempty"`
	Details any      `json:"details,omitempty"`
}
