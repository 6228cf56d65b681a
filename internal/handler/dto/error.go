// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageResponse is a bare informational payload.
type MessageResponse struct {
	Message string `json:"message"`
}
