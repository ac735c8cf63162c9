package handler

import "github.com/shopcore/backend/internal/interfaces/http/dto"

// Typed views of dto.Response for the generated OpenAPI document. Handlers
// write dto.Response directly.

// APIResponse is the envelope of a successful call carrying T
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the envelope of a failed call
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}
