// Package dto holds the JSON envelope shared by every API response.
package dto

import "time"

// Response is the envelope: Data on success, Error otherwise. Meta is set
// for paged lists.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes one rejected field or one unavailability reason.
// Tag carries the validator tag for request errors and the reason code for
// method validation errors.
type ValidationDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
	Value   string `json:"value,omitempty"`
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

const defaultPageSize = 20

func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewSuccessResponseWithMeta wraps one page of a list. A non-positive
// pageSize counts pages of defaultPageSize.
func NewSuccessResponseWithMeta(data any, total int64, page, pageSize int) Response {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	size := int64(pageSize)
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: int((total + size - 1) / size),
		},
	}
}

// NewErrorResponse builds a failed envelope. Shared domain codes are
// normalized first.
func NewErrorResponse(code, message string) Response {
	return NewErrorResponseWithDetails(code, message, "", nil)
}

func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return NewErrorResponseWithDetails(code, message, requestID, nil)
}

func NewErrorResponseWithDetails(code, message, requestID string, details []ValidationDetail) Response {
	return Response{
		Error: &ErrorInfo{
			Code:      NormalizeErrorCode(code),
			Message:   message,
			RequestID: requestID,
			Timestamp: time.Now(),
			Details:   details,
		},
	}
}

func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	return NewErrorResponseWithDetails(ErrCodeValidation, message, requestID, details)
}
