package dto

import (
	"net/http"
	"strings"
)

// Error codes returned in ErrorInfo.Code
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"

	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

	// No shop header, or one that is not a UUID
	ErrCodeShopRequired = "ERR_SHOP_REQUIRED"
	ErrCodeShopInvalid  = "ERR_SHOP_INVALID"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState       = "ERR_INVALID_STATE"
	ErrCodeBusinessRule       = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock  = "ERR_INSUFFICIENT_STOCK"
	ErrCodeMethodNotAvailable = "ERR_METHOD_NOT_AVAILABLE"
	ErrCodeCurrencyMismatch   = "ERR_CURRENCY_MISMATCH"
)

// codeSpec is the HTTP status of an API code and the domain error code, if
// any, that is reported under it.
type codeSpec struct {
	status int
	domain string
}

var codeSpecs = map[string]codeSpec{
	ErrCodeInternal:   {http.StatusInternalServerError, "INTERNAL_ERROR"},
	ErrCodeBadRequest: {http.StatusBadRequest, "BAD_REQUEST"},

	ErrCodeValidation:      {http.StatusBadRequest, "VALIDATION_ERROR"},
	ErrCodeInvalidInput:    {http.StatusBadRequest, "INVALID_INPUT"},
	ErrCodeInvalidJSON:     {http.StatusBadRequest, ""},
	ErrCodeRequestTooLarge: {http.StatusRequestEntityTooLarge, ""},

	ErrCodeShopRequired: {http.StatusBadRequest, ""},
	ErrCodeShopInvalid:  {http.StatusBadRequest, ""},

	ErrCodeNotFound:            {http.StatusNotFound, "NOT_FOUND"},
	ErrCodeAlreadyExists:       {http.StatusConflict, "ALREADY_EXISTS"},
	ErrCodeConflict:            {http.StatusConflict, ""},
	ErrCodeConcurrencyConflict: {http.StatusConflict, "CONCURRENCY_CONFLICT"},

	ErrCodeInvalidState:       {http.StatusUnprocessableEntity, "INVALID_STATE"},
	ErrCodeBusinessRule:       {http.StatusUnprocessableEntity, ""},
	ErrCodeInsufficientStock:  {http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
	ErrCodeMethodNotAvailable: {http.StatusUnprocessableEntity, "METHOD_NOT_AVAILABLE"},
	ErrCodeCurrencyMismatch:   {http.StatusBadRequest, "CURRENCY_MISMATCH"},
}

var domainCodes = func() map[string]string {
	m := make(map[string]string, len(codeSpecs))
	for code, entry := range codeSpecs {
		if entry.domain != "" {
			m[entry.domain] = code
		}
	}
	return m
}()

// NormalizeErrorCode reports a shared domain code under its API code.
// Specific domain codes such as INVALID_IDENTIFIER pass through for clients
// to match on.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainCodes[code]; ok {
		return apiCode
	}
	return code
}

// GetHTTPStatus returns the status for an API code. Pass-through domain
// codes are resolved by naming: INVALID_* is a 400 and *_NOT_FOUND a 404.
// Anything else is a 500.
func GetHTTPStatus(code string) int {
	if entry, ok := codeSpecs[code]; ok {
		return entry.status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
