package strategy

import (
	"strings"
)

// ValidationSeverity represents the severity of a validation issue
type ValidationSeverity string

const (
	ValidationSeverityError   ValidationSeverity = "error"
	ValidationSeverityWarning ValidationSeverity = "warning"
)

// ValidationError is a single field/code violation
type ValidationError struct {
	Field    string             `json:"field,omitempty"`
	Code     string             `json:"code"`
	Message  string             `json:"message"`
	Severity ValidationSeverity `json:"severity"`
}

// NewValidationError creates an error-severity violation
func NewValidationError(field, code, message string) ValidationError {
	return ValidationError{
		Field:    field,
		Code:     code,
		Message:  message,
		Severity: ValidationSeverityError,
	}
}

// Error implements the error interface
func (e ValidationError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// ValidationErrors is an ordered list of violations usable as an error
type ValidationErrors []ValidationError

// Error joins all messages
func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasCode reports whether any violation carries the given code
func (v ValidationErrors) HasCode(code string) bool {
	for _, e := range v {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Codes returns the codes in order
func (v ValidationErrors) Codes() []string {
	codes := make([]string, 0, len(v))
	for _, e := range v {
		codes = append(codes, e.Code)
	}
	return codes
}

// ValidationResult collects violations from several checks
type ValidationResult struct {
	Errors   ValidationErrors
	Warnings ValidationErrors
}

// IsValid returns true when no error was recorded
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// AddError adds an error to the validation result
func (r *ValidationResult) AddError(field, code, message string) {
	r.Errors = append(r.Errors, NewValidationError(field, code, message))
}

// Append adds already built violations, sorting them by severity
func (r *ValidationResult) Append(errs ...ValidationError) {
	for _, e := range errs {
		if e.Severity == ValidationSeverityWarning {
			r.Warnings = append(r.Warnings, e)
			continue
		}
		if e.Severity == "" {
			e.Severity = ValidationSeverityError
		}
		r.Errors = append(r.Errors, e)
	}
}

// AddWarning adds a warning to the validation result
func (r *ValidationResult) AddWarning(field, code, message string) {
	r.Warnings = append(r.Warnings, ValidationError{
		Field:    field,
		Code:     code,
		Message:  message,
		Severity: ValidationSeverityWarning,
	})
}

// Err returns the errors as an error value, or nil when valid
func (r *ValidationResult) Err() error {
	if r.IsValid() {
		return nil
	}
	return r.Errors
}
