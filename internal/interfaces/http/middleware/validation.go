package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopcore/backend/internal/interfaces/http/dto"
)

// SetupValidator makes gin's validator report fields by their json name,
// or their form name for query bindings.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return ""
	})
}

// FormatValidationErrors lists one detail per rejected field
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details = make([]dto.ValidationDetail, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, dto.ValidationDetail{
				Field:   fe.Field(),
				Message: getValidationMessage(fe),
				Tag:     fe.Tag(),
			})
		}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes the response for a failed bind. Bodies cut
// off by BodyLimit get a 413; bodies that never decoded are reported as
// invalid JSON.
func HandleValidationError(c *gin.Context, err error) {
	requestID := c.GetString(RequestIDKey)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestID))
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, tooLargeResponse(tooLarge.Limit, requestID))
		return
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidJSON, err.Error(), requestID))
}

var validationMessages = map[string]string{
	"required": "This field is required",
	"len":      "Must be exactly %s characters",
	"oneof":    "Must be one of: %s",
	"gt":       "Must be greater than %s",
	"gte":      "Must be greater than or equal to %s",
	"lte":      "Must be less than or equal to %s",
	"uuid":     "Invalid UUID format",
	"url":      "Invalid URL format",
	"iso4217":  "Must be an ISO 4217 currency code",

	"iso3166_1_alpha2": "Must be an ISO 3166 country code",
}

func getValidationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be %s %s characters", bound, fe.Param())
		}
		return fmt.Sprintf("Must be %s %s", bound, fe.Param())
	}
	msg, ok := validationMessages[fe.Tag()]
	if !ok {
		return "Invalid value"
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}
	return msg
}
