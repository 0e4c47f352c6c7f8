package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "superstore/internal/errors"
)

// ValidationMiddleware provides request validation
type ValidationMiddleware struct {
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxBodySize  int64
}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ValidationMiddleware {
	v := validator.New()

	// Custom validators used by request structs
	v.RegisterValidation("iso8601", validateISO8601)
	v.RegisterValidation("filename", validateFilename)

	// Report field names from json tags so validation errors match the wire format
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ValidationMiddleware{
		validator:    v,
		logger:       logger,
		errorHandler: errorHandler,
		maxBodySize:  10 * 1024 * 1024, // 10MB
	}
}

// ValidateRequest validates incoming request bodies
func (vm *ValidationMiddleware) ValidateRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No body to validate on safe methods
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if r.ContentLength > vm.maxBodySize {
			vm.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusRequestEntityTooLarge,
				"PAYLOAD_TOO_LARGE",
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", vm.maxBodySize),
			))
			return
		}

		if r.Body != nil && r.ContentLength != 0 {
			body, err := io.ReadAll(io.LimitReader(r.Body, vm.maxBodySize+1))
			if err != nil {
				vm.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
				return
			}
			r.Body.Close()

			if int64(len(body)) > vm.maxBodySize {
				vm.errorHandler.HandleError(w, r, apierrors.New(
					http.StatusRequestEntityTooLarge,
					"PAYLOAD_TOO_LARGE",
					fmt.Sprintf("Request body exceeds maximum size of %d bytes", vm.maxBodySize),
				))
				return
			}

			// Restore the body for downstream handlers
			r.Body = io.NopCloser(bytes.NewReader(body))

			contentType := r.Header.Get("Content-Type")
			if strings.Contains(contentType, "application/json") && len(body) > 0 {
				if !json.Valid(body) {
					vm.errorHandler.HandleError(w, r, apierrors.NewValidationError("Request body is not valid JSON"))
					return
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}

// ValidateStruct validates a struct and returns an APIError describing
// every failing field, or nil when the struct is valid.
func (vm *ValidationMiddleware) ValidateStruct(s interface{}) error {
	if err := vm.validator.Struct(s); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return apierrors.InvalidRequestWithError(err)
		}

		fieldErrors := make([]apierrors.ValidationError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fieldErrors = append(fieldErrors, apierrors.ValidationError{
				Field:   fe.Field(),
				Message: formatValidationError(fe),
			})
		}
		return apierrors.NewValidationErrors(fieldErrors)
	}
	return nil
}

// ContentTypeValidator ensures requests carry an acceptable Content-Type
func (vm *ValidationMiddleware) ContentTypeValidator(allowedTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType == "" {
				vm.errorHandler.HandleError(w, r, apierrors.NewValidationError("Content-Type header is required"))
				return
			}

			for _, allowed := range allowedTypes {
				if strings.Contains(contentType, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}

			vm.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusUnsupportedMediaType,
				"UNSUPPORTED_MEDIA_TYPE",
				fmt.Sprintf("Content-Type %q is not supported", contentType),
			))
		})
	}
}

// formatValidationError converts a validator field error into a readable message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "lt":
		return fmt.Sprintf("Must be less than %s", fe.Param())
	case "iso8601", "datetime":
		return "Must be a valid date in YYYY-MM-DD format"
	case "filename":
		return "Must be a valid filename without path separators"
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}

// validateISO8601 checks for a YYYY-MM-DD date value
func validateISO8601(fl validator.FieldLevel) bool {
	return isISO8601(fl.Field().String())
}

func isISO8601(value string) bool {
	if len(value) != 10 {
		return false
	}
	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return false
	}
	return len(parts[0]) == 4 && len(parts[1]) == 2 && len(parts[2]) == 2
}

// validateFilename rejects names that could escape the output directory
func validateFilename(fl validator.FieldLevel) bool {
	return isValidFilename(fl.Field().String())
}

func isValidFilename(name string) bool {
	if name == "" || len(name) > 255 {
		return false
	}
	if strings.Contains(name, "..") || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return false
	}
	return true
}

// QueryParamValidator validates query string parameters
type QueryParamValidator struct {
	errorHandler *apierrors.ErrorHandler
}

// NewQueryParamValidator creates a query parameter validator
func NewQueryParamValidator(errorHandler *apierrors.ErrorHandler) *QueryParamValidator {
	return &QueryParamValidator{errorHandler: errorHandler}
}

// ValidateInt parses an integer query parameter, applying bounds and a default
func (qv *QueryParamValidator) ValidateInt(r *http.Request, param string, min, max, defaultValue int) (int, error) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, nil
	}

	var result int
	if _, err := fmt.Sscanf(value, "%d", &result); err != nil {
		return 0, apierrors.ErrValidation(param, fmt.Sprintf("Must be a valid integer, got %q", value))
	}

	if result < min || result > max {
		return 0, apierrors.ErrValidation(param, fmt.Sprintf("Must be between %d and %d", min, max))
	}

	return result, nil
}

// ValidateEnum checks a query parameter against a set of allowed values
func (qv *QueryParamValidator) ValidateEnum(r *http.Request, param string, allowed []string, defaultValue string) (string, error) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, nil
	}

	for _, a := range allowed {
		if value == a {
			return value, nil
		}
	}

	return "", apierrors.ErrValidation(param, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
}
