// README: Base handler utilities (JSON helpers, error mapping, validation details).
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"removals/internal/modules/lead"
	"removals/internal/modules/pricing"
	"removals/internal/modules/route"
)

type errorResponse struct {
	Error   string       `json:"error"`
	Status  string       `json:"status,omitempty"`
	Details []fieldError `json:"details,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeBindError reports a body that failed to decode or validate.
func writeBindError(c *gin.Context, err error) {
	writeJSON(c, http.StatusBadRequest, errorResponse{
		Error:   "Invalid request data",
		Details: fieldErrors(err),
	})
}

func fieldErrors(err error) []fieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		// drop the root struct from the namespace: "leadRequest.quoteInputs.hours" -> "quoteInputs.hours"
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		out = append(out, fieldError{Field: field, Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}

func writePricingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeRouteError(c *gin.Context, err error, maxStops int) {
	status := route.StatusMessage(err, maxStops)
	var rerr *route.RoutingError
	switch {
	case errors.Is(err, route.ErrMissingAddress), errors.Is(err, route.ErrTooManyStops):
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: err.Error(), Status: status})
	case errors.Is(err, route.ErrAddressNotFound):
		writeJSON(c, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Status: status})
	case errors.Is(err, route.ErrNotConfigured):
		writeJSON(c, http.StatusServiceUnavailable, errorResponse{Error: "Google Maps API key not configured", Status: status})
	case errors.As(err, &rerr), errors.Is(err, route.ErrNoRoute):
		writeJSON(c, http.StatusBadGateway, errorResponse{Error: err.Error(), Status: status})
	default:
		writeJSON(c, http.StatusInternalServerError, errorResponse{Error: "internal error", Status: status})
	}
}

func writeLeadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lead.ErrMailerNotConfigured):
		writeError(c, http.StatusServiceUnavailable, "Email service not configured")
	default:
		writeError(c, http.StatusInternalServerError, "Failed to send quote")
	}
}
