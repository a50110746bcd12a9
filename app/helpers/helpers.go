package helpers

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
)

// GenerateSlug joins the parts and turns them into a lowercase, dash
// separated identifier. Empty parts are skipped.
func GenerateSlug(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return slug.Make(strings.Join(kept, " "))
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required", err.Field())
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "gt":
			errorMessages[field] = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "gte":
			errorMessages[field] = fmt.Sprintf("minimum value for %s is %s", err.Field(), err.Param())
		case "lte":
			errorMessages[field] = fmt.Sprintf("maximum value for %s is %s", err.Field(), err.Param())
		case "gtfield":
			errorMessages[field] = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "barcode":
			errorMessages[field] = fmt.Sprintf("%s must be a positive integer of at most 13 digits", err.Field())
		default:
			errorMessages[field] = fmt.Sprintf("validation %s failed on field %s", err.Tag(), err.Field())
		}
	}
	return errorMessages
}

// RemoteIP is the address of the peer that opened the connection, which is
// the proxy when the service sits behind one.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ForwardedForIP is the first address of X-Forwarded-For, or "" when the
// header is absent.
func ForwardedForIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return ""
	}
	return strings.TrimSpace(strings.Split(forwarded, ",")[0])
}
