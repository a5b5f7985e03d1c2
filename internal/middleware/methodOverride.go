package middleware

import (
	"net/http"
	"strings"
)

// MethodOverrideField is the form field HTML forms use to ask for PUT or DELETE
const MethodOverrideField = "_method"

// MethodOverride rewrites POST form submissions carrying a _method field of
// PUT, PATCH or DELETE. It wraps the router because gin picks a route before
// any of its own middleware run.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && isForm(r) {
			switch method := strings.ToUpper(r.PostFormValue(MethodOverrideField)); method {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = method
			}
		}

		next.ServeHTTP(w, r)
	})
}

func isForm(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	return strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data")
}
