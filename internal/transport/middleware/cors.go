package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

var corsPrefixes = []string{"/api/", "/internal/api/"}

const corsMaxAge = 3600

// CORS allows the configured origins on API paths only. "*" allows any
// origin. Preflight requests are answered directly with 204.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:     allowedOrigins,
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:     []string{"*"},
		ExposedHeaders:     []string{TraceHeader},
		MaxAge:             corsMaxAge,
		OptionsPassthrough: true,
	})

	// preflight never reaches the router
	preflight := c.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	return func(next http.Handler) http.Handler {
		actual := c.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case !isCORSPath(r.URL.Path):
				next.ServeHTTP(w, r)
			case isPreflight(r):
				preflight.ServeHTTP(w, r)
			default:
				actual.ServeHTTP(w, r)
			}
		})
	}
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

func isCORSPath(path string) bool {
	for _, prefix := range corsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
