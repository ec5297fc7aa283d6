package middleware

import (
	"net/http"
	"slices"
	"strings"
)

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// CORS answers preflight requests with 204 and decorates allowed origins.
// A "*" entry in AllowedMethods or AllowedHeaders reflects whatever the
// preflight asked for.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := origin != "" && isOriginAllowed(origin, config.AllowedOrigins)

			if origin != "" {
				w.Header().Add("Vary", "Origin")
			}
			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				if config.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if allowed {
					if methods := allowList(config.AllowedMethods, r.Header.Get("Access-Control-Request-Method")); methods != "" {
						w.Header().Set("Access-Control-Allow-Methods", methods)
					}
					if headers := allowList(config.AllowedHeaders, r.Header.Get("Access-Control-Request-Headers")); headers != "" {
						w.Header().Set("Access-Control-Allow-Headers", headers)
					}
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isOriginAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

func allowList(configured []string, requested string) string {
	if slices.Contains(configured, "*") {
		return requested
	}
	return strings.Join(configured, ", ")
}
