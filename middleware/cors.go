package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/broady/minimalapi"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// AllowOrigins is a list of origins a cross-domain request can be executed from.
	// If the list contains "*", all origins are allowed.
	// Default: ["*"]
	AllowOrigins []string

	// AllowMethods is a list of methods the client is allowed to use.
	// Default: the methods of Routes plus OPTIONS, or GET, POST and OPTIONS
	// when Routes is nil.
	AllowMethods []string

	// Routes, when set, supplies the default AllowMethods.
	Routes *minimalapi.Registry

	// AllowHeaders is a list of headers the client is allowed to use.
	// Default: ["Content-Type", "Authorization"]
	AllowHeaders []string

	// ExposeHeaders indicates which headers are safe to expose.
	ExposeHeaders []string

	// AllowCredentials indicates whether the request can include credentials.
	AllowCredentials bool

	// MaxAge indicates how long (in seconds) the results of a preflight request can be cached.
	// Default: 0 (not set)
	MaxAge int
}

// CORS returns an HTTP middleware that answers preflight requests and sets
// CORS headers. Wrap the router with it, not individual routes, so that
// preflight requests reach it.
func CORS(cfg *CORSConfig) func(http.Handler) http.Handler {
	if cfg == nil {
		cfg = &CORSConfig{}
	}

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	wildcard := slices.Contains(origins, "*")

	methods := cfg.AllowMethods
	if len(methods) == 0 {
		methods = routeMethods(cfg.Routes)
	}

	headers := cfg.AllowHeaders
	if len(headers) == 0 {
		headers = []string{"Content-Type", "Authorization"}
	}

	allowMethods := strings.Join(methods, ", ")
	allowHeaders := strings.Join(headers, ", ")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := wildcard || (origin != "" && slices.Contains(origins, origin))

			if allowed {
				// A wildcard may not be combined with credentials, so the
				// requesting origin is echoed instead.
				switch {
				case origin != "" && (!wildcard || cfg.AllowCredentials):
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
				default:
					w.Header().Set("Access-Control-Allow-Origin", "*")
				}
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				if exposeHeaders != "" {
					w.Header().Set("Access-Control-Expose-Headers", exposeHeaders)
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", allowMethods)
				w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
				if cfg.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func routeMethods(routes *minimalapi.Registry) []string {
	if routes.Len() == 0 {
		return []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	var methods []string
	for _, d := range routes.All() {
		if !slices.Contains(methods, d.Method) {
			methods = append(methods, d.Method)
		}
	}
	if !slices.Contains(methods, http.MethodOptions) {
		methods = append(methods, http.MethodOptions)
	}
	return methods
}
