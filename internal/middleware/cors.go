package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors allows any origin while keeping credentials; a wildcard origin
// cannot be combined with credentialed requests, so origins are echoed
// back via AllowOriginFunc instead.
func Cors() Middleware {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}
