package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors allows the given origins, or any origin when none are given.
func Cors(origins ...string) Middleware {
	options := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}
	if len(origins) == 0 {
		options.AllowOriginFunc = func(origin string) bool {
			return true
		}
	}
	return cors.New(options).Handler
}
