package middleware

import (
	"github.com/go-chi/cors"
)

// NewCORS creates the CORS middleware for the ledger API. The surface is
// read endpoints plus the withdraw and internal-trigger POSTs, so only GET
// and POST are allowed; X-API-Key is the header the internal triggers carry.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"X-API-Key",
		},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
