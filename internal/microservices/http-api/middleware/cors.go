package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows cross-origin requests from the configured origins. "*" allows any origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       24 * time.Hour,
	}

	var origins []string
	for _, o := range allowedOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			origins = nil
			break
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	if !cfg.AllowAllOrigins {
		if len(origins) == 0 {
			// no cross-origin access configured
			return func(c *gin.Context) { c.Next() }
		}
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}
