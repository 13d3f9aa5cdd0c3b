package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig controls cross-origin access. Credentials are always allowed
// because authentication rides on the session cookie, which also means
// origins must be listed explicitly rather than wildcarded.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         string
}

func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		MaxAge:         "3600",
	}
}

// CORS returns a middleware handling preflight and response headers.
func CORS(config ...CORSConfig) fiber.Handler {
	cfg := DefaultCORSConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = struct{}{}
	}
	methods := strings.Join(cfg.AllowedMethods, ",")
	headers := strings.Join(cfg.AllowedHeaders, ",")

	return func(c *fiber.Ctx) error {
		if origin := c.Get("Origin"); origin != "" {
			if _, ok := origins[origin]; ok {
				c.Set("Access-Control-Allow-Origin", origin)
				c.Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if c.Method() == fiber.MethodOptions {
			c.Set("Access-Control-Allow-Methods", methods)
			c.Set("Access-Control-Allow-Headers", headers)
			c.Set("Access-Control-Max-Age", cfg.MaxAge)
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}
