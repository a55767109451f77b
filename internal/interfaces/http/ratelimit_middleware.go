package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nuplus/warehouses-api/internal/infrastructure/cache"
)

// RateLimitMiddleware limita peticiones por IP usando un contador en cache
// con expiración. Si el cache no responde se deja pasar la petición: el rate
// limiter no debe tumbar la API.
func RateLimitMiddleware(client cache.Client, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "rate-limit:" + c.IP()
		ctx := c.Context()

		count, err := client.GetInt(ctx, key)
		if err == cache.ErrCacheMiss {
			_ = client.Set(ctx, key, 1, window)
			c.Set("X-RateLimit-Remaining", strconv.Itoa(limit-1))
			return c.Next()
		}
		if err != nil {
			return c.Next()
		}

		if count >= limit {
			return c.Status(fiber.StatusTooManyRequests).SendString("Rate limit exceeded")
		}

		_ = client.Incr(ctx, key)
		c.Set("X-RateLimit-Remaining", strconv.Itoa(limit-count-1))
		return c.Next()
	}
}
