package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuplus/warehouses-api/internal/infrastructure/cache"
	apphttp "github.com/nuplus/warehouses-api/internal/interfaces/http"
)

// fakeCache contador en memoria con modo de fallo para simular Redis caído.
type fakeCache struct {
	counts map[string]int
	broken bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{counts: make(map[string]int)}
}

func (f *fakeCache) GetInt(_ context.Context, key string) (int, error) {
	if f.broken {
		return 0, errors.New("cache caído")
	}
	n, ok := f.counts[key]
	if !ok {
		return 0, cache.ErrCacheMiss
	}
	return n, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if f.broken {
		return errors.New("cache caído")
	}
	if n, ok := value.(int); ok {
		f.counts[key] = n
	}
	return nil
}

func (f *fakeCache) Incr(_ context.Context, key string) error {
	if f.broken {
		return errors.New("cache caído")
	}
	f.counts[key]++
	return nil
}

var _ cache.Client = (*fakeCache)(nil)

func buildRateLimitedApp(client cache.Client, limit int) *fiber.App {
	app := fiber.New()
	app.Get("/ping", apphttp.RateLimitMiddleware(client, limit, time.Minute), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func getPing(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	return resp
}

func TestRateLimit_DentroDelLimite_Pasa(t *testing.T) {
	app := buildRateLimitedApp(newFakeCache(), 3)

	for i := 0; i < 3; i++ {
		resp := getPing(t, app)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, "petición %d dentro del límite", i+1)
	}
}

func TestRateLimit_ExcedeLimite_Retorna429(t *testing.T) {
	app := buildRateLimitedApp(newFakeCache(), 2)

	for i := 0; i < 2; i++ {
		resp := getPing(t, app)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := getPing(t, app)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimit_ExponeRemainingHeader(t *testing.T) {
	app := buildRateLimitedApp(newFakeCache(), 5)

	resp := getPing(t, app)
	defer resp.Body.Close()

	assert.Equal(t, "4", resp.Header.Get("X-RateLimit-Remaining"))
}

// Si el cache falla, la petición pasa: el limitador nunca tumba la API.
func TestRateLimit_CacheCaido_DejaPasar(t *testing.T) {
	c := newFakeCache()
	c.broken = true
	app := buildRateLimitedApp(c, 1)

	for i := 0; i < 3; i++ {
		resp := getPing(t, app)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
