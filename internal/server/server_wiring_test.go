package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vibella/internal/config"
	"vibella/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewServerWithDeps wires the full server from pre-built dependencies
// and checks the app comes up with working routes.
func TestNewServerWithDeps(t *testing.T) {
	gormDB, _ := setupMockDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cfg := &config.Config{
		JWTSecret:    "wiring-test-secret",
		FeatureFlags: "assistant_llm=off",
	}

	srv, err := NewServerWithDeps(cfg, gormDB, rdb, testutil.NewObjectStoreStub())
	require.NoError(t, err)
	require.NotNil(t, srv.avatarService)
	require.NotNil(t, srv.assistant)

	app := fiber.New()
	srv.SetupRoutes(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Protected routes reject anonymous requests.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
