package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vibella/internal/config"
	"vibella/internal/middleware"
	"vibella/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Stats(ctx context.Context, userID uint) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

func newResetTestApp(t *testing.T, repo *MockUserRepository) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := &Server{
		config:   &config.Config{JWTSecret: testJWTSecret},
		redis:    rdb,
		userRepo: repo,
	}

	app := fiber.New()
	app.Post("/api/auth/reset-password", s.RequestPasswordReset)
	app.Post("/api/auth/reset-password/confirm", s.ConfirmPasswordReset)
	return app, mr
}

func postResetJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func resetKeyFor(t *testing.T, mr *miniredis.Miniredis) (string, string) {
	t.Helper()
	for _, key := range mr.Keys() {
		if strings.HasPrefix(key, middleware.PasswordResetKey("")) {
			val, err := mr.Get(key)
			require.NoError(t, err)
			return key, val
		}
	}
	t.Fatal("no reset token stored")
	return "", ""
}

func TestRequestPasswordReset(t *testing.T) {
	t.Run("registered email stores a token", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", mock.Anything, "ana@vibella.dev").
			Return(&models.User{ID: 7, Email: "ana@vibella.dev"}, nil)
		app, mr := newResetTestApp(t, repo)

		resp := postResetJSON(t, app, "/api/auth/reset-password",
			fiber.Map{"email": "ana@vibella.dev"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		key, val := resetKeyFor(t, mr)
		assert.Equal(t, "7", val)
		assert.NotEmpty(t, strings.TrimPrefix(key, middleware.PasswordResetKey("")))
	})

	t.Run("unknown email gets the same reply and no token", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", mock.Anything, "nobody@vibella.dev").Return(nil, nil)
		app, mr := newResetTestApp(t, repo)

		resp := postResetJSON(t, app, "/api/auth/reset-password",
			fiber.Map{"email": "nobody@vibella.dev"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body["message"], "If that email is registered")
		assert.Empty(t, mr.Keys())
	})

	t.Run("malformed email rejected", func(t *testing.T) {
		app, _ := newResetTestApp(t, new(MockUserRepository))

		resp := postResetJSON(t, app, "/api/auth/reset-password",
			fiber.Map{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestConfirmPasswordReset(t *testing.T) {
	const newPassword = "BrandNewSecret1!"

	t.Run("valid token updates the password once", func(t *testing.T) {
		var updated *models.User
		repo := new(MockUserRepository)
		repo.On("GetByID", mock.Anything, uint(7)).
			Return(&models.User{ID: 7, Email: "ana@vibella.dev", Password: "old-hash"}, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) {
				updated = args.Get(1).(*models.User)
			}).
			Return(nil)
		app, mr := newResetTestApp(t, repo)

		key := middleware.PasswordResetKey("tok-abc")
		require.NoError(t, mr.Set(key, "7"))

		resp := postResetJSON(t, app, "/api/auth/reset-password/confirm",
			fiber.Map{"token": "tok-abc", "new_password": newPassword})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		require.NotNil(t, updated)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(updated.Password), []byte(newPassword)))

		// Token is single use.
		assert.False(t, mr.Exists(key))
		resp = postResetJSON(t, app, "/api/auth/reset-password/confirm",
			fiber.Map{"token": "tok-abc", "new_password": newPassword})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		app, _ := newResetTestApp(t, new(MockUserRepository))

		resp := postResetJSON(t, app, "/api/auth/reset-password/confirm",
			fiber.Map{"token": "never-issued", "new_password": newPassword})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("weak password rejected before the token is consumed", func(t *testing.T) {
		app, mr := newResetTestApp(t, new(MockUserRepository))

		key := middleware.PasswordResetKey("tok-weak")
		require.NoError(t, mr.Set(key, "7"))

		resp := postResetJSON(t, app, "/api/auth/reset-password/confirm",
			fiber.Map{"token": "tok-weak", "new_password": "short"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.True(t, mr.Exists(key))
	})

	t.Run("missing token rejected", func(t *testing.T) {
		app, _ := newResetTestApp(t, new(MockUserRepository))

		resp := postResetJSON(t, app, "/api/auth/reset-password/confirm",
			fiber.Map{"new_password": newPassword})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
