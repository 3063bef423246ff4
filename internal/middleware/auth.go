// Package middleware provides authentication, logging, rate limiting, and
// metrics middleware for the application.
package middleware

import (
	"vibella/internal/config"
)

var cfg *config.Config

// InitMiddleware initializes the middleware package with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// BlacklistKey returns the Redis key under which a revoked token ID is stored.
func BlacklistKey(jti string) string {
	return "token:blacklist:" + jti
}

// PasswordResetKey returns the Redis key under which a one-time password
// reset token is stored.
func PasswordResetKey(token string) string {
	return "token:pwreset:" + token
}
