package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hostelcare/hostelcare/internal/api"
	"github.com/hostelcare/hostelcare/internal/database"
)

// UserClaims represents the JWT claims carried for an authenticated account.
type UserClaims struct {
	UserID string `json:"uid"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthConfig holds JWT authentication configuration
type JWTAuthConfig struct {
	// JWTSecret is the secret key for signing JWT tokens
	JWTSecret string

	// JWTExpiryHours is the token expiry in hours
	JWTExpiryHours int

	// SkipPaths are paths that don't require authentication.
	// A trailing * matches by prefix.
	SkipPaths []string
}

// JWTAuthMiddleware provides JWT-based authentication
type JWTAuthMiddleware struct {
	config  *JWTAuthConfig
	skipMap map[string]bool
}

// ContextKey is a type for context keys
type ContextKey string

const (
	// UserContextKey is the context key for the authenticated user's claims
	UserContextKey ContextKey = "user"
)

// NewJWTAuthMiddleware creates a new JWT authentication middleware
func NewJWTAuthMiddleware(config *JWTAuthConfig) *JWTAuthMiddleware {
	m := &JWTAuthMiddleware{
		config:  config,
		skipMap: make(map[string]bool),
	}

	// Build skip paths map for O(1) lookup
	for _, path := range config.SkipPaths {
		m.skipMap[path] = true
	}

	return m
}

// GenerateToken generates a JWT token for an account
func (m *JWTAuthMiddleware) GenerateToken(user *database.User) (string, error) {
	claims := UserClaims{
		UserID: user.UUID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(m.config.JWTExpiryHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "hostelcare",
			Subject:   user.UUID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.JWTSecret))
}

// ValidateToken validates a JWT token and returns the claims
func (m *JWTAuthMiddleware) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.config.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// Wrap wraps an http.Handler with JWT authentication
func (m *JWTAuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.shouldSkipAuth(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		tokenString := m.extractToken(r)
		if tokenString == "" {
			m.unauthorized(w, "Missing authentication token")
			return
		}

		claims, err := m.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWTAuthMiddleware: Invalid token from %s: %v", r.RemoteAddr, err)
			m.unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WrapFunc wraps an http.HandlerFunc with JWT authentication
func (m *JWTAuthMiddleware) WrapFunc(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.Wrap(http.HandlerFunc(next)).ServeHTTP(w, r)
	}
}

// shouldSkipAuth checks if the path should skip authentication
func (m *JWTAuthMiddleware) shouldSkipAuth(path string) bool {
	if m.skipMap[path] {
		return true
	}

	for skipPath := range m.skipMap {
		if strings.HasSuffix(skipPath, "*") {
			prefix := strings.TrimSuffix(skipPath, "*")
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}

	return false
}

// extractToken extracts the JWT token from the request
func (m *JWTAuthMiddleware) extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// WebSocket clients can't set headers from the browser, so the events
	// endpoint accepts the token as a query parameter.
	return r.URL.Query().Get("token")
}

// unauthorized sends an unauthorized response
func (m *JWTAuthMiddleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer realm=\"API\"")
	api.RespondError(w, http.StatusUnauthorized, message)
}

// GetUserFromContext returns the authenticated user's claims, or nil.
func GetUserFromContext(ctx context.Context) *UserClaims {
	if claims, ok := ctx.Value(UserContextKey).(*UserClaims); ok {
		return claims
	}
	return nil
}

// RequireRole wraps a handler so that only the given roles may call it.
// The wrapped handler must already sit behind Wrap.
func RequireRole(next http.HandlerFunc, roles ...database.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := GetUserFromContext(r.Context())
		if claims == nil {
			api.RespondError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		for _, role := range roles {
			if claims.Role == string(role) {
				next(w, r)
				return
			}
		}
		api.RespondError(w, http.StatusForbidden, "Insufficient permissions")
	}
}
