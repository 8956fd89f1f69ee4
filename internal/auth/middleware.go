package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"chefdraft/internal/httpapi"
	"chefdraft/internal/models"
)

type contextKey int

const profileKey contextKey = iota

// Claims are the token attributes the external identity provider signs.
type Claims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// ProfileLoader resolves a verified identity to a stored profile,
// creating one on first sign-in.
type ProfileLoader func(ctx context.Context, id, name, email, photoURL string) (*models.UserProfile, error)

// Middleware verifies bearer tokens and attaches the caller's profile
// to the request context.
type Middleware struct {
	secret []byte
	load   ProfileLoader
}

// NewMiddleware creates auth middleware verifying HMAC-signed tokens.
func NewMiddleware(secret []byte, load ProfileLoader) *Middleware {
	return &Middleware{secret: secret, load: load}
}

// Authenticate rejects requests without a valid token and loads the
// caller's profile for downstream handlers.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.verify(r)
		if err != nil {
			httpapi.Error(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}

		profile, err := m.load(r.Context(), claims.Subject, claims.Name, claims.Email, claims.Picture)
		if err != nil {
			log.Error().Err(err).Str("user_id", claims.Subject).Msg("failed to load profile")
			httpapi.Error(w, http.StatusInternalServerError, "failed to load profile")
			return
		}

		ctx := context.WithValue(r.Context(), profileKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin allows only profiles flagged as administrators. Must be
// mounted inside Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile := ProfileFromContext(r.Context())
		if profile == nil || !profile.Admin {
			httpapi.Error(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ProfileFromContext returns the authenticated caller's profile, or nil
// outside Authenticate.
func ProfileFromContext(ctx context.Context) *models.UserProfile {
	profile, _ := ctx.Value(profileKey).(*models.UserProfile)
	return profile
}

func (m *Middleware) verify(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, fmt.Errorf("no bearer token")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
