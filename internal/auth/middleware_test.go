package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chefdraft/internal/auth"
	"chefdraft/internal/models"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func testClaims(subject string) auth.Claims {
	return auth.Claims{
		Name:  "Pat",
		Email: "pat@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func newMiddleware(profile *models.UserProfile) *auth.Middleware {
	return auth.NewMiddleware(testSecret, func(ctx context.Context, id, name, email, photoURL string) (*models.UserProfile, error) {
		if profile != nil {
			return profile, nil
		}
		return &models.UserProfile{ID: id, DisplayName: name, Email: email}, nil
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid token reaches the handler with a profile", func(t *testing.T) {
		m := newMiddleware(nil)

		var got *models.UserProfile
		handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = auth.ProfileFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, testClaims("user1")))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, "user1", got.ID)
		assert.Equal(t, "Pat", got.DisplayName)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		m := newMiddleware(nil)
		handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with the wrong secret is rejected", func(t *testing.T) {
		m := newMiddleware(nil)
		handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, []byte("other"), testClaims("user1")))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		m := newMiddleware(nil)
		handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		claims := testClaims("user1")
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token without a subject is rejected", func(t *testing.T) {
		m := newMiddleware(nil)
		handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, testClaims("")))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	run := func(t *testing.T, profile *models.UserProfile) int {
		t.Helper()
		m := newMiddleware(profile)
		handler := m.Authenticate(auth.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})))

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, testClaims("user1")))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("admins pass", func(t *testing.T) {
		code := run(t, &models.UserProfile{ID: "user1", Admin: true})
		assert.Equal(t, http.StatusNoContent, code)
	})

	t.Run("regular users are forbidden", func(t *testing.T) {
		code := run(t, &models.UserProfile{ID: "user1"})
		assert.Equal(t, http.StatusForbidden, code)
	})
}
