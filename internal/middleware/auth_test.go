package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	users "github.com/AdamBeresnev/gymit/internal/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	auth := NewAuthenticator("test-secret")

	var seen users.Actor
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		require.True(t, ok)
		seen = actor
		w.WriteHeader(http.StatusNoContent)
	}))

	valid, err := auth.Issue(users.Actor{UserID: "u-1", Name: "Sam", Role: users.RoleTrainer}, time.Hour)
	require.NoError(t, err)

	expired, err := auth.Issue(users.Trainer("u-1"), -time.Minute)
	require.NoError(t, err)

	foreign, err := NewAuthenticator("other-secret").Issue(users.Admin("u-2"), time.Hour)
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "owner",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-3"},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: users.RoleAdmin}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"unknown role", "Bearer " + badRole, http.StatusUnauthorized},
		{"no subject", "Bearer " + noSubject, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tournaments", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	assert.Equal(t, users.Actor{UserID: "u-1", Name: "Sam", Role: users.RoleTrainer}, seen)
}

func TestGetActor_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetActor(req.Context())
	assert.False(t, ok)
}
