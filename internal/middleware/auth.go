package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/AdamBeresnev/gymit/internal/httputil"
	users "github.com/AdamBeresnev/gymit/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are issued by the identity provider. Subject is the user id.
type Claims struct {
	Name string     `json:"name,omitempty"`
	Role users.Role `json:"role"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Verify parses an HS256 token and returns the actor it describes.
func (a *Authenticator) Verify(tokenString string) (users.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return users.Actor{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return users.Actor{}, ErrInvalidToken
	}

	return users.Actor{UserID: claims.Subject, Name: claims.Name, Role: claims.Role}, nil
}

// Issue signs a token for actor. The identity provider normally does this; it is kept for tooling
// and tests.
func (a *Authenticator) Issue(actor users.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: actor.Name,
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// RequireAuth rejects requests without a valid bearer token and stores the actor in the context.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			httputil.Unauthorized(w, r, "missing bearer token")
			return
		}

		actor, err := a.Verify(strings.TrimSpace(tokenString))
		if err != nil {
			httputil.Unauthorized(w, r, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), users.ActorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetActor(ctx context.Context) (users.Actor, bool) {
	actor, ok := ctx.Value(users.ActorKey).(users.Actor)
	return actor, ok
}
