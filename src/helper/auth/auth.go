package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims identifies the acting user. UserKey is the users collection key.
type Claims struct {
	UserKey string `json:"uid"`
	jwt.RegisteredClaims
}

type contextKey struct{}

func WithUserKey(ctx context.Context, userKey string) context.Context {
	return context.WithValue(ctx, contextKey{}, userKey)
}

// UserKey returns the acting user key, empty for anonymous requests.
func UserKey(ctx context.Context) string {
	userKey, _ := ctx.Value(contextKey{}).(string)
	return userKey
}

// ParseBearer validates an Authorization header value signed with HS256.
func ParseBearer(header string, secret []byte) (*Claims, error) {
	tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserKey == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// SignToken issues a token for userKey; used by tooling and tests.
func SignToken(userKey string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserKey: userKey,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
