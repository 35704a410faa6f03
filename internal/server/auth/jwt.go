// Package auth verifies the access tokens that carry the authenticated user
// into the sync transports, and mints them for development use.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// PlanPro is the plan claim value granting full sync privileges.
const PlanPro = "pro"

// Claims holds the registered claims plus the user id and plan.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
	Plan   string `json:",omitempty"`
}

// CanSync reports whether the token grants full sync privileges.
func (c *Claims) CanSync() bool {
	return c.Plan == PlanPro
}

func GenerateToken(userID, plan string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Plan:   plan,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates an HS256 token and returns its claims.
// Expired tokens yield common.ErrTokenExpired; anything else that fails
// verification, or lacks a user id, yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

type claimsKey struct{}

// ContextWithClaims stores verified claims in ctx.
func ContextWithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims stored by ContextWithClaims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

// UserIDFromContext returns the authenticated user id, or
// common.ErrorUnauthorized when the request carries none.
func UserIDFromContext(ctx context.Context) (string, error) {
	c, ok := ClaimsFromContext(ctx)
	if !ok || c.UserID == "" {
		return "", common.ErrorUnauthorized
	}
	return c.UserID, nil
}

// RequireSync returns common.ErrSyncNotAllowed when enabled and the claims
// in ctx do not grant sync privileges.
func RequireSync(ctx context.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return common.ErrorUnauthorized
	}
	if !c.CanSync() {
		return common.ErrSyncNotAllowed
	}
	return nil
}
