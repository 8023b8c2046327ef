package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volamoks/new-spots-sub000/models/actor"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"id":   "u-1",
			"role": "SUPPLIER",
			"inn":  "123",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		claims, err := VerifyJWT(token)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims["id"])
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{"id": "u-1"})
		_, err := VerifyJWT(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"id":  "u-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		_, err := VerifyJWT(token)
		assert.Error(t, err)
	})
}

func TestActorFromClaims(t *testing.T) {
	t.Run("full supplier claims", func(t *testing.T) {
		act, err := actorFromClaims(jwt.MapClaims{
			"id":   "u-1",
			"role": "SUPPLIER",
			"inn":  "123",
		})
		require.NoError(t, err)
		assert.Equal(t, actor.Actor{ID: "u-1", Role: actor.RoleSupplier, INN: "123"}, act)
	})

	t.Run("category manager claims", func(t *testing.T) {
		act, err := actorFromClaims(jwt.MapClaims{
			"id":       "u-2",
			"role":     "CATEGORY_MANAGER",
			"category": "Dairy",
		})
		require.NoError(t, err)
		assert.Equal(t, actor.RoleCategoryManager, act.Role)
		assert.Equal(t, "Dairy", act.Category)
	})

	t.Run("unrecognized role is rejected", func(t *testing.T) {
		_, err := actorFromClaims(jwt.MapClaims{"id": "u-3", "role": "INTERN"})
		assert.Error(t, err)
	})

	t.Run("missing id is rejected", func(t *testing.T) {
		_, err := actorFromClaims(jwt.MapClaims{"role": "SUPPLIER"})
		assert.Error(t, err)
	})
}
