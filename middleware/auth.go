package middleware

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/volamoks/new-spots-sub000/models/actor"
	"github.com/volamoks/new-spots-sub000/types"
)

// VerifyJWT validates a session token issued by the auth provider and
// returns its claims.
func VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid JWT token")
	}
	return claims, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// actorFromClaims builds the trusted actor identity out of the session
// claims supplied by the auth provider.
func actorFromClaims(claims jwt.MapClaims) (actor.Actor, error) {
	id := claimString(claims, "id")
	if id == "" {
		return actor.Actor{}, fmt.Errorf("id claim is missing")
	}

	role, err := actor.ParseRole(claimString(claims, "role"))
	if err != nil {
		return actor.Actor{}, err
	}

	return actor.Actor{
		ID:       id,
		Role:     role,
		Category: claimString(claims, "category"),
		INN:      claimString(claims, "inn"),
	}, nil
}

// IsAuthenticated checks for a valid session token and stores the actor in
// the request context. Missing or invalid tokens are 401; a token carrying
// a role outside the closed enum is 403.
func IsAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var token string

		if authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
					Status:  fiber.StatusUnauthorized,
					Message: "Invalid authorization header format",
				})
			}
			token = tokenParts[1]
		} else {
			// Fall back to the session cookie.
			token = c.Cookies("access")
			if token == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
					Status:  fiber.StatusUnauthorized,
					Message: "Authorization token missing",
				})
			}
		}

		claims, err := VerifyJWT(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Invalid or expired session",
			})
		}

		act, err := actorFromClaims(claims)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "Unrecognized role",
			})
		}

		c.Locals("actor", act)
		return c.Next()
	}
}

// RequireRoles allows the request through only for the listed roles.
func RequireRoles(roles ...actor.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		act, ok := ActorFromCtx(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Authorization token missing",
			})
		}
		for _, role := range roles {
			if act.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Insufficient permissions",
		})
	}
}

// ActorFromCtx returns the authenticated actor stored by IsAuthenticated.
func ActorFromCtx(c *fiber.Ctx) (actor.Actor, bool) {
	act, ok := c.Locals("actor").(actor.Actor)
	return act, ok
}
