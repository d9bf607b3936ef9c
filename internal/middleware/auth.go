package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"pitchvault/internal/domain"
)

const ActorContextKey = "actor"

// Claims carry the authenticated actor. Token issuance belongs to the
// platform's identity service; this subsystem only validates.
type Claims struct {
	UserID   uuid.UUID             `json:"user_id"`
	FullName string                `json:"full_name"`
	Company  string                `json:"company"`
	Class    domain.RequesterClass `json:"class"`
	jwt.RegisteredClaims
}

func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Missing authorization header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid authorization header format",
			})
		}

		claims, err := parseToken(parts[1], secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid or expired token",
			})
		}

		c.Locals(ActorContextKey, &domain.Actor{
			ID:       claims.UserID,
			FullName: claims.FullName,
			Company:  claims.Company,
			Class:    claims.Class,
		})

		return c.Next()
	}
}

func parseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func GetActor(c *fiber.Ctx) (*domain.Actor, error) {
	actor, ok := c.Locals(ActorContextKey).(*domain.Actor)
	if !ok || actor == nil {
		return nil, Unauthorized("User not authenticated")
	}
	return actor, nil
}

func GetActorID(c *fiber.Ctx) (uuid.UUID, error) {
	actor, err := GetActor(c)
	if err != nil {
		return uuid.Nil, err
	}
	return actor.ID, nil
}
