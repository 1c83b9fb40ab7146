package middleware

import (
	"errors"
	"strings"

	"cinema_booking/config"
	"cinema_booking/constants"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Protected rejects requests without a valid access token and stores the
// claims in locals for the handlers.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("access_token")

		if token == "" {
			auth := c.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.CodeUnauthorized, constants.MISSING_TOKEN, errors.New("no token"))
		}

		jwtToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(config.Config("JWT_SECRET")), nil
		})
		if err != nil || !jwtToken.Valid {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.CodeUnauthorized, constants.MISSING_TOKEN, err)
		}

		claims := jwtToken.Claims.(jwt.MapClaims)
		userId, _ := claims["userId"].(float64)
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)
		c.Locals("claims", model.TokenClaim{
			UserId: uint(userId),
			Email:  email,
			Role:   role,
		})
		return c.Next()
	}
}

// AdminOnly must run after Protected.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(model.TokenClaim)
		if !ok || claims.Role != constants.RoleAdmin {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.CodeForbidden, constants.NOT_ADMIN, errors.New("not permission"))
		}
		return c.Next()
	}
}
