package helper

import (
	"time"

	"cinema_booking/config"
	"cinema_booking/constants"
	"cinema_booking/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func GenerateAccessToken(user model.User) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userId"] = user.ID
	claims["email"] = user.Email
	claims["role"] = user.Role
	claims["exp"] = time.Now().Add(time.Hour).Unix()

	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

func GenerateRefreshToken(user model.User) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userId"] = user.ID
	claims["email"] = user.Email
	claims["role"] = user.Role
	claims["exp"] = time.Now().Add(time.Hour * 24 * 7).Unix()

	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

// CurrentClaims reads the claims stored by middleware.Protected.
func CurrentClaims(c *fiber.Ctx) (model.TokenClaim, bool) {
	claims, ok := c.Locals("claims").(model.TokenClaim)
	return claims, ok
}

func IsAdmin(claims model.TokenClaim) bool {
	return claims.Role == constants.RoleAdmin
}
