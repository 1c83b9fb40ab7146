package handler

import (
	"testing"

	"cinema_booking/database"
	"cinema_booking/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB wires a sqlmock connection behind gorm and installs it as
// the global handle the handlers read.
func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}

	database.DB = gormDB
	return mock
}

// asUser stands in for the auth middleware in tests.
func asUser(claims model.TokenClaim) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("claims", claims)
		return c.Next()
	}
}

func customerClaims() model.TokenClaim {
	return model.TokenClaim{UserId: 1, Email: "customer@example.com", Role: "customer"}
}

func adminClaims() model.TokenClaim {
	return model.TokenClaim{UserId: 99, Email: "admin@example.com", Role: "admin"}
}
