package validate

import (
	"cinema_booking/model"

	"github.com/gofiber/fiber/v2"
)

func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.RegisterInput
		if !body(c, &input) {
			return nil
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.LoginInput
		if !body(c, &input) {
			return nil
		}
		c.Locals("input", input)
		return c.Next()
	}
}
