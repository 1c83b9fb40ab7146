package validate

import (
	"cinema_booking/model"

	"github.com/gofiber/fiber/v2"
)

func CreateMovie() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateMovieInput
		if !body(c, &input) {
			return nil
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func EditMovie() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.EditMovieInput
		if !body(c, &input) {
			return nil
		}
		c.Locals("input", input)
		return c.Next()
	}
}
