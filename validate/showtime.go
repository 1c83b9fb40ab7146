package validate

import (
	"errors"
	"time"

	"cinema_booking/constants"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateShowtime() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateShowtimeInput
		if !body(c, &input) {
			return nil
		}
		if _, err := time.Parse(constants.ShowtimeTimeLayout, input.Time); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest,
				"time must be in HH:MM format", err)
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func EditShowtime() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.EditShowtimeInput
		if !body(c, &input) {
			return nil
		}
		if input.Time != nil {
			if _, err := time.Parse(constants.ShowtimeTimeLayout, *input.Time); err != nil {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest,
					"time must be in HH:MM format", errors.New("invalid time"))
			}
		}
		c.Locals("input", input)
		return c.Next()
	}
}
