package validate

import (
	"errors"

	"cinema_booking/constants"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateBooking validates the booking request shape: a non-empty seat
// list without duplicates. Availability and conflicts are checked later,
// inside the booking transaction.
func CreateBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateBookingInput
		if !body(c, &input) {
			return nil
		}

		seen := make(map[uint]bool, len(input.SeatIds))
		for _, id := range input.SeatIds {
			if seen[id] {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest,
					"duplicate seat ids in request", errors.New("seat ids must be unique"))
			}
			seen[id] = true
		}

		c.Locals("input", input)
		return c.Next()
	}
}
