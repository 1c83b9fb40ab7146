package validate

import (
	"cinema_booking/model"

	"github.com/gofiber/fiber/v2"
)

func CreateRoom() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateRoomInput
		if !body(c, &input) {
			return nil
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func EditRoom() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.EditRoomInput
		if !body(c, &input) {
			return nil
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func RoomStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.RoomStatusInput
		if !body(c, &input) {
			return nil
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func SeatStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.SeatStatusInput
		if !body(c, &input) {
			return nil
		}
		c.Locals("input", input)
		return c.Next()
	}
}
