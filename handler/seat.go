package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func GetRoomSeats(c *fiber.Ctx) error {
	roomId, _ := c.Locals("roomId").(uint)

	var room model.Room
	if err := database.DB.First(&room, roomId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "room not found", err)
	}

	var seats []model.Seat
	if err := database.DB.Where("room_id = ?", roomId).
		Order("row asc, number asc").Find(&seats).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, seats)
}

// GetShowtimeSeatMap serves the per-showtime occupancy view the seat
// picker renders. Reads go through a short-lived cache; writes from the
// booking path invalidate it.
func GetShowtimeSeatMap(c *fiber.Ctx) error {
	showtimeId, _ := c.Locals("showtimeId").(uint)

	entries, err := helper.CachedSeatMap(showtimeId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "showtime not found", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"showtimeId": showtimeId,
		"seats":      entries,
	})
}

// SetSeatStatus flips a single seat, typically for maintenance. It does
// not touch showtime counters; the reconciliation audit handles drift.
func SetSeatStatus(c *fiber.Ctx) error {
	seatId, _ := c.Locals("seatId").(uint)
	input, _ := c.Locals("input").(model.SeatStatusInput)

	var seat model.Seat
	if err := database.DB.First(&seat, seatId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "seat not found", err)
	}

	if err := database.DB.Model(&seat).Update("status", input.Status).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, seat)
}
