package utils

import (
	"cinema_booking/config"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorResponse writes the standard error envelope. Internal error detail
// is included outside production only.
func ErrorResponse(c *fiber.Ctx, status int, code string, message string, err error) error {
	body := fiber.Map{
		"status":  "error",
		"code":    code,
		"message": message,
	}
	if err != nil && !config.IsProduction() {
		body["error"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

// SeatConflictResponse is ErrorResponse plus the seat ids the caller
// collided on, so the client can retry with different seats.
func SeatConflictResponse(c *fiber.Ctx, status int, code string, message string, seatIds []uint) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"code":    code,
		"message": message,
		"seatIds": seatIds,
	})
}

func SuccessResponse(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func ApplyPagination(query *gorm.DB, limit, page *int) *gorm.DB {
	if limit != nil && *limit > 0 && page != nil && *page >= 1 {
		query = query.Limit(*limit)
		offset := *limit * (*page - 1)
		query = query.Offset(offset)
	}
	return query
}

func Ptr[T any](v T) *T {
	return &v
}
