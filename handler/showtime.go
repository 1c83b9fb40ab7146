package handler

import (
	"errors"

	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// CreateShowtime freezes the ticket price at creation time from the
// movie's base price and the room-type multiplier, unless an explicit
// price override is given. Later movie price edits never propagate.
func CreateShowtime(c *fiber.Ctx) error {
	input, _ := c.Locals("input").(model.CreateShowtimeInput)
	db := database.DB

	var movie model.Movie
	if err := db.First(&movie, input.MovieId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "movie not found", err)
	}
	if movie.Status != constants.MovieActive {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest,
			"movie is not active", nil)
	}

	var room model.Room
	if err := db.First(&room, input.RoomId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "room not found", err)
	}
	if room.Status != constants.RoomActive {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest,
			"room is not active", nil)
	}

	price := helper.ShowtimePrice(movie.Price, room.Type)
	if input.Price != nil {
		price = helper.RoundHalfUp(*input.Price)
	}

	showtime := model.Showtime{
		MovieId:        movie.ID,
		RoomId:         room.ID,
		Date:           input.Date,
		Time:           input.Time,
		Price:          price,
		AvailableSeats: room.Capacity,
		TotalSeats:     room.Capacity,
	}
	if err := db.Create(&showtime).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrorResponse(c, fiber.StatusConflict, constants.CodeSlotConflict,
				"another showtime already occupies this room at this date and time", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	db.Preload("Movie").Preload("Room").First(&showtime, showtime.ID)
	return utils.SuccessResponse(c, fiber.StatusCreated, showtime)
}

func GetShowtimes(c *fiber.Ctx) error {
	filterInput := new(model.FilterShowtimeInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest, constants.ERROR_INPUT, err)
	}

	condition := database.DB.Model(&model.Showtime{})
	if filterInput.MovieId > 0 {
		condition = condition.Where("movie_id = ?", filterInput.MovieId)
	}
	if filterInput.RoomId > 0 {
		condition = condition.Where("room_id = ?", filterInput.RoomId)
	}
	if filterInput.StartDate != "" {
		condition = condition.Where("date >= ?", filterInput.StartDate)
	}
	if filterInput.EndDate != "" {
		condition = condition.Where("date <= ?", filterInput.EndDate)
	}

	var totalCount int64
	condition.Count(&totalCount)

	var showtimes []model.Showtime
	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)
	if err := condition.Preload("Movie").Preload("Room").
		Order("date asc, time asc").Find(&showtimes).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       showtimes,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	})
}

func GetShowtimeById(c *fiber.Ctx) error {
	showtimeId, _ := c.Locals("showtimeId").(uint)

	var showtime model.Showtime
	if err := database.DB.Preload("Movie").Preload("Room").
		First(&showtime, showtimeId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "showtime not found", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, showtime)
}

// EditShowtime refuses any change once confirmed or pending bookings
// exist; their tickets reference the slot and the frozen price.
func EditShowtime(c *fiber.Ctx) error {
	showtimeId, _ := c.Locals("showtimeId").(uint)
	input, _ := c.Locals("input").(model.EditShowtimeInput)
	db := database.DB

	var showtime model.Showtime
	if err := db.First(&showtime, showtimeId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "showtime not found", err)
	}

	activeCount, err := activeBookingCount(db, showtimeId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}
	if activeCount > 0 {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.CodeHasActiveBookings,
			"showtime has active bookings and cannot be modified", nil)
	}

	if err := copier.CopyWithOption(&showtime, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}
	if input.Price != nil {
		showtime.Price = helper.RoundHalfUp(*input.Price)
	}

	if input.RoomId != nil && *input.RoomId != showtime.RoomId {
		var room model.Room
		if err := db.First(&room, *input.RoomId).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "room not found", err)
		}
		if room.Status != constants.RoomActive {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest,
				"room is not active", nil)
		}
		showtime.RoomId = room.ID
		showtime.TotalSeats = room.Capacity
		showtime.AvailableSeats = room.Capacity
	}

	if err := db.Save(&showtime).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrorResponse(c, fiber.StatusConflict, constants.CodeSlotConflict,
				"another showtime already occupies this room at this date and time", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	db.Preload("Movie").Preload("Room").First(&showtime, showtime.ID)
	return utils.SuccessResponse(c, fiber.StatusOK, showtime)
}

func DeleteShowtime(c *fiber.Ctx) error {
	showtimeId, _ := c.Locals("showtimeId").(uint)
	db := database.DB

	var showtime model.Showtime
	if err := db.First(&showtime, showtimeId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "showtime not found", err)
	}

	activeCount, err := activeBookingCount(db, showtimeId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}
	if activeCount > 0 {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.CodeHasActiveBookings,
			"showtime has active bookings and cannot be deleted", nil)
	}

	if err := db.Delete(&showtime).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	helper.InvalidateSeatMap(showtimeId)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func activeBookingCount(db *gorm.DB, showtimeId uint) (int64, error) {
	var count int64
	err := db.Model(&model.Booking{}).
		Where("showtime_id = ? AND status IN ?", showtimeId,
			[]string{constants.BookingConfirmed, constants.BookingPending}).
		Count(&count).Error
	return count, err
}
