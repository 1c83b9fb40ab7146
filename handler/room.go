package handler

import (
	"time"

	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// generateSeats lays out rows A.. with the given number of columns.
// Rows A-C are standard, the back row is vip, everything between is
// premium. Single-row rooms stay standard.
func generateSeats(roomId uint, rows, columns int) []model.Seat {
	seats := make([]model.Seat, 0, rows*columns)
	for r := 0; r < rows; r++ {
		rowLabel := string(rune('A' + r))
		seatType := constants.SeatTypeStandard
		switch {
		case rows > 1 && r == rows-1:
			seatType = constants.SeatTypeVip
		case r >= 3:
			seatType = constants.SeatTypePremium
		}
		for n := 1; n <= columns; n++ {
			seats = append(seats, model.Seat{
				RoomId: roomId,
				Row:    rowLabel,
				Number: n,
				Type:   seatType,
				Status: constants.SeatAvailable,
			})
		}
	}
	return seats
}

func CreateRoom(c *fiber.Ctx) error {
	input, _ := c.Locals("input").(model.CreateRoomInput)

	roomType := input.Type
	if roomType == "" {
		roomType = model.RoomStandard
	}
	room := model.Room{
		Name:     input.Name,
		Capacity: input.Rows * input.Columns,
		Type:     roomType,
		Status:   constants.RoomActive,
		Location: input.Location,
	}
	if room.Capacity > 500 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest,
			"room capacity cannot exceed 500 seats", nil)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		return tx.Create(generateSeats(room.ID, input.Rows, input.Columns)).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.CodeInvalidRequest,
			"could not create room, name may already exist", err)
	}

	database.DB.Preload("Seats").First(&room, room.ID)
	return utils.SuccessResponse(c, fiber.StatusCreated, room)
}

func GetRooms(c *fiber.Ctx) error {
	pagination := new(model.Pagination)
	if err := c.QueryParser(pagination); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest, constants.ERROR_INPUT, err)
	}

	condition := database.DB.Model(&model.Room{})

	var totalCount int64
	condition.Count(&totalCount)

	var rooms []model.Room
	condition = utils.ApplyPagination(condition, pagination.Limit, pagination.Page)
	if err := condition.Order("name asc").Find(&rooms).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       rooms,
		Limit:      pagination.Limit,
		Page:       pagination.Page,
		TotalCount: totalCount,
	})
}

func GetRoomById(c *fiber.Ctx) error {
	roomId, _ := c.Locals("roomId").(uint)

	var room model.Room
	if err := database.DB.Preload("Seats", func(db *gorm.DB) *gorm.DB {
		return db.Order("row asc, number asc")
	}).First(&room, roomId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "room not found", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, room)
}

// EditRoom updates room metadata. A layout change regenerates the seat
// grid, which is only safe while no future showtime references the room.
func EditRoom(c *fiber.Ctx) error {
	roomId, _ := c.Locals("roomId").(uint)
	input, _ := c.Locals("input").(model.EditRoomInput)

	var room model.Room
	if err := database.DB.First(&room, roomId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "room not found", err)
	}

	relayout := input.Rows != nil || input.Columns != nil
	var rows, columns int
	if relayout {
		var futureCount int64
		database.DB.Model(&model.Showtime{}).
			Where("room_id = ? AND date >= ?", roomId, time.Now().Format("2006-01-02")).
			Count(&futureCount)
		if futureCount > 0 {
			return utils.ErrorResponse(c, fiber.StatusConflict, constants.CodeHasActiveBookings,
				"cannot change the seat layout while future showtimes exist for this room", nil)
		}
		rows, columns = layoutDims(database.DB, room.ID, input)
		if rows*columns > 500 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest,
				"room capacity cannot exceed 500 seats", nil)
		}
	}

	if err := copier.CopyWithOption(&room, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if relayout {
			if err := tx.Where("room_id = ?", room.ID).Delete(&model.Seat{}).Error; err != nil {
				return err
			}
			if err := tx.Create(generateSeats(room.ID, rows, columns)).Error; err != nil {
				return err
			}
			room.Capacity = rows * columns
		}
		return tx.Save(&room).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, room)
}

// layoutDims fills whichever of rows/columns the edit left out from the
// current seat grid.
func layoutDims(tx *gorm.DB, roomId uint, input model.EditRoomInput) (rows, columns int) {
	if input.Rows != nil {
		rows = *input.Rows
	}
	if input.Columns != nil {
		columns = *input.Columns
	}
	if rows > 0 && columns > 0 {
		return rows, columns
	}

	var currentRows, currentColumns int64
	tx.Model(&model.Seat{}).Where("room_id = ?", roomId).Distinct("row").Count(&currentRows)
	tx.Model(&model.Seat{}).Where("room_id = ?", roomId).Distinct("number").Count(&currentColumns)
	if rows == 0 {
		rows = int(currentRows)
	}
	if columns == 0 {
		columns = int(currentColumns)
	}
	return rows, columns
}

func SetRoomStatus(c *fiber.Ctx) error {
	roomId, _ := c.Locals("roomId").(uint)
	input, _ := c.Locals("input").(model.RoomStatusInput)

	var room model.Room
	if err := database.DB.First(&room, roomId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "room not found", err)
	}

	if err := database.DB.Model(&room).Update("status", input.Status).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, room)
}
