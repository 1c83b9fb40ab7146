package handler

import (
	"encoding/base64"
	"errors"
	"log"
	"time"

	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateBooking reserves seats for a showtime. The availability check,
// the conflict check, the counter update and the inserts all run under
// a FOR UPDATE lock on the showtime row, so two concurrent requests for
// the same seat can never both pass the check. Artifact generation
// (QR, receipt, email) happens after commit and never fails the booking.
func CreateBooking(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateBookingInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_PARSE_LOCAL, errors.New("missing validated input"))
	}
	claims, ok := helper.CurrentClaims(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.CodeUnauthorized, constants.MISSING_TOKEN, nil)
	}

	db := database.DB
	tx := db.Begin()
	if tx.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	showtime, err := helper.LockShowtime(tx, input.ShowtimeId)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "showtime not found", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	now := time.Now()
	if !showtime.StartAt().After(now) {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodePastShowtime,
			"showtime has already started", nil)
	}

	// Seats must exist, belong to the showtime's room and not be flagged
	// for maintenance. Occupancy is checked separately below.
	var seats []model.Seat
	if err := tx.Where("id IN ?", input.SeatIds).Find(&seats).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}
	seatById := make(map[uint]model.Seat, len(seats))
	for _, s := range seats {
		seatById[s.ID] = s
	}
	var unavailable []uint
	for _, id := range input.SeatIds {
		s, found := seatById[id]
		if !found || s.RoomId != showtime.RoomId || s.Status != constants.SeatAvailable {
			unavailable = append(unavailable, id)
		}
	}
	if len(unavailable) > 0 {
		tx.Rollback()
		return utils.SeatConflictResponse(c, fiber.StatusBadRequest, constants.CodeSeatUnavailable,
			"some seats do not exist or are unavailable", unavailable)
	}

	conflicts, err := helper.FindConflictingSeatIDs(tx, showtime.ID, input.SeatIds)
	if err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}
	if len(conflicts) > 0 {
		tx.Rollback()
		return utils.SeatConflictResponse(c, fiber.StatusConflict, constants.CodeSeatAlreadyBooked,
			"seats already booked for this showtime", conflicts)
	}

	seatTypes := make([]string, 0, len(input.SeatIds))
	for _, id := range input.SeatIds {
		seatTypes = append(seatTypes, seatById[id].Type)
	}
	seatPrices, _, _, total := helper.BookingTotal(showtime.Price, seatTypes)

	// The conflict check above makes a negative counter unreachable
	// under correct locking. If it fires anyway, abort and alarm.
	remaining := showtime.AvailableSeats - len(input.SeatIds)
	if remaining < 0 {
		tx.Rollback()
		log.Printf("ALARM booking: showtime %d available_seats would go negative (%d - %d)",
			showtime.ID, showtime.AvailableSeats, len(input.SeatIds))
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInsufficientAvailability,
			"not enough seats available", nil)
	}
	if err := tx.Model(&model.Showtime{}).Where("id = ?", showtime.ID).
		Update("available_seats", remaining).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	customerEmail := input.CustomerEmail
	if customerEmail == "" {
		customerEmail = claims.Email
	}
	booking := model.Booking{
		TransactionId: helper.NewTransactionID(),
		UserId:        claims.UserId,
		ShowtimeId:    showtime.ID,
		TotalPrice:    total,
		Status:        constants.BookingConfirmed,
		PaymentMethod: input.PaymentMethod,
		CustomerEmail: customerEmail,
		PurchaseDate:  now,
	}
	if err := tx.Create(&booking).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrorResponse(c, fiber.StatusConflict, constants.CodeDuplicateTransaction,
				"transaction id collision, please retry", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	lines := make([]model.BookingSeat, 0, len(input.SeatIds))
	for i, seatId := range input.SeatIds {
		lines = append(lines, model.BookingSeat{
			BookingId: booking.ID,
			SeatId:    seatId,
			Price:     seatPrices[i],
		})
	}
	if err := tx.Create(&lines).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Last-resort constraint caught a race the lock should have
			// prevented. Surface as a conflict, never as a double booking.
			log.Printf("ALARM booking: unique constraint caught seat race on showtime %d", showtime.ID)
			return utils.SeatConflictResponse(c, fiber.StatusConflict, constants.CodeSeatAlreadyBooked,
				"seats already booked for this showtime", input.SeatIds)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	// Booking is durable from here; side effects are best-effort.
	go helper.EmitBookingArtifacts(booking.ID)
	helper.InvalidateSeatMap(showtime.ID)
	go BroadcastShowtime(showtime.ID)

	var created model.Booking
	if err := db.Preload("Showtime").Preload("Showtime.Movie").Preload("Showtime.Room").
		Preload("Seats").Preload("Seats.Seat").
		First(&created, booking.ID).Error; err != nil {
		return utils.SuccessResponse(c, fiber.StatusCreated, booking)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, created)
}

// CancelBooking reverses a booking: counter restored under the same
// showtime lock the booking path takes, status flipped, 80% refund
// reported. Seat lines stay for audit; the conflict check ignores
// cancelled bookings so the seats free up immediately.
func CancelBooking(c *fiber.Ctx) error {
	bookingId, ok := c.Locals("bookingId").(uint)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_PARSE_LOCAL, errors.New("missing booking id"))
	}
	claims, ok := helper.CurrentClaims(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.CodeUnauthorized, constants.MISSING_TOKEN, nil)
	}

	db := database.DB
	tx := db.Begin()
	if tx.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var booking model.Booking
	if err := tx.Preload("Seats").First(&booking, bookingId).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "booking not found", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	// Ownership mismatch masks as not-found so existence never leaks.
	if !helper.IsAdmin(claims) && booking.UserId != claims.UserId {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "booking not found", nil)
	}

	switch booking.Status {
	case constants.BookingCancelled:
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeAlreadyCancelled,
			"booking is already cancelled", nil)
	case constants.BookingCompleted:
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeImmutable,
			"completed bookings cannot be cancelled", nil)
	}

	showtime, err := helper.LockShowtime(tx, booking.ShowtimeId)
	if err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	// The status switch above ran before the lock. A concurrent cancel
	// of the same booking may have committed while we waited on the
	// showtime row, so re-check under the lock; otherwise the second
	// canceller would restore the counter a second time.
	var lockedStatus string
	if err := tx.Model(&model.Booking{}).Select("status").Where("id = ?", booking.ID).
		Scan(&lockedStatus).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}
	switch lockedStatus {
	case constants.BookingCancelled:
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeAlreadyCancelled,
			"booking is already cancelled", nil)
	case constants.BookingCompleted:
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeImmutable,
			"completed bookings cannot be cancelled", nil)
	}

	now := time.Now()
	if !helper.IsAdmin(claims) && !helper.CancellationAllowed(showtime.StartAt(), now) {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeCancellationWindow,
			"bookings can only be cancelled up to 2 hours before the showtime", nil)
	}

	restored := showtime.AvailableSeats + len(booking.Seats)
	if restored > showtime.TotalSeats {
		tx.Rollback()
		log.Printf("ALARM cancel: showtime %d available_seats would exceed total (%d + %d > %d)",
			showtime.ID, showtime.AvailableSeats, len(booking.Seats), showtime.TotalSeats)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, nil)
	}
	if err := tx.Model(&model.Showtime{}).Where("id = ?", showtime.ID).
		Update("available_seats", restored).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}
	// Fresh statement: updating through &booking would also save the
	// preloaded Seats association and rewrite the retained audit rows.
	if err := tx.Model(&model.Booking{}).Where("id = ?", booking.ID).Updates(map[string]interface{}{
		"status":       constants.BookingCancelled,
		"cancelled_at": now,
	}).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	refund := helper.RefundAmount(booking.TotalPrice)
	go helper.EmitCancellationNotice(booking.ID, refund)
	helper.InvalidateSeatMap(showtime.ID)
	go BroadcastShowtime(showtime.ID)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"booking_id":    booking.ID,
		"refund_amount": refund,
	})
}

func GetMyBookings(c *fiber.Ctx) error {
	claims, ok := helper.CurrentClaims(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.CodeUnauthorized, constants.MISSING_TOKEN, nil)
	}

	filterInput := new(model.FilterBookingInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB
	condition := db.Model(&model.Booking{}).Where("user_id = ?", claims.UserId)
	if filterInput.ShowtimeId > 0 {
		condition = condition.Where("showtime_id = ?", filterInput.ShowtimeId)
	}
	if filterInput.Status != "" {
		condition = condition.Where("status = ?", filterInput.Status)
	}

	var totalCount int64
	condition.Count(&totalCount)

	var bookings []model.Booking
	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)
	if err := condition.Preload("Showtime").Preload("Showtime.Movie").Preload("Showtime.Room").
		Preload("Seats").Preload("Seats.Seat").
		Order("created_at desc").Find(&bookings).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       bookings,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	})
}

func GetBookingById(c *fiber.Ctx) error {
	bookingId, _ := c.Locals("bookingId").(uint)
	claims, ok := helper.CurrentClaims(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.CodeUnauthorized, constants.MISSING_TOKEN, nil)
	}

	var booking model.Booking
	if err := database.DB.Preload("Showtime").Preload("Showtime.Movie").Preload("Showtime.Room").
		Preload("Seats").Preload("Seats.Seat").
		First(&booking, bookingId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "booking not found", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}
	if !helper.IsAdmin(claims) && booking.UserId != claims.UserId {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "booking not found", nil)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

// GetBookingQRCode returns the stored QR reference, regenerating the
// inline form on demand when the artifact pipeline has not run yet.
func GetBookingQRCode(c *fiber.Ctx) error {
	bookingId, _ := c.Locals("bookingId").(uint)
	claims, ok := helper.CurrentClaims(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.CodeUnauthorized, constants.MISSING_TOKEN, nil)
	}

	var booking model.Booking
	if err := database.DB.Preload("Showtime").Preload("Showtime.Movie").Preload("Showtime.Room").
		Preload("Seats").Preload("Seats.Seat").
		First(&booking, bookingId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "booking not found", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}
	if !helper.IsAdmin(claims) && booking.UserId != claims.UserId {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "booking not found", nil)
	}

	qrRef := booking.QrCodeData
	if qrRef == "" {
		qrPNG, err := utils.GenerateQRCode(helper.BuildQRPayload(&booking), 256)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
		}
		qrRef = "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"bookingId":     booking.ID,
		"transactionId": booking.TransactionId,
		"qrCode":        qrRef,
	})
}
