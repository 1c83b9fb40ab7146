package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"cinema_booking/model"
	"cinema_booking/validate"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func bookingTestApp(claims model.TokenClaim) *fiber.App {
	app := fiber.New()
	app.Post("/api/bookings", asUser(claims), validate.CreateBooking(), CreateBooking)
	app.Get("/api/bookings/:bookingId", asUser(claims), validate.GetById("bookingId"), GetBookingById)
	app.Post("/api/bookings/:bookingId/cancel", asUser(claims), validate.GetById("bookingId"), CancelBooking)
	return app
}

func postBooking(t *testing.T, app *fiber.App, payload any) (int, gjson.Result) {
	t.Helper()
	raw, err := json.Marshal(payload)
	assert.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/bookings", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	assert.NoError(t, err)
	return resp.StatusCode, gjson.ParseBytes(buf.Bytes())
}

func showtimeRows(date time.Time, price float64, available, total int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "movie_id", "room_id", "date", "time", "price", "available_seats", "total_seats",
	}).AddRow(1, 1, 1, date, "19:30", price, available, total)
}

func seatRows(pairs ...[3]any) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "room_id", "row", "number", "type", "status"})
	for _, p := range pairs {
		rows.AddRow(p[0], p[1], "A", p[0], p[2], "available")
	}
	return rows
}

func TestCreateBookingPastShowtime(t *testing.T) {
	mock := newMockDB(t)
	app := bookingTestApp(customerClaims())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "showtimes"`).
		WillReturnRows(showtimeRows(time.Now().AddDate(0, 0, -1), 40, 10, 10))
	mock.ExpectRollback()

	status, body := postBooking(t, app, fiber.Map{
		"showtime_id": 1,
		"seat_ids":    []uint{1},
	})

	assert.Equal(t, 400, status)
	assert.Equal(t, "PAST_SHOWTIME", body.Get("code").String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingUnknownSeat(t *testing.T) {
	mock := newMockDB(t)
	app := bookingTestApp(customerClaims())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "showtimes"`).
		WillReturnRows(showtimeRows(time.Now().AddDate(0, 0, 2), 40, 10, 10))
	mock.ExpectQuery(`SELECT \* FROM "seats"`).
		WillReturnRows(seatRows([3]any{1, 1, "standard"}))
	mock.ExpectRollback()

	status, body := postBooking(t, app, fiber.Map{
		"showtime_id": 1,
		"seat_ids":    []uint{1, 99},
	})

	assert.Equal(t, 400, status)
	assert.Equal(t, "SEAT_UNAVAILABLE", body.Get("code").String())
	assert.Equal(t, int64(99), body.Get("seatIds.0").Int())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSeatConflict(t *testing.T) {
	mock := newMockDB(t)
	app := bookingTestApp(customerClaims())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "showtimes"`).
		WillReturnRows(showtimeRows(time.Now().AddDate(0, 0, 2), 40, 10, 10))
	mock.ExpectQuery(`SELECT \* FROM "seats"`).
		WillReturnRows(seatRows([3]any{1, 1, "standard"}, [3]any{2, 1, "standard"}))
	mock.ExpectQuery(`FROM "booking_seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(2))
	mock.ExpectRollback()

	status, body := postBooking(t, app, fiber.Map{
		"showtime_id": 1,
		"seat_ids":    []uint{1, 2},
	})

	assert.Equal(t, 409, status)
	assert.Equal(t, "SEAT_ALREADY_BOOKED", body.Get("code").String())
	assert.Equal(t, int64(2), body.Get("seatIds.0").Int())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSuccess(t *testing.T) {
	mock := newMockDB(t)
	app := bookingTestApp(customerClaims())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "showtimes"`).
		WillReturnRows(showtimeRows(time.Now().AddDate(0, 0, 2), 40, 10, 10))
	mock.ExpectQuery(`SELECT \* FROM "seats"`).
		WillReturnRows(seatRows([3]any{1, 1, "standard"}, [3]any{2, 1, "vip"}))
	mock.ExpectQuery(`FROM "booking_seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	mock.ExpectExec(`UPDATE "showtimes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "booking_seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	status, body := postBooking(t, app, fiber.Map{
		"showtime_id":    1,
		"seat_ids":       []uint{1, 2},
		"payment_method": "card",
	})

	assert.Equal(t, 201, status)
	assert.Equal(t, "success", body.Get("status").String())
	assert.Equal(t, 92.40, body.Get("data.totalPrice").Float())
	assert.Contains(t, body.Get("data.transactionId").String(), "TXN-")
	assert.Equal(t, "confirmed", body.Get("data.status").String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingInsufficientAvailability(t *testing.T) {
	mock := newMockDB(t)
	app := bookingTestApp(customerClaims())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "showtimes"`).
		WillReturnRows(showtimeRows(time.Now().AddDate(0, 0, 2), 40, 1, 10))
	mock.ExpectQuery(`SELECT \* FROM "seats"`).
		WillReturnRows(seatRows([3]any{1, 1, "standard"}, [3]any{2, 1, "standard"}))
	mock.ExpectQuery(`FROM "booking_seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	mock.ExpectRollback()

	status, body := postBooking(t, app, fiber.Map{
		"showtime_id": 1,
		"seat_ids":    []uint{1, 2},
	})

	assert.Equal(t, 400, status)
	assert.Equal(t, "INSUFFICIENT_AVAILABILITY", body.Get("code").String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingDuplicateTransaction(t *testing.T) {
	mock := newMockDB(t)
	app := bookingTestApp(customerClaims())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "showtimes"`).
		WillReturnRows(showtimeRows(time.Now().AddDate(0, 0, 2), 40, 10, 10))
	mock.ExpectQuery(`SELECT \* FROM "seats"`).
		WillReturnRows(seatRows([3]any{1, 1, "standard"}))
	mock.ExpectQuery(`FROM "booking_seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	mock.ExpectExec(`UPDATE "showtimes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_bookings_transaction_id"})
	mock.ExpectRollback()

	status, body := postBooking(t, app, fiber.Map{
		"showtime_id": 1,
		"seat_ids":    []uint{1},
	})

	assert.Equal(t, 409, status)
	assert.Equal(t, "DUPLICATE_TRANSACTION", body.Get("code").String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func cancelBooking(t *testing.T, app *fiber.App, id string) (int, gjson.Result) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/bookings/"+id+"/cancel", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	assert.NoError(t, err)
	return resp.StatusCode, gjson.ParseBytes(buf.Bytes())
}

func bookingRows(userId uint, status string, total float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "transaction_id", "user_id", "showtime_id", "total_price", "status",
	}).AddRow(1, "TXN-ABC", userId, 1, total, status)
}

func bookingSeatRows(seatIds ...uint) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "booking_id", "seat_id", "price"})
	for i, id := range seatIds {
		rows.AddRow(i+1, 1, id, 40.0)
	}
	return rows
}

func TestCancelBookingAlreadyCancelled(t *testing.T) {
	mock := newMockDB(t)
	app := bookingTestApp(customerClaims())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(1, "cancelled", 92.40))
	mock.ExpectQuery(`SELECT \* FROM "booking_seats"`).
		WillReturnRows(bookingSeatRows())
	mock.ExpectRollback()

	status, body := cancelBooking(t, app, "1")

	assert.Equal(t, 400, status)
	assert.Equal(t, "ALREADY_CANCELLED", body.Get("code").String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingMasksForeignBooking(t *testing.T) {
	mock := newMockDB(t)
	app := bookingTestApp(customerClaims())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(42, "confirmed", 92.40))
	mock.ExpectQuery(`SELECT \* FROM "booking_seats"`).
		WillReturnRows(bookingSeatRows(1, 2))
	mock.ExpectRollback()

	status, body := cancelBooking(t, app, "1")

	// Someone else's booking reads as not-found, never as forbidden.
	assert.Equal(t, 404, status)
	assert.Equal(t, "NOT_FOUND", body.Get("code").String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingSuccess(t *testing.T) {
	mock := newMockDB(t)
	app := bookingTestApp(customerClaims())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(1, "confirmed", 92.40))
	mock.ExpectQuery(`SELECT \* FROM "booking_seats"`).
		WillReturnRows(bookingSeatRows(1, 2))
	mock.ExpectQuery(`SELECT \* FROM "showtimes"`).
		WillReturnRows(showtimeRows(time.Now().AddDate(0, 0, 3), 40, 8, 10))
	mock.ExpectQuery(`SELECT "status" FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("confirmed"))
	mock.ExpectExec(`UPDATE "showtimes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	status, body := cancelBooking(t, app, "1")

	assert.Equal(t, 200, status)
	assert.Equal(t, 73.92, body.Get("data.refund_amount").Float())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Two cancels race on the same booking. The loser reads the booking as
// confirmed, then blocks on the showtime lock while the winner commits.
// Once the lock is granted the re-read must see the cancelled status and
// bail out without touching the counter again.
func TestCancelBookingLosesRaceToConcurrentCancel(t *testing.T) {
	mock := newMockDB(t)
	app := bookingTestApp(customerClaims())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(1, "confirmed", 92.40))
	mock.ExpectQuery(`SELECT \* FROM "booking_seats"`).
		WillReturnRows(bookingSeatRows(1, 2))
	mock.ExpectQuery(`SELECT \* FROM "showtimes"`).
		WillReturnRows(showtimeRows(time.Now().AddDate(0, 0, 3), 40, 10, 10))
	mock.ExpectQuery(`SELECT "status" FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("cancelled"))
	mock.ExpectRollback()

	status, body := cancelBooking(t, app, "1")

	assert.Equal(t, 400, status)
	assert.Equal(t, "ALREADY_CANCELLED", body.Get("code").String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingStorageErrorIsNotMaskedAsNotFound(t *testing.T) {
	mock := newMockDB(t)
	app := bookingTestApp(customerClaims())

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnError(errors.New("connection reset by peer"))

	req := httptest.NewRequest("GET", "/api/bookings/1", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	assert.NoError(t, err)
	body := gjson.ParseBytes(buf.Bytes())

	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "SYSTEM_ERROR", body.Get("code").String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingWindowClosed(t *testing.T) {
	mock := newMockDB(t)
	app := bookingTestApp(customerClaims())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(1, "confirmed", 92.40))
	mock.ExpectQuery(`SELECT \* FROM "booking_seats"`).
		WillReturnRows(bookingSeatRows(1))
	mock.ExpectQuery(`SELECT \* FROM "showtimes"`).
		WillReturnRows(func() *sqlmock.Rows {
			soon := time.Now().Add(time.Hour)
			return sqlmock.NewRows([]string{
				"id", "movie_id", "room_id", "date", "time", "price", "available_seats", "total_seats",
			}).AddRow(1, 1, 1, soon, soon.Format("15:04"), 40.0, 9, 10)
		}())
	mock.ExpectQuery(`SELECT "status" FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("confirmed"))
	mock.ExpectRollback()

	status, body := cancelBooking(t, app, "1")

	assert.Equal(t, 400, status)
	assert.Equal(t, "CANCELLATION_WINDOW_CLOSED", body.Get("code").String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingAdminBypassesWindow(t *testing.T) {
	mock := newMockDB(t)
	app := bookingTestApp(adminClaims())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(42, "confirmed", 92.40))
	mock.ExpectQuery(`SELECT \* FROM "booking_seats"`).
		WillReturnRows(bookingSeatRows(1))
	mock.ExpectQuery(`SELECT \* FROM "showtimes"`).
		WillReturnRows(func() *sqlmock.Rows {
			soon := time.Now().Add(time.Hour)
			return sqlmock.NewRows([]string{
				"id", "movie_id", "room_id", "date", "time", "price", "available_seats", "total_seats",
			}).AddRow(1, 1, 1, soon, soon.Format("15:04"), 40.0, 9, 10)
		}())
	mock.ExpectQuery(`SELECT "status" FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("confirmed"))
	mock.ExpectExec(`UPDATE "showtimes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	status, body := cancelBooking(t, app, "1")

	assert.Equal(t, 200, status)
	assert.Equal(t, 73.92, body.Get("data.refund_amount").Float())
	assert.NoError(t, mock.ExpectationsWereMet())
}
