package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"cinema_booking/constants"
	"cinema_booking/validate"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestGenerateSeatsLayout(t *testing.T) {
	seats := generateSeats(1, 5, 4)
	assert.Len(t, seats, 20)

	byLabel := make(map[string]string)
	for _, s := range seats {
		assert.Equal(t, uint(1), s.RoomId)
		assert.Equal(t, constants.SeatAvailable, s.Status)
		byLabel[s.Row] = s.Type
	}

	assert.Equal(t, constants.SeatTypeStandard, byLabel["A"])
	assert.Equal(t, constants.SeatTypeStandard, byLabel["B"])
	assert.Equal(t, constants.SeatTypeStandard, byLabel["C"])
	assert.Equal(t, constants.SeatTypePremium, byLabel["D"])
	assert.Equal(t, constants.SeatTypeVip, byLabel["E"])

	// Numbers run 1..columns within each row.
	assert.Equal(t, "A", seats[0].Row)
	assert.Equal(t, 1, seats[0].Number)
	assert.Equal(t, 4, seats[3].Number)
	assert.Equal(t, "B", seats[4].Row)
}

func TestGenerateSeatsBackRowBeatsPremium(t *testing.T) {
	seats := generateSeats(1, 4, 2)

	rows := make(map[string]string)
	for _, s := range seats {
		rows[s.Row] = s.Type
	}
	assert.Equal(t, constants.SeatTypeStandard, rows["C"])
	assert.Equal(t, constants.SeatTypeVip, rows["D"])
}

func TestGenerateSeatsSingleRow(t *testing.T) {
	seats := generateSeats(1, 1, 6)
	assert.Len(t, seats, 6)
	for _, s := range seats {
		assert.Equal(t, constants.SeatTypeStandard, s.Type)
	}
}

func TestCreateRoomCapacityLimit(t *testing.T) {
	newMockDB(t)

	app := fiber.New()
	app.Post("/api/rooms", asUser(adminClaims()), validate.CreateRoom(), CreateRoom)

	raw, _ := json.Marshal(fiber.Map{
		"name":    "Mega Hall",
		"type":    "imax",
		"rows":    26,
		"columns": 20,
	})
	req := httptest.NewRequest("POST", "/api/rooms", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
}

// A relayout is bound by the same 500-seat cap as room creation.
func TestEditRoomCapacityLimit(t *testing.T) {
	mock := newMockDB(t)

	app := fiber.New()
	app.Put("/api/rooms/:roomId", asUser(adminClaims()), validate.GetById("roomId"), validate.EditRoom(), EditRoom)

	mock.ExpectQuery(`SELECT \* FROM "rooms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "type", "status"}).
			AddRow(1, "Hall 1", 100, "standard", "active"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "showtimes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	raw, _ := json.Marshal(fiber.Map{
		"rows":    26,
		"columns": 20,
	})
	req := httptest.NewRequest("PUT", "/api/rooms/1", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	assert.NoError(t, err)
	body := gjson.ParseBytes(buf.Bytes())

	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, constants.CodeInvalidRequest, body.Get("code").String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
