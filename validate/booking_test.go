package validate

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"cinema_booking/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func bookingValidationApp() *fiber.App {
	app := fiber.New()
	app.Post("/bookings", CreateBooking(), func(c *fiber.Ctx) error {
		input := c.Locals("input").(model.CreateBookingInput)
		return c.JSON(input)
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) int {
	t.Helper()
	raw, err := json.Marshal(payload)
	assert.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestCreateBookingValidation(t *testing.T) {
	app := bookingValidationApp()

	tests := []struct {
		name    string
		payload fiber.Map
		want    int
	}{
		{
			name:    "valid",
			payload: fiber.Map{"showtime_id": 1, "seat_ids": []uint{1, 2}, "payment_method": "card"},
			want:    200,
		},
		{
			name:    "missing showtime",
			payload: fiber.Map{"seat_ids": []uint{1}},
			want:    400,
		},
		{
			name:    "empty seat list",
			payload: fiber.Map{"showtime_id": 1, "seat_ids": []uint{}},
			want:    400,
		},
		{
			name:    "duplicate seat ids",
			payload: fiber.Map{"showtime_id": 1, "seat_ids": []uint{3, 3}},
			want:    400,
		},
		{
			name:    "zero seat id",
			payload: fiber.Map{"showtime_id": 1, "seat_ids": []uint{0}},
			want:    400,
		},
		{
			name:    "unknown payment method",
			payload: fiber.Map{"showtime_id": 1, "seat_ids": []uint{1}, "payment_method": "barter"},
			want:    400,
		},
		{
			name:    "bad customer email",
			payload: fiber.Map{"showtime_id": 1, "seat_ids": []uint{1}, "customer_email": "not-an-email"},
			want:    400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, postJSON(t, app, "/bookings", tt.payload))
		})
	}
}

func TestGetByIdRejectsBadParams(t *testing.T) {
	app := fiber.New()
	app.Get("/things/:thingId", GetById("thingId"), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})

	for _, param := range []string{"abc", "0", "-4", "1.5"} {
		req := httptest.NewRequest("GET", "/things/"+param, nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, 400, resp.StatusCode, "param %q", param)
	}

	req := httptest.NewRequest("GET", "/things/12", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}
