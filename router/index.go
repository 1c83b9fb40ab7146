package router

import (
	"cinema_booking/handler"
	"cinema_booking/middleware"
	"cinema_booking/validate"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")
	api.Get("/health", handler.HealthCheck)

	auth := api.Group("/auth")
	auth.Post("/register", validate.Register(), handler.Register)
	auth.Post("/login", validate.Login(), handler.Login)
	auth.Get("/me", middleware.Protected(), handler.Me)

	movies := api.Group("/movies")
	movies.Get("/", handler.GetMovies)
	movies.Get("/:movieId", validate.GetById("movieId"), handler.GetMovieById)
	movies.Post("/", middleware.Protected(), middleware.AdminOnly(), validate.CreateMovie(), handler.CreateMovie)
	movies.Put("/:movieId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("movieId"), validate.EditMovie(), handler.EditMovie)
	movies.Patch("/:movieId/deactivate", middleware.Protected(), middleware.AdminOnly(), validate.GetById("movieId"), handler.DeactivateMovie)
	movies.Delete("/:movieId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("movieId"), handler.DeleteMovie)

	rooms := api.Group("/rooms")
	rooms.Get("/", handler.GetRooms)
	rooms.Get("/:roomId", validate.GetById("roomId"), handler.GetRoomById)
	rooms.Get("/:roomId/seats", validate.GetById("roomId"), handler.GetRoomSeats)
	rooms.Post("/", middleware.Protected(), middleware.AdminOnly(), validate.CreateRoom(), handler.CreateRoom)
	rooms.Put("/:roomId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("roomId"), validate.EditRoom(), handler.EditRoom)
	rooms.Patch("/:roomId/status", middleware.Protected(), middleware.AdminOnly(), validate.GetById("roomId"), validate.RoomStatus(), handler.SetRoomStatus)

	seats := api.Group("/seats")
	seats.Patch("/:seatId/status", middleware.Protected(), middleware.AdminOnly(), validate.GetById("seatId"), validate.SeatStatus(), handler.SetSeatStatus)

	showtimes := api.Group("/showtimes")
	showtimes.Get("/", handler.GetShowtimes)
	showtimes.Get("/:showtimeId", validate.GetById("showtimeId"), handler.GetShowtimeById)
	showtimes.Get("/:showtimeId/seats", validate.GetById("showtimeId"), handler.GetShowtimeSeatMap)
	showtimes.Post("/", middleware.Protected(), middleware.AdminOnly(), validate.CreateShowtime(), handler.CreateShowtime)
	showtimes.Put("/:showtimeId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("showtimeId"), validate.EditShowtime(), handler.EditShowtime)
	showtimes.Delete("/:showtimeId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("showtimeId"), handler.DeleteShowtime)

	bookings := api.Group("/bookings", middleware.Protected())
	bookings.Post("/", validate.CreateBooking(), handler.CreateBooking)
	bookings.Get("/", handler.GetMyBookings)
	bookings.Get("/:bookingId", validate.GetById("bookingId"), handler.GetBookingById)
	bookings.Get("/:bookingId/qrcode", validate.GetById("bookingId"), handler.GetBookingQRCode)
	bookings.Post("/:bookingId/cancel", validate.GetById("bookingId"), handler.CancelBooking)

	ws := app.Group("/ws")
	ws.Get("/showtimes/:id/seats", handler.SeatMapUpgrade, handler.SeatMapSocket())
}
