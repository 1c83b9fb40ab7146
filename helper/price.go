package helper

import (
	"math"

	"cinema_booking/constants"
	"cinema_booking/model"
)

// Seat-type multipliers applied per seat on top of the showtime price.
var seatTypeMultiplier = map[string]float64{
	constants.SeatTypeStandard: 1.0,
	constants.SeatTypePremium:  1.10,
	constants.SeatTypeVip:      1.20,
}

// Room-type multipliers applied once, when the showtime price is frozen
// at creation. A separate scale from the seat multipliers above.
var roomTypeMultiplier = map[model.RoomType]float64{
	model.RoomStandard: 1.0,
	model.RoomPremium:  1.15,
	model.Room4DX:      1.20,
	model.RoomIMAX:     1.25,
	model.RoomVip:      1.30,
}

// RoundHalfUp rounds to 2 decimal places, half away from zero upward.
func RoundHalfUp(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// SeatPrice is the showtime price scaled by the seat type, rounded.
func SeatPrice(showtimePrice float64, seatType string) float64 {
	m, ok := seatTypeMultiplier[seatType]
	if !ok {
		m = 1.0
	}
	return RoundHalfUp(showtimePrice * m)
}

// BookingTotal computes per-seat prices, the 5% service fee and the
// grand total. Rounding happens stepwise at each multiplication and at
// the fee addition; client-visible totals depend on that exact order.
func BookingTotal(showtimePrice float64, seatTypes []string) (seatPrices []float64, subtotal, fee, total float64) {
	seatPrices = make([]float64, 0, len(seatTypes))
	for _, t := range seatTypes {
		p := SeatPrice(showtimePrice, t)
		seatPrices = append(seatPrices, p)
		subtotal += p
	}
	subtotal = RoundHalfUp(subtotal)
	fee = RoundHalfUp(subtotal * constants.ServiceFeeRate)
	total = RoundHalfUp(subtotal + fee)
	return seatPrices, subtotal, fee, total
}

// ShowtimePrice freezes the ticket base price for a new showtime.
func ShowtimePrice(moviePrice float64, roomType model.RoomType) float64 {
	m, ok := roomTypeMultiplier[roomType]
	if !ok {
		m = 1.0
	}
	return RoundHalfUp(moviePrice * m)
}

// RefundAmount is the 80% refund reported on cancellation; the retained
// 20% is the non-refundable service share.
func RefundAmount(totalPrice float64) float64 {
	return RoundHalfUp(totalPrice * constants.RefundRate)
}
