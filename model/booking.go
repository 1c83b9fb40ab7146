package model

import "time"

type Booking struct {
	DTO
	TransactionId string        `gorm:"uniqueIndex;size:50;not null" json:"transactionId"`
	UserId        uint          `gorm:"not null;index" json:"userId"`
	ShowtimeId    uint          `gorm:"not null;index" json:"showtimeId"`
	TotalPrice    float64       `gorm:"not null" json:"totalPrice"`
	Status        string        `gorm:"not null;default:'confirmed';index" json:"status"`
	PaymentMethod string        `json:"paymentMethod"`
	CustomerEmail string        `json:"customerEmail"`
	PurchaseDate  time.Time     `gorm:"not null" json:"purchaseDate"`
	QrCodeData    string        `gorm:"type:text" json:"qrCodeData"`
	ReceiptUrl    string        `json:"receiptUrl"`
	CancelledAt   *time.Time    `json:"cancelledAt,omitempty"`
	User          User          `gorm:"foreignKey:UserId" json:"-"`
	Showtime      Showtime      `gorm:"foreignKey:ShowtimeId" json:"showtime,omitempty"`
	Seats         []BookingSeat `gorm:"foreignKey:BookingId" json:"seats,omitempty"`
}

// BookingSeat is the authoritative occupancy record: a seat is taken for
// a showtime exactly when a row exists here under a confirmed or pending
// booking. The unique index is the last-resort guard against a race that
// slips past the row lock.
type BookingSeat struct {
	DTO
	BookingId uint    `gorm:"not null;uniqueIndex:idx_booking_seat" json:"bookingId"`
	SeatId    uint    `gorm:"not null;uniqueIndex:idx_booking_seat" json:"seatId"`
	Price     float64 `gorm:"not null" json:"price"`
	Seat      Seat    `gorm:"foreignKey:SeatId" json:"seat,omitempty"`
}

type CreateBookingInput struct {
	ShowtimeId    uint   `json:"showtime_id" validate:"required,gt=0"`
	SeatIds       []uint `json:"seat_ids" validate:"required,min=1,dive,gt=0"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=card cash momo paypal"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
}

type FilterBookingInput struct {
	Pagination
	ShowtimeId uint   `query:"showtimeId" validate:"omitempty,gt=0"`
	Status     string `query:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}
