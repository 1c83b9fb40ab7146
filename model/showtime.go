package model

import (
	"time"

	"cinema_booking/utils"
)

type Showtime struct {
	DTO
	MovieId        uint           `gorm:"not null;index" json:"movieId"`
	RoomId         uint           `gorm:"not null;uniqueIndex:idx_room_slot" json:"roomId"`
	Date           utils.DateOnly `gorm:"type:date;not null;uniqueIndex:idx_room_slot" json:"date"`
	Time           string         `gorm:"size:5;not null;uniqueIndex:idx_room_slot" json:"time"`
	Price          float64        `gorm:"not null" json:"price"`
	AvailableSeats int            `gorm:"not null" json:"availableSeats"`
	TotalSeats     int            `gorm:"not null" json:"totalSeats"`
	Movie          Movie          `gorm:"foreignKey:MovieId" json:"movie,omitempty"`
	Room           Room           `gorm:"foreignKey:RoomId" json:"room,omitempty"`
}

// StartAt combines the date and the "15:04" time-of-day into the start
// instant of the screening.
func (s Showtime) StartAt() time.Time {
	t, err := time.Parse("15:04", s.Time)
	if err != nil {
		return s.Date.Time
	}
	d := s.Date.Time
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
}

type CreateShowtimeInput struct {
	MovieId uint           `json:"movieId" validate:"required,gt=0"`
	RoomId  uint           `json:"roomId" validate:"required,gt=0"`
	Date    utils.DateOnly `json:"date" validate:"required"`
	Time    string         `json:"time" validate:"required"`
	Price   *float64       `json:"price" validate:"omitempty,gt=0"`
}

type EditShowtimeInput struct {
	MovieId *uint           `json:"movieId" validate:"omitempty,gt=0"`
	RoomId  *uint           `json:"roomId" validate:"omitempty,gt=0"`
	Date    *utils.DateOnly `json:"date"`
	Time    *string         `json:"time"`
	Price   *float64        `json:"price" validate:"omitempty,gt=0"`
}

type FilterShowtimeInput struct {
	Pagination
	MovieId   uint   `query:"movieId" validate:"omitempty,gt=0"`
	RoomId    uint   `query:"roomId" validate:"omitempty,gt=0"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}
