package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"

	"gorm.io/gorm"
)

const seatMapCacheTTL = 30 * time.Second

// SeatMapEntry is one seat of a showtime's room with its occupancy
// resolved from the booking_seats rows.
type SeatMapEntry struct {
	SeatId uint   `json:"seatId"`
	Row    string `json:"row"`
	Number int    `json:"number"`
	Type   string `json:"type"`
	Status string `json:"status"` // available, booked, maintenance
}

func seatMapCacheKey(showtimeId uint) string {
	return fmt.Sprintf("seatmap:%d", showtimeId)
}

// BuildSeatMap resolves the seat map of a showtime from the database.
func BuildSeatMap(db *gorm.DB, showtimeId uint) ([]SeatMapEntry, error) {
	var showtime model.Showtime
	if err := db.First(&showtime, showtimeId).Error; err != nil {
		return nil, err
	}

	var seats []model.Seat
	if err := db.Where("room_id = ?", showtime.RoomId).
		Order("row asc, number asc").Find(&seats).Error; err != nil {
		return nil, err
	}

	var bookedIds []uint
	if err := db.Table("booking_seats").
		Joins("JOIN bookings ON bookings.id = booking_seats.booking_id").
		Where("bookings.showtime_id = ? AND bookings.status IN ?",
			showtimeId, []string{constants.BookingConfirmed, constants.BookingPending}).
		Pluck("booking_seats.seat_id", &bookedIds).Error; err != nil {
		return nil, err
	}
	booked := make(map[uint]bool, len(bookedIds))
	for _, id := range bookedIds {
		booked[id] = true
	}

	entries := make([]SeatMapEntry, 0, len(seats))
	for _, s := range seats {
		status := constants.SeatAvailable
		switch {
		case booked[s.ID]:
			status = "booked"
		case s.Status != constants.SeatAvailable:
			status = s.Status
		}
		entries = append(entries, SeatMapEntry{
			SeatId: s.ID,
			Row:    s.Row,
			Number: s.Number,
			Type:   s.Type,
			Status: status,
		})
	}
	return entries, nil
}

// CachedSeatMap reads the seat map through the redis cache.
func CachedSeatMap(showtimeId uint) ([]SeatMapEntry, error) {
	if database.Redis != nil {
		raw, err := database.Redis.Get(context.Background(), seatMapCacheKey(showtimeId)).Result()
		if err == nil {
			var entries []SeatMapEntry
			if json.Unmarshal([]byte(raw), &entries) == nil {
				return entries, nil
			}
		}
	}

	entries, err := BuildSeatMap(database.DB, showtimeId)
	if err != nil {
		return nil, err
	}

	if database.Redis != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := database.Redis.Set(context.Background(), seatMapCacheKey(showtimeId), raw, seatMapCacheTTL).Err(); err != nil {
				log.Printf("seatmap cache set %d: %v", showtimeId, err)
			}
		}
	}
	return entries, nil
}

// InvalidateSeatMap drops the cached map after a booking or cancel.
func InvalidateSeatMap(showtimeId uint) {
	if database.Redis == nil {
		return
	}
	if err := database.Redis.Del(context.Background(), seatMapCacheKey(showtimeId)).Err(); err != nil {
		log.Printf("seatmap cache del %d: %v", showtimeId, err)
	}
}
