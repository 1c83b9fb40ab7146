package helper

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockShowtime reads the showtime row under FOR UPDATE. Every booking
// and cancellation against a showtime funnels through this lock, which
// serializes the check-then-act sequence on its seat conflict space.
func LockShowtime(tx *gorm.DB, showtimeId uint) (*model.Showtime, error) {
	var showtime model.Showtime
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&showtime, showtimeId).Error
	if err != nil {
		return nil, err
	}
	return &showtime, nil
}

// FindConflictingSeatIDs returns the requested seat ids already held by
// a confirmed or pending booking on this showtime. Cancelled bookings
// keep their seat lines for audit but do not count.
func FindConflictingSeatIDs(tx *gorm.DB, showtimeId uint, seatIds []uint) ([]uint, error) {
	var taken []uint
	err := tx.Table("booking_seats").
		Joins("JOIN bookings ON bookings.id = booking_seats.booking_id").
		Where("bookings.showtime_id = ? AND bookings.status IN ? AND booking_seats.seat_id IN ?",
			showtimeId, []string{constants.BookingConfirmed, constants.BookingPending}, seatIds).
		Pluck("booking_seats.seat_id", &taken).Error
	return taken, err
}

// ActiveSeatLineCount recomputes occupancy for a showtime from the
// authoritative booking_seats rows.
func ActiveSeatLineCount(tx *gorm.DB, showtimeId uint) (int64, error) {
	var count int64
	err := tx.Table("booking_seats").
		Joins("JOIN bookings ON bookings.id = booking_seats.booking_id").
		Where("bookings.showtime_id = ? AND bookings.status IN ?",
			showtimeId, []string{constants.BookingConfirmed, constants.BookingPending}).
		Count(&count).Error
	return count, err
}

func NewTransactionID() string {
	return "TXN-" + strings.ToUpper(uuid.New().String())
}

// CancellationAllowed enforces the 2-hour window for non-admin callers.
func CancellationAllowed(showtimeStart, now time.Time) bool {
	return showtimeStart.Sub(now) >= constants.CancelWindowHours*time.Hour
}

func SeatLabels(lines []model.BookingSeat) []string {
	labels := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Seat.ID != 0 {
			labels = append(labels, fmt.Sprintf("%s%d", l.Seat.Row, l.Seat.Number))
		}
	}
	return labels
}

// qrPayload is the structured booking summary encoded into the QR code.
type qrPayload struct {
	TransactionId string   `json:"transactionId"`
	ShowtimeId    uint     `json:"showtimeId"`
	Movie         string   `json:"movie"`
	Room          string   `json:"room"`
	Start         string   `json:"start"`
	Seats         []string `json:"seats"`
	TotalPrice    float64  `json:"totalPrice"`
}

func BuildQRPayload(b *model.Booking) string {
	payload := qrPayload{
		TransactionId: b.TransactionId,
		ShowtimeId:    b.ShowtimeId,
		Movie:         b.Showtime.Movie.Title,
		Room:          b.Showtime.Room.Name,
		Start:         b.Showtime.StartAt().Format("2006-01-02 15:04"),
		Seats:         SeatLabels(b.Seats),
		TotalPrice:    b.TotalPrice,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return b.TransactionId
	}
	return string(raw)
}

// EmitBookingArtifacts runs the post-commit side effects: QR code,
// receipt document and confirmation email. The booking is already
// durable; every failure here is logged and swallowed.
func EmitBookingArtifacts(bookingId uint) {
	db := database.DB

	var booking model.Booking
	if err := db.Preload("Showtime").Preload("Showtime.Movie").Preload("Showtime.Room").
		Preload("Seats").Preload("Seats.Seat").
		First(&booking, bookingId).Error; err != nil {
		log.Printf("artifacts: booking %d not found: %v", bookingId, err)
		return
	}
	if booking.Status != constants.BookingConfirmed {
		return
	}

	// QR code
	qrPNG, err := utils.GenerateQRCode(BuildQRPayload(&booking), 256)
	if err != nil {
		log.Printf("artifacts: qr generation for %s: %v", booking.TransactionId, err)
	} else {
		qrRef := ""
		if url, err := UploadArtifact(fmt.Sprintf("qr_%s", booking.TransactionId), qrPNG, "bookings/qr"); err != nil {
			log.Printf("artifacts: qr upload for %s: %v", booking.TransactionId, err)
		} else {
			qrRef = url
		}
		if qrRef == "" {
			qrRef = "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG)
		}
		if err := db.Model(&booking).Update("qr_code_data", qrRef).Error; err != nil {
			log.Printf("artifacts: store qr reference for %s: %v", booking.TransactionId, err)
		} else {
			booking.QrCodeData = qrRef
		}
	}

	// Receipt document
	receipt, err := RenderReceipt(&booking)
	if err != nil {
		log.Printf("artifacts: receipt render for %s: %v", booking.TransactionId, err)
	} else if url, err := UploadArtifact(fmt.Sprintf("receipt_%s", booking.TransactionId), receipt, "bookings/receipts"); err != nil {
		log.Printf("artifacts: receipt upload for %s: %v", booking.TransactionId, err)
	} else if url != "" {
		if err := db.Model(&booking).Update("receipt_url", url).Error; err != nil {
			log.Printf("artifacts: store receipt url for %s: %v", booking.TransactionId, err)
		} else {
			booking.ReceiptUrl = url
		}
	}

	// Confirmation email
	if booking.CustomerEmail != "" {
		data := utils.BookingEmailData{
			TransactionId: booking.TransactionId,
			MovieTitle:    booking.Showtime.Movie.Title,
			RoomName:      booking.Showtime.Room.Name,
			Showtime:      booking.Showtime.StartAt().Format("02/01/2006 15:04"),
			Seats:         strings.Join(SeatLabels(booking.Seats), ", "),
			TotalPrice:    booking.TotalPrice,
			PaymentMethod: booking.PaymentMethod,
			ReceiptUrl:    booking.ReceiptUrl,
		}
		if err := utils.SendBookingConfirmationEmail(booking.CustomerEmail, data, qrPNG); err != nil {
			log.Printf("artifacts: confirmation email for %s: %v", booking.TransactionId, err)
		}
	}
}

// EmitCancellationNotice mails the refund confirmation. Best-effort.
func EmitCancellationNotice(bookingId uint, refundAmount float64) {
	db := database.DB

	var booking model.Booking
	if err := db.Preload("Showtime").Preload("Showtime.Movie").Preload("Showtime.Room").
		Preload("Seats").Preload("Seats.Seat").
		First(&booking, bookingId).Error; err != nil {
		log.Printf("cancellation notice: booking %d not found: %v", bookingId, err)
		return
	}
	if booking.CustomerEmail == "" {
		return
	}

	cancelledAt := time.Now()
	if booking.CancelledAt != nil {
		cancelledAt = *booking.CancelledAt
	}
	data := utils.BookingEmailData{
		TransactionId: booking.TransactionId,
		MovieTitle:    booking.Showtime.Movie.Title,
		RoomName:      booking.Showtime.Room.Name,
		Showtime:      booking.Showtime.StartAt().Format("02/01/2006 15:04"),
		Seats:         strings.Join(SeatLabels(booking.Seats), ", "),
		TotalPrice:    booking.TotalPrice,
		RefundAmount:  refundAmount,
		CancelledAt:   cancelledAt.Format("02/01/2006 15:04"),
	}
	if err := utils.SendBookingCancelledEmail(booking.CustomerEmail, data); err != nil {
		log.Printf("cancellation notice: email for %s: %v", booking.TransactionId, err)
	}
}
