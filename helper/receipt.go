package helper

import (
	"bytes"
	"html/template"
	"strings"

	"cinema_booking/model"
)

type receiptData struct {
	TransactionId string
	PurchaseDate  string
	MovieTitle    string
	RoomName      string
	Showtime      string
	Seats         string
	PaymentMethod string
	TotalPrice    float64
	QrRef         string
}

// RenderReceipt produces the booking receipt document as HTML bytes,
// referencing the already-generated QR artifact.
func RenderReceipt(b *model.Booking) ([]byte, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return nil, err
	}

	data := receiptData{
		TransactionId: b.TransactionId,
		PurchaseDate:  b.PurchaseDate.Format("02/01/2006 15:04"),
		MovieTitle:    b.Showtime.Movie.Title,
		RoomName:      b.Showtime.Room.Name,
		Showtime:      b.Showtime.StartAt().Format("02/01/2006 15:04"),
		Seats:         strings.Join(SeatLabels(b.Seats), ", "),
		PaymentMethod: b.PaymentMethod,
		TotalPrice:    b.TotalPrice,
		QrRef:         b.QrCodeData,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
