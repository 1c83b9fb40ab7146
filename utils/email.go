package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"log"
	"strconv"

	"cinema_booking/config"

	"gopkg.in/gomail.v2"
)

// BookingEmailData feeds the confirmation / cancellation templates.
type BookingEmailData struct {
	TransactionId string
	MovieTitle    string
	RoomName      string
	Showtime      string
	Seats         string
	TotalPrice    float64
	PaymentMethod string
	RefundAmount  float64
	CancelledAt   string
	ReceiptUrl    string
}

func smtpDialer() *gomail.Dialer {
	port, _ := strconv.Atoi(config.Config("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return gomail.NewDialer(
		config.Config("SMTP_HOST"),
		port,
		config.Config("SMTP_USERNAME"),
		config.Config("SMTP_PASSWORD"),
	)
}

func renderTemplate(path string, data BookingEmailData) (string, error) {
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		return "", err
	}
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// SendBookingConfirmationEmail mails the customer their confirmation with
// the ticket QR attached. Failures are returned for the caller to log;
// they must never fail the booking itself.
func SendBookingConfirmationEmail(to string, data BookingEmailData, qrPNG []byte) error {
	body, err := renderTemplate("templates/booking_confirmation.html", data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.Config("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Booking confirmed #"+data.TransactionId)
	m.SetBody("text/html", body)

	if len(qrPNG) > 0 {
		filename := fmt.Sprintf("ticket_%s.png", data.TransactionId)
		m.Attach(filename, gomail.Rename(filename), gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(qrPNG))
			return err
		}))
	}

	if err := smtpDialer().DialAndSend(m); err != nil {
		return err
	}
	log.Printf("confirmation email sent to %s for %s", to, data.TransactionId)
	return nil
}

// SendBookingCancelledEmail mails the cancellation notice with the refund
// amount. Best-effort, same contract as the confirmation mail.
func SendBookingCancelledEmail(to string, data BookingEmailData) error {
	body, err := renderTemplate("templates/booking_cancelled.html", data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.Config("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Booking cancelled #"+data.TransactionId)
	m.SetBody("text/html", body)

	return smtpDialer().DialAndSend(m)
}
