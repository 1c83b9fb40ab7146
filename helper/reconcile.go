package helper

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"cinema_booking/config"
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"

	"github.com/go-co-op/gocron/v2"
	"github.com/jordan-wright/email"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

var (
	auditCron       *cron.Cron
	artifactSweeper gocron.Scheduler
)

// StartReconciliationAudit schedules the counter-drift check every five
// minutes. The counter is maintained inside the booking transactions;
// this audit is a safety net, not a runtime dependency.
func StartReconciliationAudit() {
	auditCron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	if _, err := auditCron.AddFunc("*/5 * * * *", ReconcileShowtimeCounters); err != nil {
		log.Printf("reconciliation audit scheduler: %v", err)
		return
	}
	auditCron.Start()
	log.Println("reconciliation audit started (every 5 minutes)")
}

func StopReconciliationAudit() {
	if auditCron != nil {
		auditCron.Stop()
	}
}

// ReconcileShowtimeCounters recomputes available_seats from the
// authoritative booking_seats rows. A mismatch means the locking
// discipline was violated somewhere; it is logged as an alarm, repaired
// under the same row lock bookings use, and reported to ops.
func ReconcileShowtimeCounters() {
	db := database.DB

	var showtimes []model.Showtime
	if err := db.Find(&showtimes).Error; err != nil {
		log.Printf("reconcile: load showtimes: %v", err)
		return
	}

	var driftLines []string
	for _, st := range showtimes {
		lines, err := ActiveSeatLineCount(db, st.ID)
		if err != nil {
			log.Printf("reconcile: count seat lines for showtime %d: %v", st.ID, err)
			continue
		}
		expected := st.TotalSeats - int(lines)
		if expected == st.AvailableSeats {
			continue
		}

		log.Printf("ALARM reconcile: showtime %d counter drift: available_seats=%d expected=%d",
			st.ID, st.AvailableSeats, expected)
		driftLines = append(driftLines, fmt.Sprintf(
			"showtime %d: available_seats=%d expected=%d (total=%d, active lines=%d)",
			st.ID, st.AvailableSeats, expected, st.TotalSeats, lines))

		err = db.Transaction(func(tx *gorm.DB) error {
			locked, err := LockShowtime(tx, st.ID)
			if err != nil {
				return err
			}
			lines, err := ActiveSeatLineCount(tx, locked.ID)
			if err != nil {
				return err
			}
			return tx.Model(&model.Showtime{}).Where("id = ?", locked.ID).
				Update("available_seats", locked.TotalSeats-int(lines)).Error
		})
		if err != nil {
			log.Printf("reconcile: repair showtime %d: %v", st.ID, err)
		}
	}

	if len(driftLines) > 0 {
		SendDriftAlert(driftLines)
	}
}

// SendDriftAlert mails the ops address a plain-text drift report.
func SendDriftAlert(lines []string) {
	to := config.Config("OPS_ALERT_EMAIL")
	if to == "" {
		return
	}

	e := email.NewEmail()
	e.From = config.Config("SMTP_FROM")
	e.To = []string{to}
	e.Subject = "seat counter drift detected"
	e.Text = []byte("The availability audit found counter drift:\n\n" + strings.Join(lines, "\n"))

	addr := fmt.Sprintf("%s:%s", config.Config("SMTP_HOST"), config.Config("SMTP_PORT"))
	auth := smtp.PlainAuth("", config.Config("SMTP_USERNAME"), config.Config("SMTP_PASSWORD"), config.Config("SMTP_HOST"))
	if err := e.Send(addr, auth); err != nil {
		log.Printf("reconcile: drift alert email: %v", err)
	}
}

// StartArtifactRetrySweep schedules a daily re-run of the artifact
// pipeline for confirmed bookings whose QR generation failed earlier.
func StartArtifactRetrySweep() {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("artifact sweep scheduler: %v", err)
		return
	}
	artifactSweeper = s

	_, err = s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(RetryMissingArtifacts),
	)
	if err != nil {
		log.Printf("artifact sweep job: %v", err)
		return
	}
	s.Start()
	log.Println("artifact retry sweep started (daily 03:00)")
}

func StopArtifactRetrySweep() {
	if artifactSweeper != nil {
		_ = artifactSweeper.Shutdown()
	}
}

// RetryMissingArtifacts re-emits QR/receipt/email for recent confirmed
// bookings that never got their QR reference attached.
func RetryMissingArtifacts() {
	db := database.DB

	var ids []uint
	err := db.Model(&model.Booking{}).
		Where("status = ? AND qr_code_data = '' AND purchase_date > ?",
			constants.BookingConfirmed, time.Now().AddDate(0, 0, -7)).
		Pluck("id", &ids).Error
	if err != nil {
		log.Printf("artifact sweep: query: %v", err)
		return
	}

	for _, id := range ids {
		EmitBookingArtifacts(id)
	}
	if len(ids) > 0 {
		log.Printf("artifact sweep: retried %d bookings", len(ids))
	}
}
