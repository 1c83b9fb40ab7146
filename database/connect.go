package database

import (
	"fmt"
	"strconv"

	"cinema_booking/config"
	"cinema_booking/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	p := config.Config("DB_PORT")
	port, err := strconv.ParseUint(p, 10, 32)
	if err != nil {
		panic("failed to parse database port")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		config.Config("DB_HOST"), port, config.Config("DB_USER"),
		config.Config("DB_PASSWORD"), config.Config("DB_NAME"))

	// TranslateError lets unique-constraint hits surface as
	// gorm.ErrDuplicatedKey (transaction ids, booking seat lines).
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect database")
	}

	fmt.Println("Connection Opened to Database")
	DB.AutoMigrate(
		&model.User{},
		&model.Movie{},
		&model.Room{},
		&model.Seat{},
		&model.Showtime{},
		&model.Booking{},
		&model.BookingSeat{},
	)
	fmt.Println("Database Migrated")

	SeedData(DB)
}
