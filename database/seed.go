package database

import (
	"log"

	"cinema_booking/config"
	"cinema_booking/constants"
	"cinema_booking/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedData creates the initial admin account when the table is empty.
func SeedData(db *gorm.DB) {
	var count int64
	db.Model(&model.User{}).Where("role = ?", constants.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}

	password := config.Config("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123456"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Printf("seed: hash admin password: %v", err)
		return
	}

	admin := model.User{
		Name:     "Administrator",
		Email:    "admin@cinema.local",
		Password: string(hash),
		Role:     constants.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("seed: create admin account: %v", err)
		return
	}
	log.Println("seed: admin account created")
}
