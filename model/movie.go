package model

import "cinema_booking/utils"

type Movie struct {
	DTO
	Title       string         `gorm:"not null;index" validate:"required" json:"title"`
	Slug        string         `gorm:"uniqueIndex" json:"slug"`
	Genre       string         `gorm:"not null;index" validate:"required" json:"genre"`
	Duration    int            `gorm:"not null" validate:"required,gt=0" json:"duration"`
	Rating      float64        `validate:"gte=0,lte=10" json:"rating"`
	Price       float64        `gorm:"not null" validate:"required,gt=0" json:"price"`
	ReleaseDate utils.DateOnly `gorm:"type:date" json:"releaseDate"`
	Status      string         `gorm:"not null;default:'active'" json:"status"`
}

type CreateMovieInput struct {
	Title       string         `json:"title" validate:"required,min=1,max=255"`
	Genre       string         `json:"genre" validate:"required"`
	Duration    int            `json:"duration" validate:"required,gt=0"`
	Rating      float64        `json:"rating" validate:"gte=0,lte=10"`
	Price       float64        `json:"price" validate:"required,gt=0"`
	ReleaseDate utils.DateOnly `json:"releaseDate" validate:"required"`
}

type EditMovieInput struct {
	Title       *string         `json:"title"`
	Genre       *string         `json:"genre"`
	Duration    *int            `json:"duration" validate:"omitempty,gt=0"`
	Rating      *float64        `json:"rating" validate:"omitempty,gte=0,lte=10"`
	Price       *float64        `json:"price" validate:"omitempty,gt=0"`
	ReleaseDate *utils.DateOnly `json:"releaseDate"`
}

type FilterMovieInput struct {
	Pagination
	Title  string `query:"title"`
	Genre  string `query:"genre"`
	Status string `query:"status" validate:"omitempty,oneof=active inactive"`
}
