package model

type Seat struct {
	DTO
	RoomId uint   `gorm:"not null;uniqueIndex:idx_room_row_number" json:"roomId"`
	Row    string `gorm:"not null;size:2;uniqueIndex:idx_room_row_number" json:"row"`
	Number int    `gorm:"not null;uniqueIndex:idx_room_row_number" json:"number"`
	Type   string `gorm:"not null;default:'standard'" json:"type"`
	Status string `gorm:"not null;default:'available'" json:"status"`
	Room   Room   `gorm:"foreignKey:RoomId" json:"-"`
}

type SeatStatusInput struct {
	Status string `json:"status" validate:"required,oneof=available occupied maintenance"`
}
