package model

type RoomType string

const (
	RoomStandard RoomType = "standard"
	RoomPremium  RoomType = "premium"
	Room4DX      RoomType = "4dx"
	RoomIMAX     RoomType = "imax"
	RoomVip      RoomType = "vip"
)

type Room struct {
	DTO
	Name     string   `gorm:"uniqueIndex;not null" validate:"required" json:"name"`
	Capacity int      `gorm:"not null" validate:"min=1,max=500" json:"capacity"`
	Type     RoomType `gorm:"not null;default:'standard'" json:"type"`
	Status   string   `gorm:"not null;default:'active'" json:"status"`
	Location string   `json:"location"`
	Seats    []Seat   `gorm:"foreignKey:RoomId" json:"seats,omitempty"`
}

type CreateRoomInput struct {
	Name     string   `json:"name" validate:"required,min=1,max=100"`
	Type     RoomType `json:"type" validate:"omitempty,oneof=standard premium 4dx imax vip"`
	Rows     int      `json:"rows" validate:"required,min=1,max=26"`
	Columns  int      `json:"columns" validate:"required,min=1,max=20"`
	Location string   `json:"location"`
}

type EditRoomInput struct {
	Name     *string   `json:"name"`
	Type     *RoomType `json:"type" validate:"omitempty,oneof=standard premium 4dx imax vip"`
	Rows     *int      `json:"rows" validate:"omitempty,min=1,max=26"`
	Columns  *int      `json:"columns" validate:"omitempty,min=1,max=20"`
	Location *string   `json:"location"`
}

type RoomStatusInput struct {
	Status string `json:"status" validate:"required,oneof=active maintenance inactive"`
}
