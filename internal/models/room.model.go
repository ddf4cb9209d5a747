package models

import "github.com/google/uuid"

type RoomStatus string

const (
	RoomFree              RoomStatus = "FREE"
	RoomOccupied          RoomStatus = "OCCUPIED"
	RoomInProgress        RoomStatus = "IN_PROGRESS"
	RoomDirty             RoomStatus = "DIRTY"
	RoomWaitingInspection RoomStatus = "WAITING_INSPECTION"
	RoomClean             RoomStatus = "CLEAN"
)

type RoomType struct {
	BaseUUIDModel
	Name     string `gorm:"type:text;uniqueIndex" json:"name"`
	Capacity int    `gorm:"type:int"              json:"capacity"`
}

// Room.Status is a projection driven by task and booking transitions. Only
// the lifecycle service writes it.
type Room struct {
	BaseUUIDModel
	Number     string     `gorm:"type:text;uniqueIndex"       json:"number"`
	Floor      int        `gorm:"type:int"                    json:"floor"`
	RoomTypeID *uuid.UUID `gorm:"type:uuid"                   json:"roomTypeId,omitempty"`
	RoomType   *RoomType  `                                   json:"roomType,omitempty"`
	Status     RoomStatus `gorm:"type:text;default:'FREE'"    json:"status"`
}
