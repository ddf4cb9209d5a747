package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingReserved   BookingStatus = "RESERVED"
	BookingInProgress BookingStatus = "IN_PROGRESS"
	BookingCheckedOut BookingStatus = "CHECKED_OUT"
	BookingCanceled   BookingStatus = "CANCELED"
)

type Booking struct {
	BaseUUIDModel
	RoomID     *uuid.UUID    `gorm:"type:uuid;index"              json:"roomId,omitempty"`
	Room       *Room         `                                    json:"room,omitempty"`
	CheckIn    time.Time     `gorm:"type:timestamptz;index"       json:"checkIn"`
	CheckOut   time.Time     `gorm:"type:timestamptz;index"       json:"checkOut"`
	GuestCount int           `gorm:"type:int"                     json:"guestCount"`
	Status     BookingStatus `gorm:"type:text;default:'RESERVED'" json:"status"`
}

type CreateBookingRequest struct {
	RoomID     uuid.UUID `json:"roomId"     validate:"required"`
	CheckIn    time.Time `json:"checkIn"    validate:"required"`
	CheckOut   time.Time `json:"checkOut"   validate:"required"`
	GuestCount int       `json:"guestCount" validate:"required,min=1"`
}
