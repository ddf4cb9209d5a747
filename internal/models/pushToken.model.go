package models

import (
	"time"

	"github.com/google/uuid"
)

// PushToken binds an opaque provider token to a user. Tokens are unique
// system-wide: when a token re-registers under a different user the old
// binding is replaced, never duplicated.
type PushToken struct {
	BaseUUIDModel
	UserID           uuid.UUID `gorm:"type:uuid;index"       json:"userId"`
	User             *User     `                             json:"-"`
	Token            string    `gorm:"type:text;uniqueIndex" json:"token"`
	Platform         string    `gorm:"type:text"             json:"platform"`
	LastRegisteredAt time.Time `gorm:"type:timestamptz"      json:"lastRegisteredAt"`
}

type RegisterPushTokenRequest struct {
	Token    string `json:"token"    validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android"`
}
