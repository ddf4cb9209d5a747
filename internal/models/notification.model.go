package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification is a per-user inbox row. Append-only from the server side;
// only IsRead is mutable, and only by the owning user.
type Notification struct {
	BaseUUIDModel
	UserID           uuid.UUID      `gorm:"type:uuid;index"         json:"userId"`
	User             *User          `                               json:"-"`
	Title            string         `gorm:"type:text"               json:"title"`
	Body             string         `gorm:"type:text"               json:"body"`
	NotificationType string         `gorm:"type:text;index"         json:"notificationType"`
	Data             datatypes.JSON `gorm:"type:jsonb"              json:"data,omitempty"`
	IsRead           bool           `gorm:"type:bool;default:false;index" json:"isRead"`
}

type MarkReadRequest struct {
	// IDs marks specific notifications; empty with All=false marks nothing.
	IDs []uuid.UUID `json:"ids"`
	All bool        `json:"all"`
}
