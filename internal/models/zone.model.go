package models

type ZoneStatus string

const (
	ZoneDirty      ZoneStatus = "DIRTY"
	ZoneInProgress ZoneStatus = "IN_PROGRESS"
	ZoneClean      ZoneStatus = "CLEAN"
)

// Zone is a public area (lobby, corridor, pool deck). Like Room.Status, the
// status field is written only by the lifecycle service.
type Zone struct {
	BaseUUIDModel
	Name   string     `gorm:"type:text;uniqueIndex"    json:"name"`
	Status ZoneStatus `gorm:"type:text;default:'DIRTY'" json:"status"`
}
