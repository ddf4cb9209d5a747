package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskUnassigned   TaskStatus = "UNASSIGNED"
	TaskAssigned     TaskStatus = "ASSIGNED"
	TaskInProgress   TaskStatus = "IN_PROGRESS"
	TaskWaitingCheck TaskStatus = "WAITING_CHECK"
	TaskChecking     TaskStatus = "CHECKING"
	TaskChecked      TaskStatus = "CHECKED"
	TaskCanceled     TaskStatus = "CANCELED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskUnassigned, TaskAssigned, TaskInProgress, TaskWaitingCheck,
		TaskChecking, TaskChecked, TaskCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is accepted from s.
func (s TaskStatus) Terminal() bool {
	return s == TaskChecked || s == TaskCanceled
}

type CleaningType string

const (
	CleaningStayover       CleaningType = "STAYOVER"
	CleaningDeparture      CleaningType = "DEPARTURE"
	CleaningDeep           CleaningType = "DEEP"
	CleaningOnDemand       CleaningType = "ON_DEMAND"
	CleaningPostRenovation CleaningType = "POST_RENOVATION"
	CleaningPublicArea     CleaningType = "PUBLIC_AREA"
	CleaningPreArrival     CleaningType = "PRE_ARRIVAL"
)

// RequiresInspection reports whether completing a task of this type must go
// through the waiting-check/checking path. Stayover and public-area cleans
// (and untyped tasks) complete directly.
func (t *CleaningType) RequiresInspection() bool {
	if t == nil {
		return false
	}
	return *t != CleaningStayover && *t != CleaningPublicArea
}

// Task is the unit of housekeeping work. Status, the five timestamps, and
// the derived Room/Zone status are written only by the lifecycle service.
type Task struct {
	BaseUUIDModel
	RoomID *uuid.UUID `gorm:"type:uuid;index" json:"roomId,omitempty"`
	Room   *Room      `                       json:"room,omitempty"`
	ZoneID *uuid.UUID `gorm:"type:uuid;index" json:"zoneId,omitempty"`
	Zone   *Zone      `                       json:"zone,omitempty"`

	CleaningType  *CleaningType `gorm:"type:text;index"                 json:"cleaningType,omitempty"`
	Status        TaskStatus    `gorm:"type:text;default:'UNASSIGNED';index" json:"status"`
	ScheduledDate time.Time     `gorm:"type:date;index"                 json:"scheduledDate"`
	DueTime       *time.Time    `gorm:"type:timestamptz;index"          json:"dueTime,omitempty"`

	BookingID *uuid.UUID `gorm:"type:uuid;index" json:"bookingId,omitempty"`
	Booking   *Booking   `                       json:"booking,omitempty"`

	AssignedHousekeeperID *uuid.UUID `gorm:"type:uuid;index" json:"assignedHousekeeperId,omitempty"`
	AssignedHousekeeper   *User      `                       json:"assignedHousekeeper,omitempty"`
	AssigningUserID       *uuid.UUID `gorm:"type:uuid"       json:"assigningUserId,omitempty"`
	CheckingUserID        *uuid.UUID `gorm:"type:uuid"       json:"checkingUserId,omitempty"`

	AssignedAt        *time.Time `gorm:"type:timestamptz" json:"assignedAt,omitempty"`
	StartedAt         *time.Time `gorm:"type:timestamptz" json:"startedAt,omitempty"`
	CompletedAt       *time.Time `gorm:"type:timestamptz" json:"completedAt,omitempty"`
	CheckingStartedAt *time.Time `gorm:"type:timestamptz" json:"checkingStartedAt,omitempty"`
	CheckedAt         *time.Time `gorm:"type:timestamptz" json:"checkedAt,omitempty"`

	IsRush bool   `gorm:"type:bool;default:false" json:"isRush"`
	Notes  string `gorm:"type:text"               json:"notes"`

	// ChecklistData is frozen at creation time; template edits never reach it.
	ChecklistData datatypes.JSON `gorm:"type:jsonb" json:"checklistData,omitempty"`

	ChecklistTemplates []ChecklistTemplate `gorm:"many2many:task_checklist_templates" json:"-"`
}

// Validate enforces the structural invariants: exactly one of room/zone, and
// scheduled date agreement with the due time's calendar day when both are
// present (compared in the due time's own location).
func (t *Task) Validate() error {
	if (t.RoomID == nil) == (t.ZoneID == nil) {
		return ErrTaskTarget
	}
	if t.DueTime != nil && !t.ScheduledDate.IsZero() {
		due := *t.DueTime
		if due.Year() != t.ScheduledDate.Year() ||
			due.YearDay() != t.ScheduledDate.YearDay() {
			return ErrTaskDueDate
		}
	}
	return nil
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	return t.Validate()
}

// TargetLabel names the task's room or zone for notification bodies.
func (t *Task) TargetLabel() string {
	if t.Room != nil {
		return "room " + t.Room.Number
	}
	if t.Zone != nil {
		return t.Zone.Name
	}
	return "unknown target"
}

// TaskSummary is the list projection returned by the API and the generator.
type TaskSummary struct {
	ID            uuid.UUID     `json:"id"`
	CleaningType  *CleaningType `json:"cleaningType,omitempty"`
	Status        TaskStatus    `json:"status"`
	ScheduledDate time.Time     `json:"scheduledDate"`
	DueTime       *time.Time    `json:"dueTime,omitempty"`
	RoomNumber    string        `json:"roomNumber,omitempty"`
	ZoneName      string        `json:"zoneName,omitempty"`
	IsRush        bool          `json:"isRush"`
}

func (t *Task) ToSummary() TaskSummary {
	s := TaskSummary{
		ID:            t.ID,
		CleaningType:  t.CleaningType,
		Status:        t.Status,
		ScheduledDate: t.ScheduledDate,
		DueTime:       t.DueTime,
		IsRush:        t.IsRush,
	}
	if t.Room != nil {
		s.RoomNumber = t.Room.Number
	}
	if t.Zone != nil {
		s.ZoneName = t.Zone.Name
	}
	return s
}
