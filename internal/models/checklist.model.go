package models

import "github.com/google/uuid"

// ChecklistTemplate is the periodicity-aware template store. Tasks reference
// templates two ways: an M:N association for querying, and a frozen JSON
// snapshot taken at task creation so later template edits never change
// historical tasks.
type ChecklistTemplate struct {
	BaseUUIDModel
	Name         string       `gorm:"type:text;uniqueIndex" json:"name"`
	CleaningType CleaningType `gorm:"type:text;index"       json:"cleaningType"`
	// PeriodDays is the day-gap between applications: 1, 2, 3, 4, 7 or 30.
	PeriodDays int `gorm:"type:int;default:1" json:"periodDays"`
	// OffsetDays delays the first application relative to stay start.
	OffsetDays int             `gorm:"type:int;default:0"          json:"offsetDays"`
	Items      []ChecklistItem `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"items"`
}

type ChecklistItem struct {
	BaseModel
	TemplateID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_checklist_items_template_order" json:"templateId"`
	Text       string    `gorm:"type:text"                                                json:"text"`
	SortOrder  int       `gorm:"type:int;uniqueIndex:idx_checklist_items_template_order"  json:"sortOrder"`
}

// ChecklistSnapshot is the shape frozen into Task.ChecklistData.
type ChecklistSnapshot struct {
	Templates []ChecklistSnapshotTemplate `json:"templates"`
}

type ChecklistSnapshotTemplate struct {
	TemplateID string                  `json:"templateId"`
	Name       string                  `json:"name"`
	Items      []ChecklistSnapshotItem `json:"items"`
}

type ChecklistSnapshotItem struct {
	Text      string `json:"text"`
	SortOrder int    `json:"sortOrder"`
	Done      bool   `json:"done"`
}
