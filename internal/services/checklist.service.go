package services

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"roomflow/internal/clock"
	"roomflow/internal/models"
	"roomflow/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// publicAreaEpoch anchors the day index for PUBLIC_AREA templates, which
// repeat relative to the calendar rather than any stay.
var publicAreaEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// ChecklistService selects the templates applicable to a task and freezes
// them into the task's checklist snapshot.
type ChecklistService struct {
	templateRepo repositories.ChecklistTemplateRepository
	clock        clock.Clock
	log          logger.Logger
}

func NewChecklistService(
	templateRepo repositories.ChecklistTemplateRepository,
	clk clock.Clock,
) *ChecklistService {
	return &ChecklistService{
		templateRepo: templateRepo,
		clock:        clk,
		log:          logger.New("ChecklistService"),
	}
}

// Resolve returns the templates applying to (cleaningType, scheduledDate,
// booking), sorted by name. booking may be nil for non-stay tasks.
func (s *ChecklistService) Resolve(
	ctx context.Context,
	tx *gorm.DB,
	cleaningType models.CleaningType,
	scheduledDate time.Time,
	booking *models.Booking,
) ([]models.ChecklistTemplate, error) {
	log := s.log.Function("Resolve")

	candidates, err := s.templateRepo.ListByCleaningType(ctx, tx, cleaningType)
	if err != nil {
		return nil, log.Err("failed to load candidate templates", err, "cleaningType", cleaningType)
	}

	dayIndex := s.dayIndex(cleaningType, scheduledDate, booking)

	var matched []models.ChecklistTemplate
	for _, template := range candidates {
		if TemplateApplies(template.PeriodDays, template.OffsetDays, dayIndex) {
			matched = append(matched, *template)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})

	return matched, nil
}

func (s *ChecklistService) dayIndex(
	cleaningType models.CleaningType,
	scheduledDate time.Time,
	booking *models.Booking,
) int {
	loc := s.clock.Location()

	switch cleaningType {
	case models.CleaningStayover:
		if booking == nil {
			return 0
		}
		return clock.DaysBetween(booking.CheckIn, scheduledDate, loc)
	case models.CleaningPublicArea:
		return clock.DaysBetween(publicAreaEpoch, scheduledDate, loc)
	default:
		return 0
	}
}

// TemplateApplies implements the periodicity rule: a template matches when
// the day index has reached its offset and lands on its period grid.
func TemplateApplies(periodDays, offsetDays, dayIndex int) bool {
	if periodDays <= 0 {
		periodDays = 1
	}
	if dayIndex < offsetDays {
		return false
	}
	return (dayIndex-offsetDays)%periodDays == 0
}

// Snapshot freezes templates into the JSON stored on the task. Later edits
// to the templates never reach tasks created before the edit.
func Snapshot(templates []models.ChecklistTemplate) (datatypes.JSON, error) {
	snapshot := models.ChecklistSnapshot{}

	for _, template := range templates {
		st := models.ChecklistSnapshotTemplate{
			TemplateID: template.ID.String(),
			Name:       template.Name,
		}
		for _, item := range template.Items {
			st.Items = append(st.Items, models.ChecklistSnapshotItem{
				Text:      item.Text,
				SortOrder: item.SortOrder,
			})
		}
		snapshot.Templates = append(snapshot.Templates, st)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(data), nil
}
