package services

import (
	"testing"
	"time"

	"roomflow/internal/apperrors"
	"roomflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unassignedTask(t *testing.T, scheduled time.Time) *models.Task {
	t.Helper()
	roomID := newUUID(t)
	task := &models.Task{
		RoomID:        &roomID,
		Status:        models.TaskUnassigned,
		ScheduledDate: scheduled,
	}
	task.ID = newUUID(t)
	return task
}

func TestValidateBatch(t *testing.T) {
	loc := time.UTC
	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, loc)

	t.Run("accepts tasks on the requested date", func(t *testing.T) {
		tasks := []*models.Task{
			unassignedTask(t, date),
			unassignedTask(t, date.Add(10*time.Hour)),
		}
		assert.NoError(t, ValidateBatch(tasks, date, loc))
	})

	t.Run("rejects a task scheduled on another day", func(t *testing.T) {
		tasks := []*models.Task{
			unassignedTask(t, date),
			unassignedTask(t, date.AddDate(0, 0, 1)),
		}
		err := ValidateBatch(tasks, date, loc)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("rejects a batch uniformly on the wrong date", func(t *testing.T) {
		wrong := date.AddDate(0, 0, 1)
		tasks := []*models.Task{
			unassignedTask(t, wrong),
			unassignedTask(t, wrong),
		}
		err := ValidateBatch(tasks, date, loc)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("rejects a task that already left UNASSIGNED", func(t *testing.T) {
		assigned := unassignedTask(t, date)
		assigned.Status = models.TaskAssigned
		err := ValidateBatch([]*models.Task{unassignedTask(t, date), assigned}, date, loc)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindIllegalTransition, apperrors.KindOf(err))
	})
}
