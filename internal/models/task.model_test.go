package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTaskValidateTarget(t *testing.T) {
	roomID := uuid.New()
	zoneID := uuid.New()
	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		roomID  *uuid.UUID
		zoneID  *uuid.UUID
		wantErr error
	}{
		{"room only is valid", &roomID, nil, nil},
		{"zone only is valid", nil, &zoneID, nil},
		{"both targets rejected", &roomID, &zoneID, ErrTaskTarget},
		{"no target rejected", nil, nil, ErrTaskTarget},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			task := &Task{RoomID: tc.roomID, ZoneID: tc.zoneID, ScheduledDate: date}
			err := task.Validate()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaskValidateDueTime(t *testing.T) {
	roomID := uuid.New()
	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	t.Run("due time on the scheduled day is valid", func(t *testing.T) {
		due := date.Add(14 * time.Hour)
		task := &Task{RoomID: &roomID, ScheduledDate: date, DueTime: &due}
		assert.NoError(t, task.Validate())
	})

	t.Run("due time on another day is rejected", func(t *testing.T) {
		due := date.AddDate(0, 0, 1).Add(10 * time.Hour)
		task := &Task{RoomID: &roomID, ScheduledDate: date, DueTime: &due}
		assert.ErrorIs(t, task.Validate(), ErrTaskDueDate)
	})

	t.Run("nil due time is valid", func(t *testing.T) {
		task := &Task{RoomID: &roomID, ScheduledDate: date}
		assert.NoError(t, task.Validate())
	})
}

func TestRequiresInspection(t *testing.T) {
	testCases := []struct {
		cleaningType CleaningType
		want         bool
	}{
		{CleaningStayover, false},
		{CleaningPublicArea, false},
		{CleaningDeparture, true},
		{CleaningDeep, true},
		{CleaningOnDemand, true},
		{CleaningPostRenovation, true},
		{CleaningPreArrival, true},
	}

	for _, tc := range testCases {
		t.Run(string(tc.cleaningType), func(t *testing.T) {
			cleaningType := tc.cleaningType
			assert.Equal(t, tc.want, (&cleaningType).RequiresInspection())
		})
	}

	var untyped *CleaningType
	assert.False(t, untyped.RequiresInspection())
}

func TestTaskStatusTerminal(t *testing.T) {
	assert.True(t, TaskChecked.Terminal())
	assert.True(t, TaskCanceled.Terminal())

	for _, status := range []TaskStatus{
		TaskUnassigned, TaskAssigned, TaskInProgress, TaskWaitingCheck, TaskChecking,
	} {
		assert.False(t, status.Terminal(), "status %s", status)
	}
}

func TestRoleCanSupervise(t *testing.T) {
	assert.True(t, RoleAdmin.CanSupervise())
	assert.True(t, RoleManager.CanSupervise())
	assert.True(t, RoleFrontDesk.CanSupervise())
	assert.False(t, RoleHousekeeper.CanSupervise())
}
