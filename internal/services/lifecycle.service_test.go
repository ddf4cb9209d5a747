package services

import (
	"testing"

	"roomflow/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allStatuses := []models.TaskStatus{
		models.TaskUnassigned, models.TaskAssigned, models.TaskInProgress,
		models.TaskWaitingCheck, models.TaskChecking, models.TaskChecked,
		models.TaskCanceled,
	}

	testCases := []struct {
		action  Action
		allowed []models.TaskStatus
	}{
		{ActionAssign, []models.TaskStatus{models.TaskUnassigned}},
		{ActionUnassign, []models.TaskStatus{models.TaskAssigned}},
		{ActionStart, []models.TaskStatus{models.TaskUnassigned, models.TaskAssigned}},
		{ActionComplete, []models.TaskStatus{models.TaskInProgress}},
		{ActionStartCheck, []models.TaskStatus{models.TaskWaitingCheck}},
		{ActionCheck, []models.TaskStatus{models.TaskChecking}},
		{ActionCancel, []models.TaskStatus{
			models.TaskUnassigned, models.TaskAssigned, models.TaskInProgress,
			models.TaskWaitingCheck, models.TaskChecking,
		}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.action), func(t *testing.T) {
			allowed := make(map[models.TaskStatus]bool)
			for _, status := range tc.allowed {
				allowed[status] = true
			}
			for _, status := range allStatuses {
				assert.Equal(t, allowed[status], CanTransition(status, tc.action),
					"status %s action %s", status, tc.action)
			}
		})
	}
}

func TestCanTransitionTerminalStates(t *testing.T) {
	actions := []Action{
		ActionAssign, ActionUnassign, ActionStart, ActionComplete,
		ActionStartCheck, ActionCheck, ActionCancel,
	}

	for _, terminal := range []models.TaskStatus{models.TaskChecked, models.TaskCanceled} {
		for _, action := range actions {
			assert.False(t, CanTransition(terminal, action),
				"terminal status %s must reject %s", terminal, action)
		}
	}
}

func TestCanTransitionUnknownAction(t *testing.T) {
	assert.False(t, CanTransition(models.TaskUnassigned, Action("promote")))
}

func TestCompletionTarget(t *testing.T) {
	stayover := models.CleaningStayover
	publicArea := models.CleaningPublicArea
	departure := models.CleaningDeparture
	deep := models.CleaningDeep

	testCases := []struct {
		name         string
		cleaningType *models.CleaningType
		want         models.TaskStatus
	}{
		{"stayover skips inspection", &stayover, models.TaskChecked},
		{"public area skips inspection", &publicArea, models.TaskChecked},
		{"untyped skips inspection", nil, models.TaskChecked},
		{"departure requires inspection", &departure, models.TaskWaitingCheck},
		{"deep requires inspection", &deep, models.TaskWaitingCheck},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CompletionTarget(tc.cleaningType))
		})
	}
}

func TestCompletionTargetStatus(t *testing.T) {
	roomID := newUUID(t)
	zoneID := newUUID(t)

	stayover := models.CleaningStayover
	departure := models.CleaningDeparture
	publicArea := models.CleaningPublicArea

	t.Run("stayover room returns to occupied", func(t *testing.T) {
		task := &models.Task{RoomID: &roomID, CleaningType: &stayover}
		roomStatus, zoneStatus := completionTargetStatus(task)
		assert.Equal(t, models.RoomOccupied, *roomStatus)
		assert.Nil(t, zoneStatus)
	})

	t.Run("departure room waits for inspection", func(t *testing.T) {
		task := &models.Task{RoomID: &roomID, CleaningType: &departure}
		roomStatus, zoneStatus := completionTargetStatus(task)
		assert.Equal(t, models.RoomWaitingInspection, *roomStatus)
		assert.Nil(t, zoneStatus)
	})

	t.Run("public zone goes clean", func(t *testing.T) {
		task := &models.Task{ZoneID: &zoneID, CleaningType: &publicArea}
		_, zoneStatus := completionTargetStatus(task)
		assert.Equal(t, models.ZoneClean, *zoneStatus)
	})

	t.Run("untyped room goes clean", func(t *testing.T) {
		task := &models.Task{RoomID: &roomID}
		roomStatus, _ := completionTargetStatus(task)
		assert.Equal(t, models.RoomClean, *roomStatus)
	})
}

func TestRushEdge(t *testing.T) {
	assert.True(t, rushEdge(false, true))
	assert.False(t, rushEdge(true, true))
	assert.False(t, rushEdge(false, false))
	assert.False(t, rushEdge(true, false))
}

// Repeating set_rush(true) must announce the rush exactly once: the first
// call flips the flag and fires, the second sees the flag already set.
func TestRushEdgeFiresOnce(t *testing.T) {
	task := &models.Task{IsRush: false}

	emissions := 0
	for range 2 {
		if rushEdge(task.IsRush, true) {
			emissions++
		}
		task.IsRush = true
	}
	assert.Equal(t, 1, emissions)
}

func TestDescribeType(t *testing.T) {
	departure := models.CleaningDeparture
	assert.Equal(t, "departure cleaning", describeType(&departure))

	publicArea := models.CleaningPublicArea
	assert.Equal(t, "public area cleaning", describeType(&publicArea))

	assert.Equal(t, "cleaning", describeType(nil))
}
