package services

import (
	"encoding/json"
	"testing"

	"roomflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateApplies(t *testing.T) {
	testCases := []struct {
		name       string
		periodDays int
		offsetDays int
		dayIndex   int
		want       bool
	}{
		{"daily applies on day zero", 1, 0, 0, true},
		{"daily applies every day", 1, 0, 5, true},
		{"before offset never applies", 3, 3, 2, false},
		{"day index equal to offset applies", 3, 3, 3, true},
		{"offset plus one period applies", 3, 3, 6, true},
		{"between periods does not apply", 3, 3, 4, false},
		{"weekly on the seventh day", 7, 0, 7, true},
		{"weekly off-cycle", 7, 0, 8, false},
		{"offset daily skips first day", 1, 1, 0, false},
		{"offset daily applies from second day", 1, 1, 1, true},
		{"monthly cadence", 30, 0, 60, true},
		{"zero period treated as daily", 0, 0, 4, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TemplateApplies(tc.periodDays, tc.offsetDays, tc.dayIndex))
		})
	}
}

func TestSnapshot(t *testing.T) {
	templates := []models.ChecklistTemplate{
		{
			Name: "Departure standard",
			Items: []models.ChecklistItem{
				{Text: "Strip beds", SortOrder: 1},
				{Text: "Clean bathroom", SortOrder: 2},
			},
		},
		{
			Name:  "Minibar restock",
			Items: []models.ChecklistItem{{Text: "Restock minibar", SortOrder: 1}},
		},
	}

	raw, err := Snapshot(templates)
	require.NoError(t, err)

	var snapshot models.ChecklistSnapshot
	require.NoError(t, json.Unmarshal(raw, &snapshot))

	require.Len(t, snapshot.Templates, 2)
	assert.Equal(t, "Departure standard", snapshot.Templates[0].Name)
	require.Len(t, snapshot.Templates[0].Items, 2)
	assert.Equal(t, "Strip beds", snapshot.Templates[0].Items[0].Text)
	assert.False(t, snapshot.Templates[0].Items[0].Done)
}

func TestSnapshotEmpty(t *testing.T) {
	raw, err := Snapshot(nil)
	require.NoError(t, err)

	var snapshot models.ChecklistSnapshot
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Empty(t, snapshot.Templates)
}
