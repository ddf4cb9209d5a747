package services

import (
	"testing"
	"time"

	"roomflow/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booking(roomID uuid.UUID, checkIn, checkOut time.Time, guests int) *models.Booking {
	b := &models.Booking{
		RoomID:     &roomID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		GuestCount: guests,
		Status:     models.BookingReserved,
	}
	b.ID = uuid.New()
	return b
}

func TestPlanForDate(t *testing.T) {
	loc := mustLocation(t, "Europe/Berlin")
	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, loc)

	roomA := newUUID(t)
	roomB := newUUID(t)
	roomC := newUUID(t)

	checkout := booking(roomA, date.AddDate(0, 0, -3).Add(15*time.Hour), date.Add(10*time.Hour), 2)
	stayover := booking(roomB, date.AddDate(0, 0, -1).Add(15*time.Hour), date.AddDate(0, 0, 2).Add(10*time.Hour), 1)
	bigParty := booking(roomC, date.Add(16*time.Hour), date.AddDate(0, 0, 4).Add(10*time.Hour), 4)
	smallParty := booking(roomA, date.Add(12*time.Hour), date.AddDate(0, 0, 2).Add(10*time.Hour), 2)

	lobby := &models.Zone{Name: "Lobby"}
	lobby.ID = newUUID(t)
	pool := &models.Zone{Name: "Pool"}
	pool.ID = newUUID(t)

	plans := PlanForDate(date, loc,
		[]*models.Booking{checkout},
		[]*models.Booking{stayover},
		[]*models.Booking{bigParty, smallParty},
		[]*models.Zone{lobby, pool},
		14, 2)

	byType := make(map[models.CleaningType][]TaskPlan)
	for _, plan := range plans {
		byType[plan.CleaningType] = append(byType[plan.CleaningType], plan)
	}

	require.Len(t, byType[models.CleaningDeparture], 1)
	require.Len(t, byType[models.CleaningStayover], 1)
	require.Len(t, byType[models.CleaningPreArrival], 1)
	require.Len(t, byType[models.CleaningPublicArea], 2)

	departure := byType[models.CleaningDeparture][0]
	assert.Equal(t, roomA, *departure.RoomID)
	assert.Equal(t, checkout.ID, *departure.BookingID)
	// Same-day arrival at 12:00 beats the 14:00 default.
	require.NotNil(t, departure.DueTime)
	assert.Equal(t, 12, departure.DueTime.In(loc).Hour())

	preArrival := byType[models.CleaningPreArrival][0]
	assert.Equal(t, roomC, *preArrival.RoomID)
	assert.Equal(t, bigParty.ID, *preArrival.BookingID)
	require.NotNil(t, preArrival.DueTime)
	assert.Equal(t, 14, preArrival.DueTime.In(loc).Hour())
	assert.Equal(t, "4 guests arriving", preArrival.Notes)

	assert.Nil(t, byType[models.CleaningStayover][0].DueTime)
	assert.Nil(t, byType[models.CleaningPublicArea][0].DueTime)
}

func TestPlanForDateGuestThresholdBoundary(t *testing.T) {
	loc := time.UTC
	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, loc)
	roomID := newUUID(t)

	// Exactly at the threshold: no pre-arrival task.
	atThreshold := booking(roomID, date.Add(15*time.Hour), date.AddDate(0, 0, 2), 2)
	plans := PlanForDate(date, loc, nil, nil, []*models.Booking{atThreshold}, nil, 14, 2)
	for _, plan := range plans {
		assert.NotEqual(t, models.CleaningPreArrival, plan.CleaningType)
	}

	// One above: pre-arrival task planned.
	above := booking(roomID, date.Add(15*time.Hour), date.AddDate(0, 0, 2), 3)
	plans = PlanForDate(date, loc, nil, nil, []*models.Booking{above}, nil, 14, 2)
	require.Len(t, plans, 1)
	assert.Equal(t, models.CleaningPreArrival, plans[0].CleaningType)
}

func TestDepartureDue(t *testing.T) {
	loc := time.UTC
	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, loc)
	roomID := newUUID(t)

	t.Run("defaults to the configured hour", func(t *testing.T) {
		due := DepartureDue(date, loc, 14, nil)
		assert.Equal(t, 14, due.Hour())
		assert.Equal(t, date.Day(), due.Day())
	})

	t.Run("early same-day arrival pulls the deadline forward", func(t *testing.T) {
		arrival := booking(roomID, date.Add(11*time.Hour), date.AddDate(0, 0, 3), 1)
		due := DepartureDue(date, loc, 14, []*models.Booking{arrival})
		assert.Equal(t, 11, due.Hour())
	})

	t.Run("late same-day arrival keeps the default", func(t *testing.T) {
		arrival := booking(roomID, date.Add(18*time.Hour), date.AddDate(0, 0, 3), 1)
		due := DepartureDue(date, loc, 14, []*models.Booking{arrival})
		assert.Equal(t, 14, due.Hour())
	})

	t.Run("next-day arrival keeps the default", func(t *testing.T) {
		arrival := booking(roomID, date.AddDate(0, 0, 1).Add(9*time.Hour), date.AddDate(0, 0, 4), 1)
		due := DepartureDue(date, loc, 14, []*models.Booking{arrival})
		assert.Equal(t, 14, due.Hour())
		assert.Equal(t, date.Day(), due.Day())
	})
}

func TestFilterExisting(t *testing.T) {
	roomID := newUUID(t)
	zoneID := newUUID(t)
	bookingID := newUUID(t)

	departure := models.CleaningDeparture
	publicArea := models.CleaningPublicArea

	plans := []TaskPlan{
		{CleaningType: departure, RoomID: &roomID, BookingID: &bookingID},
		{CleaningType: publicArea, ZoneID: &zoneID},
	}

	t.Run("nothing on file creates everything", func(t *testing.T) {
		fresh, skipped := FilterExisting(plans, nil)
		assert.Len(t, fresh, 2)
		assert.Zero(t, skipped)
	})

	t.Run("existing tasks are skipped regardless of status", func(t *testing.T) {
		existing := []*models.Task{
			{CleaningType: &departure, RoomID: &roomID, BookingID: &bookingID, Status: models.TaskCanceled},
		}
		fresh, skipped := FilterExisting(plans, existing)
		require.Len(t, fresh, 1)
		assert.Equal(t, publicArea, fresh[0].CleaningType)
		assert.Equal(t, 1, skipped)
	})

	t.Run("rerun over its own output creates nothing", func(t *testing.T) {
		fresh, _ := FilterExisting(plans, nil)

		var created []*models.Task
		for i := range fresh {
			cleaningType := fresh[i].CleaningType
			created = append(created, &models.Task{
				CleaningType: &cleaningType,
				RoomID:       fresh[i].RoomID,
				ZoneID:       fresh[i].ZoneID,
				BookingID:    fresh[i].BookingID,
			})
		}

		again, skipped := FilterExisting(plans, created)
		assert.Empty(t, again)
		assert.Equal(t, len(plans), skipped)
	})

	t.Run("duplicate plans collapse within one run", func(t *testing.T) {
		doubled := append([]TaskPlan{}, plans...)
		doubled = append(doubled, plans...)
		fresh, skipped := FilterExisting(doubled, nil)
		assert.Len(t, fresh, 2)
		assert.Equal(t, 2, skipped)
	})
}
