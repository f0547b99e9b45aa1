package albjbot

import (
	"context"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
)

func TestApplyCheckIn(t *testing.T) {
	t.Parallel()

	day := func(s string) time.Time {
		d, err := time.Parse(checkInDateLayout, s)
		require.NoError(t, err)
		return d.Add(15 * time.Hour)
	}

	tests := []struct {
		name        string
		rec         CheckIn
		today       time.Time
		wantOutcome CheckInOutcome
		wantStreak  int
		wantPoints  int
		wantGap     int
	}{
		{
			name:        "first",
			rec:         CheckIn{UserID: "u1"},
			today:       day("2025-06-01"),
			wantOutcome: CheckInFirst,
			wantStreak:  1,
			wantPoints:  10,
			wantGap:     0,
		},
		{
			name:        "next day",
			rec:         CheckIn{UserID: "u1", LastCheckIn: "2025-06-01", Streak: 1, TotalPoints: 10},
			today:       day("2025-06-02"),
			wantOutcome: CheckInContinued,
			wantStreak:  2,
			wantPoints:  15,
			wantGap:     1,
		},
		{
			name:        "same day",
			rec:         CheckIn{UserID: "u1", LastCheckIn: "2025-06-02", Streak: 2, TotalPoints: 15},
			today:       day("2025-06-02"),
			wantOutcome: CheckInContinued,
			wantStreak:  3,
			wantPoints:  20,
			wantGap:     0,
		},
		{
			name:        "month boundary",
			rec:         CheckIn{UserID: "u1", LastCheckIn: "2025-05-31", Streak: 4, TotalPoints: 25},
			today:       day("2025-06-01"),
			wantOutcome: CheckInContinued,
			wantStreak:  5,
			wantPoints:  30,
			wantGap:     1,
		},
		{
			name:        "missed a day",
			rec:         CheckIn{UserID: "u1", LastCheckIn: "2025-06-01", Streak: 7, TotalPoints: 40},
			today:       day("2025-06-03"),
			wantOutcome: CheckInReset,
			wantStreak:  1,
			wantPoints:  40,
			wantGap:     2,
		},
		{
			name:        "clock went backwards",
			rec:         CheckIn{UserID: "u1", LastCheckIn: "2025-06-05", Streak: 3, TotalPoints: 20},
			today:       day("2025-06-04"),
			wantOutcome: CheckInContinued,
			wantStreak:  4,
			wantPoints:  25,
			wantGap:     -1,
		},
	}

	for _, tc := range tests {
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()
				got, outcome, gap, err := applyCheckIn(tc.rec, tc.today)
				require.NoError(t, err)
				assert.Equal(t, tc.wantOutcome, outcome)
				assert.Equal(t, tc.wantStreak, got.Streak)
				assert.Equal(t, tc.wantPoints, got.TotalPoints)
				assert.Equal(t, tc.wantGap, gap)
				assert.Equal(t, calendarDay(tc.today).Format(checkInDateLayout), got.LastCheckIn)
				assert.Equal(t, tc.rec.UserID, got.UserID)
			},
		)
	}
}

func TestApplyCheckInInvalidDate(t *testing.T) {
	t.Parallel()
	rec := CheckIn{UserID: "u1", LastCheckIn: "June 1st", Streak: 2}
	got, _, _, err := applyCheckIn(rec, time.Now())
	require.Error(t, err)
	assert.Equal(t, rec, got)
}

func TestApplyCheckInPointsNeverDecrease(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	rec := CheckIn{UserID: "u1"}
	now := start
	gaps := []int{0, 1, 1, 3, 0, 1, 10, 1, 2, 1}
	for i, g := range gaps {
		now = now.AddDate(0, 0, g)
		prev := rec
		var err error
		rec, _, _, err = applyCheckIn(rec, now)
		require.NoError(t, err)
		assert.GreaterOrEqualf(t, rec.TotalPoints, prev.TotalPoints, "check-in %d", i)
		assert.GreaterOrEqualf(t, rec.Streak, 1, "check-in %d", i)
	}
}

func TestCalendarDay(t *testing.T) {
	t.Parallel()
	mexico, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	// 2025-06-02 03:00 UTC is still June 1st in Mexico City
	instant := time.Date(2025, time.June, 2, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-02", calendarDay(instant).Format(checkInDateLayout))
	assert.Equal(t, "2025-06-01", calendarDay(instant.In(mexico)).Format(checkInDateLayout))
}

func TestRecordCheckIn(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	userID := "user_" + t.Name()

	start := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	steps := []struct {
		offset      int
		wantOutcome CheckInOutcome
		wantStreak  int
		wantPoints  int
	}{
		{0, CheckInFirst, 1, 10},
		{1, CheckInContinued, 2, 15},
		{1, CheckInContinued, 3, 20},
		{0, CheckInContinued, 4, 25},
		{3, CheckInReset, 1, 25},
		{1, CheckInContinued, 2, 30},
	}

	now := start
	for i, step := range steps {
		now = now.AddDate(0, 0, step.offset)
		res, err := db.RecordCheckIn(ctx, userID, now)
		require.NoErrorf(t, err, "step %d", i)
		assert.Equalf(t, step.wantOutcome, res.Outcome, "step %d", i)
		assert.Equalf(t, step.wantStreak, res.Streak, "step %d", i)
		assert.Equalf(t, step.wantPoints, res.TotalPoints, "step %d", i)

		stored, err := db.GetCheckIn(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, res.Streak, stored.Streak)
		assert.Equal(t, res.TotalPoints, stored.TotalPoints)
		assert.Equal(t, now.Format(checkInDateLayout), stored.LastCheckIn)
	}
}

func TestRecordCheckInRequiresUser(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	_, err := db.RecordCheckIn(context.Background(), "", time.Now())
	assert.Error(t, err)
}

func TestRecordCheckInConcurrent(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	userID := "user_" + t.Name()
	today := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := db.RecordCheckIn(ctx, userID, today)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	rec, err := db.GetCheckIn(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, workers, rec.Streak)
	assert.Equal(t, firstCheckInPoints+streakCheckInPoints*(workers-1), rec.TotalPoints)

	var count int64
	require.NoError(t, db.DB().Model(&CheckIn{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetCheckInUnknownUser(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	rec, err := db.GetCheckIn(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestNotificationPreferences(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	userID := "user_" + t.Name()

	pref, err := db.GetNotificationPreference(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, pref.UserID)
	for _, k := range notificationKinds {
		assert.Falsef(t, pref.Enabled(k), "%s should default to off", k)
	}

	pref, err = db.ToggleNotification(ctx, userID, NotifyDailyUpdates)
	require.NoError(t, err)
	assert.True(t, pref.DailyUpdates)
	assert.False(t, pref.PriceAlerts)
	assert.False(t, pref.EventReminders)

	pref, err = db.GetNotificationPreference(ctx, userID)
	require.NoError(t, err)
	assert.True(t, pref.DailyUpdates)

	pref, err = db.ToggleNotification(ctx, userID, NotifyDailyUpdates)
	require.NoError(t, err)
	assert.False(t, pref.DailyUpdates)

	pref, err = db.ToggleNotification(ctx, userID, NotifyEventReminders)
	require.NoError(t, err)
	assert.True(t, pref.EventReminders)
	assert.False(t, pref.DailyUpdates)
}

func TestToggleNotificationUnknownKind(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	_, err := db.ToggleNotification(context.Background(), "u1", NotificationKind("whale_alerts"))
	assert.ErrorContains(t, err, "unknown notification kind")

	_, err = db.NotificationSubscribers(context.Background(), NotificationKind("whale_alerts"))
	assert.Error(t, err)
}

func TestNotificationSubscribers(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		userID := fmt.Sprintf("user_%d", i)
		if i%2 == 0 {
			_, err := db.ToggleNotification(ctx, userID, NotifyDailyUpdates)
			require.NoError(t, err)
		} else {
			_, err := db.ToggleNotification(ctx, userID, NotifyPriceAlerts)
			require.NoError(t, err)
		}
	}

	ids, err := db.NotificationSubscribers(ctx, NotifyDailyUpdates)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_0", "user_2", "user_4"}, ids)

	ids, err = db.NotificationSubscribers(ctx, NotifyPriceAlerts)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_1", "user_3"}, ids)

	ids, err = db.NotificationSubscribers(ctx, NotifyEventReminders)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestNotificationKind(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "toggle_daily_updates", NotifyDailyUpdates.CustomID())
	assert.Equal(t, "Price Alerts", NotifyPriceAlerts.Label())

	k, ok := parseNotificationKind("event_reminders")
	assert.True(t, ok)
	assert.Equal(t, NotifyEventReminders, k)

	_, ok = parseNotificationKind("toggle_event_reminders")
	assert.False(t, ok)
}
