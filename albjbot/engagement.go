package albjbot

import (
	"context"
	"errors"
	"fmt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

const (
	checkInDateLayout    = "2006-01-02"
	firstCheckInPoints   = 10
	streakCheckInPoints  = 5
	columnUserID         = "user_id"
	columnDailyUpdates   = "daily_updates"
	columnPriceAlerts    = "price_alerts"
	columnEventReminders = "event_reminders"
)

// CheckInOutcome describes how a check-in changed a user's streak
type CheckInOutcome string

const (
	CheckInFirst     CheckInOutcome = "first"
	CheckInContinued CheckInOutcome = "continued"
	CheckInReset     CheckInOutcome = "reset"
)

// CheckIn is a user's daily check-in streak and point total
type CheckIn struct {
	UserID      string `gorm:"primaryKey;column:user_id" json:"user_id"`
	LastCheckIn string `gorm:"column:last_checkin;type:varchar(10)" json:"last_checkin"`
	Streak      int    `gorm:"column:streak;not null;default:0" json:"streak"`
	TotalPoints int    `gorm:"column:total_points;not null;default:0" json:"total_points"`
	ModelUnixTime
}

func (CheckIn) TableName() string {
	return "user_checkins"
}

// CheckInResult is the saved record plus what the check-in did to it
type CheckInResult struct {
	CheckIn
	Outcome CheckInOutcome `json:"outcome"`
	Gap     int            `json:"gap"`
}

// calendarDay returns the calendar date of t, in t's location, as
// midnight UTC
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// applyCheckIn applies the streak rule to rec for a check-in on today.
//
// A record with no previous check-in gets streak 1 and the first
// check-in bonus. Otherwise, a gap of at most one calendar day
// continues the streak and adds points, and a longer gap resets the
// streak to 1 and leaves points unchanged.
//
// The returned gap is in whole calendar days (0 for a first check-in).
func applyCheckIn(rec CheckIn, today time.Time) (CheckIn, CheckInOutcome, int, error) {
	todayDate := calendarDay(today)

	if rec.LastCheckIn == "" {
		rec.LastCheckIn = todayDate.Format(checkInDateLayout)
		rec.Streak = 1
		rec.TotalPoints += firstCheckInPoints
		return rec, CheckInFirst, 0, nil
	}

	last, err := time.Parse(checkInDateLayout, rec.LastCheckIn)
	if err != nil {
		return rec, "", 0, fmt.Errorf(
			"invalid last check-in date %q: %w",
			rec.LastCheckIn,
			err,
		)
	}
	gap := int(todayDate.Sub(last).Hours() / 24)

	rec.LastCheckIn = todayDate.Format(checkInDateLayout)
	if gap <= 1 {
		rec.Streak++
		rec.TotalPoints += streakCheckInPoints
		return rec, CheckInContinued, gap, nil
	}
	rec.Streak = 1
	return rec, CheckInReset, gap, nil
}

// RecordCheckIn checks the user in for today's date.
//
// The row is created if missing, then read under a row lock (postgres)
// or the writer mutex (sqlite) before the streak rule is applied, so
// concurrent check-ins from the same user are applied one after the
// other.
func (d *database) RecordCheckIn(
	ctx context.Context,
	userID string,
	today time.Time,
) (*CheckInResult, error) {
	if userID == "" {
		return nil, errors.New("user id required")
	}
	result := &CheckInResult{}

	err := d.Transaction(
		ctx, func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(
				&CheckIn{UserID: userID},
			).Error; err != nil {
				return fmt.Errorf("error creating check-in: %w", err)
			}

			q := tx
			if d.dbType == dbTypePostgres {
				q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
			}
			var rec CheckIn
			if err := q.Where(columnUserID+" = ?", userID).Take(&rec).Error; err != nil {
				return fmt.Errorf("error reading check-in: %w", err)
			}

			updated, outcome, gap, err := applyCheckIn(rec, today)
			if err != nil {
				return err
			}
			if err = tx.Save(&updated).Error; err != nil {
				return fmt.Errorf("error saving check-in: %w", err)
			}
			result.CheckIn = updated
			result.Outcome = outcome
			result.Gap = gap
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	d.logger.DebugContext(
		ctx,
		"recorded check-in",
		columnUserID, userID,
		"outcome", result.Outcome,
		"streak", result.Streak,
		"points", result.TotalPoints,
	)
	return result, nil
}

// GetCheckIn returns the user's check-in record, or nil if the user has
// never checked in.
func (d *database) GetCheckIn(ctx context.Context, userID string) (*CheckIn, error) {
	ctx, cancel := withOperationTimeout(ctx)
	defer cancel()

	var rec CheckIn
	err := d.db.WithContext(ctx).Where(columnUserID+" = ?", userID).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// NotificationKind identifies one of the notification toggles
type NotificationKind string

const (
	NotifyPriceAlerts    NotificationKind = columnPriceAlerts
	NotifyDailyUpdates   NotificationKind = columnDailyUpdates
	NotifyEventReminders NotificationKind = columnEventReminders
)

var notificationKinds = []NotificationKind{
	NotifyPriceAlerts,
	NotifyDailyUpdates,
	NotifyEventReminders,
}

// Label is the button label prefix for the kind
func (k NotificationKind) Label() string {
	switch k {
	case NotifyPriceAlerts:
		return "Price Alerts"
	case NotifyDailyUpdates:
		return "Daily Updates"
	case NotifyEventReminders:
		return "Event Reminders"
	default:
		return string(k)
	}
}

// CustomID is the button custom ID that toggles the kind
func (k NotificationKind) CustomID() string {
	return "toggle_" + string(k)
}

func parseNotificationKind(s string) (NotificationKind, bool) {
	for _, k := range notificationKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// NotificationPreference holds a user's notification toggles. All
// toggles are off until the user turns them on.
type NotificationPreference struct {
	UserID         string `gorm:"primaryKey;column:user_id" json:"user_id"`
	PriceAlerts    bool   `gorm:"column:price_alerts;not null;default:false" json:"price_alerts"`
	DailyUpdates   bool   `gorm:"column:daily_updates;not null;default:false;index" json:"daily_updates"`
	EventReminders bool   `gorm:"column:event_reminders;not null;default:false" json:"event_reminders"`
	ModelUnixTime
}

func (NotificationPreference) TableName() string {
	return "user_notifications"
}

// Enabled reports whether the given kind is on
func (p NotificationPreference) Enabled(kind NotificationKind) bool {
	switch kind {
	case NotifyPriceAlerts:
		return p.PriceAlerts
	case NotifyDailyUpdates:
		return p.DailyUpdates
	case NotifyEventReminders:
		return p.EventReminders
	default:
		return false
	}
}

func (p *NotificationPreference) toggle(kind NotificationKind) {
	switch kind {
	case NotifyPriceAlerts:
		p.PriceAlerts = !p.PriceAlerts
	case NotifyDailyUpdates:
		p.DailyUpdates = !p.DailyUpdates
	case NotifyEventReminders:
		p.EventReminders = !p.EventReminders
	}
}

// GetNotificationPreference returns the user's preferences. A user with
// no stored preferences gets a record with every toggle off.
func (d *database) GetNotificationPreference(
	ctx context.Context,
	userID string,
) (*NotificationPreference, error) {
	ctx, cancel := withOperationTimeout(ctx)
	defer cancel()

	pref := &NotificationPreference{}
	err := d.db.WithContext(ctx).Where(columnUserID+" = ?", userID).Take(pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotificationPreference{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return pref, nil
}

// ToggleNotification flips one toggle for the user and returns the
// updated preferences.
func (d *database) ToggleNotification(
	ctx context.Context,
	userID string,
	kind NotificationKind,
) (*NotificationPreference, error) {
	if _, ok := parseNotificationKind(string(kind)); !ok {
		return nil, fmt.Errorf("unknown notification kind: %q", kind)
	}
	if userID == "" {
		return nil, errors.New("user id required")
	}

	pref := &NotificationPreference{}
	err := d.Transaction(
		ctx, func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(
				&NotificationPreference{UserID: userID},
			).Error; err != nil {
				return fmt.Errorf("error creating preferences: %w", err)
			}
			q := tx
			if d.dbType == dbTypePostgres {
				q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
			}
			if err := q.Where(columnUserID+" = ?", userID).Take(pref).Error; err != nil {
				return fmt.Errorf("error reading preferences: %w", err)
			}
			pref.toggle(kind)
			return tx.Model(pref).Update(string(kind), pref.Enabled(kind)).Error
		},
	)
	if err != nil {
		return nil, err
	}
	return pref, nil
}

// NotificationSubscribers returns the IDs of users with the given kind on
func (d *database) NotificationSubscribers(
	ctx context.Context,
	kind NotificationKind,
) ([]string, error) {
	if _, ok := parseNotificationKind(string(kind)); !ok {
		return nil, fmt.Errorf("unknown notification kind: %q", kind)
	}
	ctx, cancel := withOperationTimeout(ctx)
	defer cancel()

	var ids []string
	err := d.db.WithContext(ctx).
		Model(&NotificationPreference{}).
		Where(string(kind)+" = ?", true).
		Order(columnUserID).
		Pluck(columnUserID, &ids).Error
	return ids, err
}
