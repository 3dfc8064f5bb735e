package models

import (
	"math"
	"time"
)

const (
	DefaultWaterTarget       = 2000
	DefaultReminderInterval  = 120
	WaterMlPerKg             = 35
	defaultOnboardingWeight  = 70
	defaultOnboardingHeight  = 175
	defaultOnboardingAge     = 30
	defaultOnboardingWaterMl = 2450
)

// ReminderIntervals are the reminder periods offered in settings, in minutes.
var ReminderIntervals = []int{60, 120, 180}

// NotificationSettings controls hydration reminders. LastNotified is a unix
// timestamp in milliseconds.
type NotificationSettings struct {
	Enabled         bool   `json:"enabled"`
	IntervalMinutes int    `json:"intervalMinutes"`
	LastNotified    *int64 `json:"lastNotified,omitempty"`
}

// Interval returns the reminder period, defaulting to two hours.
func (n NotificationSettings) Interval() time.Duration {
	if n.IntervalMinutes <= 0 {
		return DefaultReminderInterval * time.Minute
	}
	return time.Duration(n.IntervalMinutes) * time.Minute
}

// LastNotifiedAt converts LastNotified to a time. Zero time when unset.
func (n NotificationSettings) LastNotifiedAt() time.Time {
	if n.LastNotified == nil {
		return time.Time{}
	}
	return time.UnixMilli(*n.LastNotified)
}

// UserProfile holds body metrics and goals. There is exactly one per account;
// saves overwrite it whole.
type UserProfile struct {
	Name             string                `json:"name"`
	Weight           float64               `json:"weight"`
	Height           float64               `json:"height"`
	Age              int                   `json:"age"`
	Gender           Gender                `json:"gender"`
	WaterGoal        float64               `json:"waterGoal"`
	TrainingDayBonus bool                  `json:"trainingDayBonus"`
	Unit             VolumeUnit            `json:"unit"`
	IsOnboarded      bool                  `json:"isOnboarded"`
	Notifications    *NotificationSettings `json:"notifications,omitempty"`
}

// NewOnboardingProfile is the questionnaire's starting point.
func NewOnboardingProfile(name string) UserProfile {
	return UserProfile{
		Name:      name,
		Weight:    defaultOnboardingWeight,
		Height:    defaultOnboardingHeight,
		Age:       defaultOnboardingAge,
		Gender:    GenderOther,
		WaterGoal: defaultOnboardingWaterMl,
		Unit:      UnitMilliliters,
	}
}

// SuggestedWaterGoal is 35 ml per kg of body weight, rounded.
func SuggestedWaterGoal(weightKg float64) float64 {
	return math.Round(weightKg * WaterMlPerKg)
}

// WaterTarget is the daily goal used for progress and reports.
func (p *UserProfile) WaterTarget() float64 {
	if p == nil || p.WaterGoal <= 0 {
		return DefaultWaterTarget
	}
	return p.WaterGoal
}

// ReminderSettings returns the reminder settings or their defaults.
func (p *UserProfile) ReminderSettings() NotificationSettings {
	if p == nil || p.Notifications == nil {
		return NotificationSettings{IntervalMinutes: DefaultReminderInterval}
	}
	return *p.Notifications
}

// Clone returns a deep copy so callers can spread-then-modify safely.
func (p UserProfile) Clone() UserProfile {
	if p.Notifications != nil {
		n := *p.Notifications
		if n.LastNotified != nil {
			v := *n.LastNotified
			n.LastNotified = &v
		}
		p.Notifications = &n
	}
	return p
}
