// Package reminder nudges the signed-in user to drink water at the interval
// stored in their profile.
package reminder

import (
	"context"
	"time"

	"github.com/dmitrijs2005/aura/internal/logging"
	"github.com/dmitrijs2005/aura/internal/models"
)

const Message = "Time to drink some water! Stay hydrated."

// Settings is what the watcher needs from the session.
type Settings interface {
	// ReminderSettings reports false when no active session exists.
	ReminderSettings() (models.NotificationSettings, bool)
	MarkReminded(ctx context.Context, at time.Time) error
}

// Due reports whether a reminder should fire at now. A reminder that never
// fired is due right away.
func Due(n models.NotificationSettings, now time.Time) bool {
	if !n.Enabled {
		return false
	}
	if n.LastNotified == nil {
		return true
	}
	return now.Sub(n.LastNotifiedAt()) >= n.Interval()
}

type Watcher struct {
	src    Settings
	notify func(string)
	log    logging.Logger
	nowFn  func() time.Time
}

func NewWatcher(src Settings, notify func(string), log logging.Logger) *Watcher {
	return &Watcher{src: src, notify: notify, log: log.With("component", "reminder"), nowFn: time.Now}
}

// Check fires the reminder when due and records it. It returns whether a
// reminder was sent.
func (w *Watcher) Check(ctx context.Context) (bool, error) {
	n, ok := w.src.ReminderSettings()
	if !ok {
		return false, nil
	}
	now := w.nowFn()
	if !Due(n, now) {
		return false, nil
	}

	w.notify(Message)
	if err := w.src.MarkReminded(ctx, now); err != nil {
		return true, err
	}
	return true, nil
}

// Run checks every interval until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			if _, err := w.Check(cctx); err != nil {
				w.log.Warn(cctx, "reminder not recorded", "error", err)
			}
			cancel()

		case <-ctx.Done():
			return
		}
	}
}
