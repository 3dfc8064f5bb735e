package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/aura/internal/common"
	"github.com/dmitrijs2005/aura/internal/logging"
	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingMigrator struct{ err error }

func (m failingMigrator) Migrate(context.Context, string) (*models.UserProfile, error) {
	return nil, m.err
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unauthenticated", StateUnauthenticated.String())
	assert.Equal(t, "authenticating", StateAuthenticating.String())
	assert.Equal(t, "onboarding", StateOnboarding.String())
	assert.Equal(t, "active", StateActive.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func TestGate_RegisterOnboardActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, StateUnauthenticated, f.gate.State())
	_, err := f.gate.Session()
	require.ErrorIs(t, err, common.ErrNotAuthenticated)

	st, err := f.gate.Register(ctx, "Ana", "ana@example.com", []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, StateOnboarding, st)

	_, err = f.gate.ActiveSession()
	require.ErrorIs(t, err, common.ErrNotAuthenticated, "onboarding is not active")

	p := models.NewOnboardingProfile("Ana")
	p.Weight = 60
	p.WaterGoal = models.SuggestedWaterGoal(60)
	require.NoError(t, f.gate.CompleteOnboarding(ctx, p))
	assert.Equal(t, StateActive, f.gate.State())

	sess, err := f.gate.ActiveSession()
	require.NoError(t, err)
	require.NotNil(t, sess.Profile)
	assert.True(t, sess.Profile.IsOnboarded)
	assert.Equal(t, 2100.0, sess.Profile.WaterGoal)

	stored, err := f.diary.GetProfile(ctx, sess.AccountID())
	require.NoError(t, err)
	assert.True(t, stored.IsOnboarded)

	err = f.gate.CompleteOnboarding(ctx, p)
	assert.Error(t, err, "onboarding twice")
}

func TestGate_SessionReturnsCopy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.gate.Register(ctx, "Ana", "ana", []byte("pw"))
	require.NoError(t, err)
	require.NoError(t, f.gate.CompleteOnboarding(ctx, models.NewOnboardingProfile("Ana")))

	s1, err := f.gate.Session()
	require.NoError(t, err)
	s1.Profile.Name = "changed"

	s2, err := f.gate.Session()
	require.NoError(t, err)
	assert.Equal(t, "Ana", s2.Profile.Name)
}

func TestGate_FailedLoginKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.gate.Register(ctx, "Ana", "ana", []byte("pw"))
	require.NoError(t, err)
	require.NoError(t, f.gate.CompleteOnboarding(ctx, models.NewOnboardingProfile("Ana")))

	st, err := f.gate.Login(ctx, "ana", []byte("wrong"))
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, StateActive, st)
	assert.Equal(t, StateActive, f.gate.State())

	sess, err := f.gate.Session()
	require.NoError(t, err)
	assert.Equal(t, "ana", sess.Account.Identifier)
}

func TestGate_RegisterDuplicateLeavesUnauthenticated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.Register(ctx, "Ana", "ana", []byte("pw"))
	require.NoError(t, err)

	st, err := f.gate.Register(ctx, "Other", "ana", []byte("pw2"))
	require.ErrorIs(t, err, common.ErrDuplicateIdentifier)
	assert.Equal(t, StateUnauthenticated, st)
}

func TestGate_LogoutAndResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.gate.Register(ctx, "Ana", "ana", []byte("pw"))
	require.NoError(t, err)
	require.NoError(t, f.gate.CompleteOnboarding(ctx, models.NewOnboardingProfile("Ana")))

	// a fresh gate over the same store picks up the persisted session
	other := NewGate(f.accounts, f.diary, f.migrator, logging.Nop{})
	st, err := other.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateActive, st)

	require.NoError(t, f.gate.Logout(ctx))
	assert.Equal(t, StateUnauthenticated, f.gate.State())

	st, err = NewGate(f.accounts, f.diary, f.migrator, logging.Nop{}).Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateUnauthenticated, st)
}

func TestGate_LegacyOnboardedProfileGoesActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.Register(ctx, "Ana", "ana", []byte("pw"))
	require.NoError(t, err)
	putRaw(t, f.db, legacyProfileKey, `{"name":"Ana","weight":60,"waterGoal":2100,"isOnboarded":true}`)
	putRaw(t, f.db, legacyLogsKey, `{"2026-10-01":{"date":"2026-10-01","waterLogs":[{"id":"w","amount":250,"time":"09:00"}],"meals":[]}}`)

	st, err := f.gate.Login(ctx, "ana", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, StateActive, st)

	sess, err := f.gate.ActiveSession()
	require.NoError(t, err)
	day, err := f.diary.GetDayLog(ctx, sess.AccountID(), "2026-10-01")
	require.NoError(t, err)
	assert.Equal(t, 250.0, day.WaterTotal())
}

func TestGate_LoadFailureSignsOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.Register(ctx, "Ana", "ana", []byte("pw"))
	require.NoError(t, err)

	boom := errors.New("boom")
	g := NewGate(f.accounts, f.diary, failingMigrator{err: boom}, logging.Nop{})

	st, err := g.Login(ctx, "ana", []byte("pw"))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, StateUnauthenticated, st)

	acc, err := f.accounts.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, acc, "persisted session is cleared")
}

func TestGate_UpdateProfileAndReminders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, ok := f.gate.ReminderSettings()
	assert.False(t, ok)
	_, err := f.gate.UpdateProfile(ctx, func(*models.UserProfile) error { return nil })
	require.ErrorIs(t, err, common.ErrNotAuthenticated)

	_, err = f.gate.Register(ctx, "Ana", "ana", []byte("pw"))
	require.NoError(t, err)
	require.NoError(t, f.gate.CompleteOnboarding(ctx, models.NewOnboardingProfile("Ana")))

	n, ok := f.gate.ReminderSettings()
	require.True(t, ok)
	assert.False(t, n.Enabled)
	assert.Equal(t, models.DefaultReminderInterval, n.IntervalMinutes)

	_, err = f.gate.UpdateProfile(ctx, func(p *models.UserProfile) error {
		p.Notifications = &models.NotificationSettings{Enabled: true, IntervalMinutes: 60}
		return nil
	})
	require.NoError(t, err)

	at := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	require.NoError(t, f.gate.MarkReminded(ctx, at))

	n, ok = f.gate.ReminderSettings()
	require.True(t, ok)
	assert.True(t, n.Enabled)
	assert.Equal(t, 60, n.IntervalMinutes)
	require.NotNil(t, n.LastNotified)
	assert.Equal(t, at.UnixMilli(), *n.LastNotified)

	sess, err := f.gate.Session()
	require.NoError(t, err)
	stored, err := f.diary.GetProfile(ctx, sess.AccountID())
	require.NoError(t, err)
	assert.Equal(t, sess.Profile, stored)

	fnErr := errors.New("rejected")
	_, err = f.gate.UpdateProfile(ctx, func(*models.UserProfile) error { return fnErr })
	require.ErrorIs(t, err, fnErr)
}

func TestGate_ConcurrentReads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.gate.Register(ctx, "Ana", "ana", []byte("pw"))
	require.NoError(t, err)
	require.NoError(t, f.gate.CompleteOnboarding(ctx, models.NewOnboardingProfile("Ana")))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.gate.ReminderSettings()
			_ = f.gate.State()
		}()
	}
	require.NoError(t, f.gate.MarkReminded(ctx, time.Now()))
	wg.Wait()
}
