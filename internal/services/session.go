package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/aura/internal/common"
	"github.com/dmitrijs2005/aura/internal/logging"
	"github.com/dmitrijs2005/aura/internal/models"
)

// State is the position of the session gate.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateOnboarding
	StateActive
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateOnboarding:
		return "onboarding"
	case StateActive:
		return "active"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Session is the signed-in account and its profile. Profile is nil until
// the account has one.
type Session struct {
	Account models.Account
	Profile *models.UserProfile
}

func (s Session) AccountID() string { return s.Account.ID }

// Gate drives the session lifecycle:
//
//	Unauthenticated --login/register--> Authenticating --> Onboarding | Active
//	Onboarding --complete--> Active
//	any --logout / load failure--> Unauthenticated
//
// It is safe for concurrent use; the reminder watcher reads it from its own
// goroutine.
type Gate struct {
	accounts AccountService
	diary    DiaryService
	migrator MigrationService
	log      logging.Logger

	mu      sync.RWMutex
	state   State
	session *Session
}

func NewGate(accounts AccountService, diary DiaryService, migrator MigrationService, log logging.Logger) *Gate {
	return &Gate{
		accounts: accounts,
		diary:    diary,
		migrator: migrator,
		log:      log.With("component", "gate"),
	}
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Session returns a copy of the current session, or common.ErrNotAuthenticated.
func (g *Gate) Session() (Session, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return Session{}, common.ErrNotAuthenticated
	}
	out := *g.session
	if out.Profile != nil {
		p := out.Profile.Clone()
		out.Profile = &p
	}
	return out, nil
}

// ActiveSession is Session restricted to the Active state.
func (g *Gate) ActiveSession() (Session, error) {
	if g.State() != StateActive {
		return Session{}, common.ErrNotAuthenticated
	}
	return g.Session()
}

func (g *Gate) setState(s State, sess *Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = s
	g.session = sess
}

// Resume restores a persisted session, if any.
func (g *Gate) Resume(ctx context.Context) (State, error) {
	g.setState(StateAuthenticating, nil)

	acc, err := g.accounts.CurrentSession(ctx)
	if err != nil {
		g.setState(StateUnauthenticated, nil)
		return StateUnauthenticated, err
	}
	if acc == nil {
		g.setState(StateUnauthenticated, nil)
		return StateUnauthenticated, nil
	}
	return g.establish(ctx, *acc)
}

// Login authenticates and loads the account's profile. A failed attempt
// restores whatever state the gate was in before.
func (g *Gate) Login(ctx context.Context, identifier string, password []byte) (State, error) {
	g.mu.Lock()
	prevState, prevSession := g.state, g.session
	g.state = StateAuthenticating
	g.mu.Unlock()

	acc, err := g.accounts.Login(ctx, identifier, password)
	if err != nil {
		g.setState(prevState, prevSession)
		return prevState, err
	}
	return g.establish(ctx, acc)
}

// Register creates the account and signs straight in.
func (g *Gate) Register(ctx context.Context, name, identifier string, password []byte) (State, error) {
	if _, err := g.accounts.Register(ctx, name, identifier, password); err != nil {
		return g.State(), err
	}
	return g.Login(ctx, identifier, password)
}

// establish runs legacy migration and picks Onboarding or Active.
func (g *Gate) establish(ctx context.Context, acc models.Account) (State, error) {
	profile, err := g.migrator.Migrate(ctx, acc.ID)
	if err == nil && profile == nil {
		profile, err = g.diary.GetProfile(ctx, acc.ID)
	}
	if err != nil {
		g.log.Error(ctx, "session load failed", "account_id", acc.ID, "error", err)
		if lerr := g.accounts.Logout(ctx); lerr != nil {
			g.log.Error(ctx, "logout after load failure", "error", lerr)
		}
		g.setState(StateUnauthenticated, nil)
		return StateUnauthenticated, fmt.Errorf("load session: %w", err)
	}

	next := StateActive
	if profile == nil || !profile.IsOnboarded {
		next = StateOnboarding
	}
	g.setState(next, &Session{Account: acc, Profile: profile})
	g.log.Info(ctx, "session established", "account_id", acc.ID, "state", next.String())
	return next, nil
}

// CompleteOnboarding stores the questionnaire result and activates the session.
func (g *Gate) CompleteOnboarding(ctx context.Context, profile models.UserProfile) error {
	if g.State() != StateOnboarding {
		return fmt.Errorf("complete onboarding: gate is %s", g.State())
	}
	sess, err := g.Session()
	if err != nil {
		return err
	}

	profile.IsOnboarded = true
	if err := g.diary.SaveProfile(ctx, sess.AccountID(), profile); err != nil {
		return err
	}

	sess.Profile = &profile
	g.setState(StateActive, &sess)
	return nil
}

// UpdateProfile applies fn to a copy of the stored profile, saves the whole
// record and refreshes the session.
func (g *Gate) UpdateProfile(ctx context.Context, fn func(*models.UserProfile) error) (models.UserProfile, error) {
	sess, err := g.ActiveSession()
	if err != nil {
		return models.UserProfile{}, err
	}

	current, err := g.diary.GetProfile(ctx, sess.AccountID())
	if err != nil {
		return models.UserProfile{}, err
	}
	if current == nil {
		current = sess.Profile
	}
	if current == nil {
		return models.UserProfile{}, errors.New("update profile: no profile stored")
	}

	next := current.Clone()
	if err := fn(&next); err != nil {
		return models.UserProfile{}, err
	}
	if err := g.diary.SaveProfile(ctx, sess.AccountID(), next); err != nil {
		return models.UserProfile{}, err
	}

	g.mu.Lock()
	if g.session != nil && g.session.Account.ID == sess.AccountID() {
		p := next.Clone()
		g.session.Profile = &p
	}
	g.mu.Unlock()
	return next, nil
}

// Logout clears the persisted session and returns to Unauthenticated.
func (g *Gate) Logout(ctx context.Context) error {
	err := g.accounts.Logout(ctx)
	g.setState(StateUnauthenticated, nil)
	return err
}

// ReminderSettings exposes the active profile's reminder settings.
func (g *Gate) ReminderSettings() (models.NotificationSettings, bool) {
	sess, err := g.ActiveSession()
	if err != nil || sess.Profile == nil {
		return models.NotificationSettings{}, false
	}
	return sess.Profile.ReminderSettings(), true
}

// MarkReminded stores at as the last reminder time.
func (g *Gate) MarkReminded(ctx context.Context, at time.Time) error {
	_, err := g.UpdateProfile(ctx, func(p *models.UserProfile) error {
		n := p.ReminderSettings()
		ms := at.UnixMilli()
		n.LastNotified = &ms
		p.Notifications = &n
		return nil
	})
	return err
}
