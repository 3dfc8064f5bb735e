package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/aura/internal/common"
	"github.com/dmitrijs2005/aura/internal/services"
)

type fakeExec struct {
	st services.State

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) state() services.State { return f.st }

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) Register(context.Context) error {
	f.st = services.StateOnboarding
	return f.record("register", nil)
}
func (f *fakeExec) Login(context.Context) error {
	f.st = services.StateActive
	return f.record("login", nil)
}
func (f *fakeExec) Logout(context.Context) error {
	f.st = services.StateUnauthenticated
	return f.record("logout", nil)
}
func (f *fakeExec) Onboard(context.Context) error {
	f.st = services.StateActive
	return f.record("onboard", nil)
}
func (f *fakeExec) Today(context.Context) error { return f.record("today", nil) }
func (f *fakeExec) Water(_ context.Context, a []string) error { return f.record("water", a) }
func (f *fakeExec) Undo(context.Context) error { return f.record("undo", nil) }
func (f *fakeExec) Meal(_ context.Context, a []string) error { return f.record("meal", a) }
func (f *fakeExec) DeleteMeal(_ context.Context, a []string) error { return f.record("delmeal", a) }
func (f *fakeExec) Day(_ context.Context, a []string) error { return f.record("day", a) }
func (f *fakeExec) Notes(_ context.Context, a []string) error { return f.record("notes", a) }
func (f *fakeExec) History(context.Context) error { return f.record("history", nil) }
func (f *fakeExec) Report(context.Context) error { return f.record("report", nil) }
func (f *fakeExec) Settings(context.Context) error { return f.record("settings", nil) }
func (f *fakeExec) Export(context.Context) error { return f.record("export", nil) }
func (f *fakeExec) Foods(_ context.Context, a []string) error { return f.record("foods", a) }

// capturePrintln collects everything the REPL prints.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func input(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_GuestFlow(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func(context.Context) string { return "s" }, input(
		"help",
		"water 200",
		"foods banana",
		"register",
		"today",
		"onboard",
		"W 300",
		"m lunch",
		"t",
		"login",
		"exit",
		"today",
	))

	assert.Equal(t, []string{"foods", "register", "onboard", "water", "meal", "today"}, exec.calls)
	assert.Equal(t, []string{"300"}, exec.args[3])
	assert.Equal(t, []string{"lunch"}, exec.args[4])

	text := strings.Join(*out, "\n")
	assert.Contains(t, text, helpGuest)
	assert.Contains(t, text, "Please log in first.")
	assert.Contains(t, text, "Finish onboarding first (type 'onboard').")
	assert.Contains(t, text, "Already logged in. Type 'logout' first.")
	assert.Contains(t, text, "Bye!")
}

func TestRunREPL_ActiveCommands(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{st: services.StateActive}
	runREPL(context.Background(), exec, func(context.Context) string { return "" }, input(
		"undo",
		"delmeal abc 2026-10-15",
		"day 2026-10-15",
		"notes",
		"history",
		"report",
		"settings",
		"export",
		"logout",
		"history",
	))

	assert.Equal(t, []string{
		"undo", "delmeal", "day", "notes", "history", "report", "settings", "export", "logout",
	}, exec.calls)
	assert.Equal(t, []string{"abc", "2026-10-15"}, exec.args[1])
}

func TestRunREPL_UnknownAndBlank(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{st: services.StateActive}
	runREPL(context.Background(), exec, func(context.Context) string { return "" }, input("", "   ", "dance", "quit"))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Unknown command: dance")
}

func TestRunREPL_HandlerErrorKeepsLoop(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{st: services.StateActive, err: fmt.Errorf("add water: %w", common.ErrInvalidAmount)}
	runREPL(context.Background(), exec, func(context.Context) string { return "" }, input("water -5", "undo"))

	assert.Equal(t, []string{"water", "undo"}, exec.calls)
	assert.Contains(t, *out, "Error: "+common.ErrInvalidAmount.Error())
}

func TestRunREPL_CancelledContext(t *testing.T) {
	capturePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{st: services.StateActive}
	runREPL(ctx, exec, func(context.Context) string { return "" }, input("today"))

	assert.Empty(t, exec.calls)
}

func TestRunREPL_StatusGetsLoopContext(t *testing.T) {
	capturePrintln(t)

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "loop")

	var seen []any
	status := func(ctx context.Context) string {
		seen = append(seen, ctx.Value(key{}))
		return ""
	}
	runREPL(ctx, &fakeExec{st: services.StateActive}, status, input("today", "exit"))

	assert.Equal(t, []any{"loop", "loop"}, seen)
}

func TestRunREPL_HelpPerState(t *testing.T) {
	tests := []struct {
		st   services.State
		want string
	}{
		{services.StateUnauthenticated, helpGuest},
		{services.StateOnboarding, helpOnboarding},
		{services.StateActive, helpActive},
	}
	for _, tt := range tests {
		t.Run(tt.st.String(), func(t *testing.T) {
			out := capturePrintln(t)
			runREPL(context.Background(), &fakeExec{st: tt.st}, func(context.Context) string { return "" }, input("help"))
			assert.Contains(t, *out, tt.want)
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{common.ErrInvalidCredentials, "invalid identifier or password"},
		{fmt.Errorf("login: %w", common.ErrInvalidCredentials), "invalid identifier or password"},
		{common.ErrDuplicateIdentifier, "an account with this email or username already exists"},
		{fmt.Errorf("%w: timeout", common.ErrEstimationFailure), "could not analyse the meal with AI, please try again"},
		{common.ErrNotAuthenticated, "please log in first"},
		{fmt.Errorf("undo: %w", common.ErrNothingToUndo), common.ErrNothingToUndo.Error()},
		{common.ErrNotFound, common.ErrNotFound.Error()},
		{errors.New("disk full"), "disk full"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, userMessage(tt.err))
	}
}
