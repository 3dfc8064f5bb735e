package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/aura/internal/services"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs. The real App type
// satisfies it; tests can provide a lightweight stub.
type execIface interface {
	state() services.State

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Onboard(ctx context.Context) error

	Today(ctx context.Context) error
	Water(ctx context.Context, args []string) error
	Undo(ctx context.Context) error
	Meal(ctx context.Context, args []string) error
	DeleteMeal(ctx context.Context, args []string) error
	Day(ctx context.Context, args []string) error
	Notes(ctx context.Context, args []string) error
	History(ctx context.Context) error
	Report(ctx context.Context) error
	Settings(ctx context.Context) error
	Export(ctx context.Context) error
	Foods(ctx context.Context, args []string) error
}

const (
	helpGuest      = "Available commands: register, login, foods <query>, help, exit"
	helpOnboarding = "Available commands: onboard, foods <query>, logout, help, exit"
	helpActive     = "Available commands: today, water [ml], undo, meal [type], delmeal <id> [date], " +
		"day [date], notes [date], history, report, settings, foods <query>, export, logout, help, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF, on "exit"/"quit" or when ctx is cancelled.
//
// Commands are gated by the session state: guests may only register, log
// in and browse the food table; a session that is still onboarding may only
// complete the questionnaire or log out.
//
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func(context.Context) string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("aura %s> ", statusFn(ctx)))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn("Error:", userMessage(err))
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	st := a.state()

	switch cmd {
	case "help":
		switch st {
		case services.StateActive:
			printlnFn(helpActive)
		case services.StateOnboarding:
			printlnFn(helpOnboarding)
		default:
			printlnFn(helpGuest)
		}
		return nil
	case "foods", "food":
		return a.Foods(ctx, args)
	}

	switch st {
	case services.StateUnauthenticated, services.StateAuthenticating:
		switch cmd {
		case "register":
			return a.Register(ctx)
		case "login":
			return a.Login(ctx)
		}
		if isKnown(cmd) {
			printlnFn("Please log in first.")
			return nil
		}

	case services.StateOnboarding:
		switch cmd {
		case "onboard":
			return a.Onboard(ctx)
		case "logout":
			return a.Logout(ctx)
		}
		if isKnown(cmd) {
			printlnFn("Finish onboarding first (type 'onboard').")
			return nil
		}

	case services.StateActive:
		switch cmd {
		case "today", "t":
			return a.Today(ctx)
		case "water", "w":
			return a.Water(ctx, args)
		case "undo":
			return a.Undo(ctx)
		case "meal", "m":
			return a.Meal(ctx, args)
		case "delmeal":
			return a.DeleteMeal(ctx, args)
		case "day":
			return a.Day(ctx, args)
		case "notes":
			return a.Notes(ctx, args)
		case "history":
			return a.History(ctx)
		case "report":
			return a.Report(ctx)
		case "settings":
			return a.Settings(ctx)
		case "export":
			return a.Export(ctx)
		case "logout":
			return a.Logout(ctx)
		case "login", "register":
			printlnFn("Already logged in. Type 'logout' first.")
			return nil
		}
	}

	printlnFn("Unknown command:", cmd)
	return nil
}

var knownCommands = map[string]bool{
	"register": true, "login": true, "logout": true, "onboard": true,
	"today": true, "t": true, "water": true, "w": true, "undo": true,
	"meal": true, "m": true, "delmeal": true, "day": true, "notes": true,
	"history": true, "report": true, "settings": true, "export": true,
}

func isKnown(cmd string) bool {
	return knownCommands[cmd]
}
