package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/aura/internal/common"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. If EOF occurs after some input was read, the partial line is
// returned.
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a password from the terminal without echo. The caller
// should wipe the returned slice.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline reads lines until an empty one and joins them with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// askFloat prompts until a number is entered. An empty answer returns def.
func (a *App) askFloat(prompt string, def float64) (float64, error) {
	for {
		s, err := getSimpleText(a.reader, fmt.Sprintf("%s [%g]", prompt, def), a.out)
		if err != nil {
			return 0, err
		}
		if s == "" {
			return def, nil
		}
		v, err := parseNumber(s)
		if err == nil {
			return v, nil
		}
		a.printf("Not a number: %s\n", s)
	}
}

func (a *App) askInt(prompt string, def int) (int, error) {
	v, err := a.askFloat(prompt, float64(def))
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// askPositive is askFloat for body measurements and goals: anything not
// above zero is rejected with common.ErrInvalidAmount.
func (a *App) askPositive(prompt string, def float64) (float64, error) {
	v, err := a.askFloat(prompt, def)
	if err != nil {
		return 0, err
	}
	if !(v > 0) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s %s: %w", prompt, formatNumber(v), common.ErrInvalidAmount)
	}
	return v, nil
}

func (a *App) askPositiveInt(prompt string, def int) (int, error) {
	v, err := a.askInt(prompt, def)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s %d: %w", prompt, v, common.ErrInvalidAmount)
	}
	return v, nil
}

// askChoice shows numbered options and returns the picked index, or -1 on
// an empty answer.
func (a *App) askChoice(prompt string, options []string) (int, error) {
	for i, o := range options {
		a.printf("  %d) %s\n", i+1, o)
	}
	for {
		s, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return -1, err
		}
		if s == "" {
			return -1, nil
		}
		n, err := strconv.Atoi(s)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		a.printf("Pick a number between 1 and %d.\n", len(options))
	}
}

func (a *App) confirm(prompt string) (bool, error) {
	s, err := getSimpleText(a.reader, prompt+" [y/N]", a.out)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(s) {
	case "y", "yes", "s", "sim":
		return true, nil
	}
	return false, nil
}

// parseNumber accepts both "1.5" and "1,5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}
