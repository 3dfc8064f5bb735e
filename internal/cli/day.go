package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/aura/internal/models"
)

// dateArg returns args[0] as a date, or today when args is empty.
func (a *App) dateArg(args []string) (string, error) {
	if len(args) == 0 {
		return a.today(), nil
	}
	if _, err := models.ParseDate(args[0]); err != nil {
		return "", err
	}
	return args[0], nil
}

// Day prints every entry of a day.
func (a *App) Day(ctx context.Context, args []string) error {
	s, err := a.gate.ActiveSession()
	if err != nil {
		return err
	}
	date, err := a.dateArg(args)
	if err != nil {
		return err
	}
	day, err := a.diary.GetDayLog(ctx, s.AccountID(), date)
	if err != nil {
		return err
	}

	unit := profileUnit(s.Profile)
	a.printf("%s\n", date)
	a.printf("Water: %s of %s\n", unit.Format(day.WaterTotal()), unit.Format(s.Profile.WaterTarget()))
	for _, w := range day.WaterLogs {
		a.printf("  %s  %s\n", w.Time, unit.Format(w.Amount))
	}

	a.printf("Meals: %d\n", len(day.Meals))
	for _, m := range day.Meals {
		a.printf("  %s  %s  %s  (id %s)\n", m.Time, m.Type.Label(), m.Description, m.ID)
		for _, it := range m.Items {
			a.printf("      %s, %s: %.0f kcal [%s]\n", it.Name, it.QuantityText, it.Calories, it.Source)
		}
		a.printf("      = %s\n", formatTotals(m.Totals))
	}
	a.printf("Total: %s\n", formatTotals(day.Totals()))

	if day.Notes != "" {
		a.printf("Notes:\n  %s\n", strings.ReplaceAll(day.Notes, "\n", "\n  "))
	}
	return nil
}

// Notes replaces the free-text notes of a day.
func (a *App) Notes(ctx context.Context, args []string) error {
	s, err := a.gate.ActiveSession()
	if err != nil {
		return err
	}
	date, err := a.dateArg(args)
	if err != nil {
		return err
	}
	day, err := a.diary.GetDayLog(ctx, s.AccountID(), date)
	if err != nil {
		return err
	}
	if day.Notes != "" {
		a.printf("Current notes:\n%s\n", day.Notes)
	}

	text, err := GetMultiline(a.reader, "Notes for "+date, a.out)
	if err != nil {
		return err
	}
	if err := a.journal.SetNotes(ctx, s.AccountID(), date, text); err != nil {
		return err
	}
	a.printf("Notes saved.\n")
	return nil
}

func (a *App) History(ctx context.Context) error {
	s, err := a.gate.ActiveSession()
	if err != nil {
		return err
	}
	entries, err := a.reports.History(ctx, s.AccountID())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.printf("No days logged yet.\n")
		return nil
	}

	unit := profileUnit(s.Profile)
	for _, e := range entries {
		mark := ""
		if e.HasNotes {
			mark = "  *notes"
		}
		a.printf("%s  %10s  %6.0f kcal  %d meal(s)%s\n", e.Date, unit.Format(e.Water), e.Calories, e.Meals, mark)
	}
	return nil
}

// Report prints the last seven days.
func (a *App) Report(ctx context.Context) error {
	s, err := a.gate.ActiveSession()
	if err != nil {
		return err
	}
	r, err := a.reports.Weekly(ctx, s.AccountID(), s.Profile, a.nowFn())
	if err != nil {
		return err
	}

	unit := profileUnit(s.Profile)
	a.printf("Last 7 days (goal %s)\n", unit.Format(r.WaterTarget))
	for _, d := range r.Days {
		mark := " "
		if d.GoalMet {
			mark = "✓"
		}
		a.printf("  %s %s  %10s  %6.0f kcal\n", mark, d.Date, unit.Format(d.Water), d.Calories)
	}
	a.printf("Average: %s water, %.0f kcal per day\n", unit.Format(r.AvgWater), r.AvgCalories)
	a.printf("Water goal met on %d of 7 days\n", r.DaysGoalMet)
	return nil
}
