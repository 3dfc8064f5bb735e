package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/dmitrijs2005/aura/internal/services"
)

// Today prints the home summary: water progress and the day's macros.
func (a *App) Today(ctx context.Context) error {
	s, err := a.gate.ActiveSession()
	if err != nil {
		return err
	}
	sum, err := a.reports.Daily(ctx, s.AccountID(), s.Profile, a.today())
	if err != nil {
		return err
	}

	unit := profileUnit(s.Profile)
	a.printf("Today, %s\n", sum.Date)
	a.printf("  Water    %s\n", progressLine(sum, unit))
	if r := sum.Remaining(); r > 0 {
		a.printf("           %s to go\n", unit.Format(r))
	} else {
		a.printf("           goal reached!\n")
	}
	a.printf("  Food     %s in %d meal(s)\n", formatTotals(sum.Totals), sum.Meals)
	return nil
}

// Water adds a water entry for now. The amount comes from args or from the
// preset menu.
func (a *App) Water(ctx context.Context, args []string) error {
	s, err := a.gate.ActiveSession()
	if err != nil {
		return err
	}

	amount, ok, err := a.waterAmount(args)
	if err != nil {
		return err
	}
	if !ok {
		a.printf("Cancelled.\n")
		return nil
	}

	now := a.nowFn()
	day, err := a.journal.AddWater(ctx, s.AccountID(), models.DateOf(now), amount, models.ClockOf(now))
	if err != nil {
		return err
	}

	unit := profileUnit(s.Profile)
	sum := services.DailySummary{Water: day.WaterTotal(), WaterTarget: s.Profile.WaterTarget()}
	a.printf("Added %s. Today: %s\n", unit.Format(amount), progressLine(sum, unit))
	return nil
}

func (a *App) waterAmount(args []string) (float64, bool, error) {
	if len(args) > 0 {
		v, err := parseNumber(args[0])
		if err != nil {
			return 0, false, fmt.Errorf("%q is not a number", args[0])
		}
		return v, true, nil
	}

	opts := make([]string, 0, len(services.WaterPresets)+1)
	for _, p := range services.WaterPresets {
		opts = append(opts, fmt.Sprintf("%.0f ml", p))
	}
	opts = append(opts, "custom amount")

	i, err := a.askChoice("How much water?", opts)
	if err != nil || i < 0 {
		return 0, false, err
	}
	if i < len(services.WaterPresets) {
		return services.WaterPresets[i], true, nil
	}
	v, err := a.askFloat("Amount (ml)", 0)
	return v, true, err
}

// Undo removes the latest water entry of today.
func (a *App) Undo(ctx context.Context) error {
	s, err := a.gate.ActiveSession()
	if err != nil {
		return err
	}
	removed, day, err := a.journal.UndoWater(ctx, s.AccountID(), a.today())
	if err != nil {
		return err
	}

	unit := profileUnit(s.Profile)
	sum := services.DailySummary{Water: day.WaterTotal(), WaterTarget: s.Profile.WaterTarget()}
	a.printf("Removed %s logged at %s. Today: %s\n", unit.Format(removed.Amount), removed.Time, progressLine(sum, unit))
	return nil
}

const barWidth = 20

func progressLine(sum services.DailySummary, unit models.VolumeUnit) string {
	p := sum.WaterProgress()
	filled := int(p * barWidth)
	bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
	return fmt.Sprintf("[%s] %s / %s (%.0f%%)", bar, unit.Format(sum.Water), unit.Format(sum.WaterTarget), p*100)
}

func formatTotals(t models.Totals) string {
	return fmt.Sprintf("%.0f kcal, P %.1f g, C %.1f g, F %.1f g, fiber %.1f g", t.Calories, t.ProteinG, t.CarbsG, t.FatG, t.FiberG)
}
