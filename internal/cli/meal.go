package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/aura/internal/common"
	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/dmitrijs2005/aura/internal/nutrition"
	"github.com/dmitrijs2005/aura/internal/services"
)

var errEstimatorDisabled = errors.New("AI estimates are disabled: set GEMINI_API_KEY")

// Meal logs a meal for now, built either from the reference table or from
// an AI estimate. args may name the meal type; otherwise it follows the hour.
func (a *App) Meal(ctx context.Context, args []string) error {
	s, err := a.gate.ActiveSession()
	if err != nil {
		return err
	}

	now := a.nowFn()
	mealType := models.MealTypeForHour(now.Hour())
	if len(args) > 0 {
		if mealType, err = models.ParseMealType(args[0]); err != nil {
			return err
		}
	}
	a.printf("New %s at %s\n", mealType.Label(), models.ClockOf(now))

	i, err := a.askChoice("How do you want to add it?", []string{
		"Search the food table",
		"Describe it for an AI estimate",
	})
	if err != nil {
		return err
	}

	var (
		meal models.Meal
		ok   bool
	)
	switch i {
	case 0:
		meal, ok, err = a.mealFromTable(mealType, models.ClockOf(now))
	case 1:
		meal, ok, err = a.mealFromEstimate(ctx, mealType, models.ClockOf(now))
	}
	if err != nil {
		return err
	}
	if !ok {
		a.printf("Nothing added.\n")
		return nil
	}

	saved, err := a.journal.AddMeal(ctx, s.AccountID(), models.DateOf(now), meal)
	if err != nil {
		return err
	}
	a.printf("Saved %s: %s\n", saved.Type.Label(), formatTotals(saved.Totals))
	return nil
}

func (a *App) mealFromTable(mealType models.MealType, clock string) (models.Meal, bool, error) {
	var items []models.FoodItem
	for {
		q, err := getSimpleText(a.reader, "Search food (empty to finish)", a.out)
		if err != nil {
			return models.Meal{}, false, err
		}
		if q == "" {
			break
		}

		results := a.catalog.Search(q)
		if len(results) == 0 {
			a.printf("No food matches %q.\n", q)
			continue
		}
		opts := make([]string, len(results))
		for i, f := range results {
			opts[i] = fmt.Sprintf("%s (%s, %.0f kcal/100 g)", f.Name, f.Source, f.Per100g.Kcal)
		}
		i, err := a.askChoice("Pick a food (empty to search again)", opts)
		if err != nil {
			return models.Meal{}, false, err
		}
		if i < 0 {
			continue
		}

		item, ok, err := a.askPortion(results[i])
		if err != nil {
			return models.Meal{}, false, err
		}
		if !ok {
			continue
		}
		items = append(items, item)
		a.printf("  + %s, %s: %.0f kcal\n", item.Name, item.QuantityText, item.Calories)
	}

	if len(items) == 0 {
		return models.Meal{}, false, nil
	}
	return services.MealFromItems(items, mealType, clock), true, nil
}

// askPortion asks for a serving unit (by number or name) and a quantity.
// Units the food does not list count as one gram each, after a warning.
func (a *App) askPortion(food models.DatabaseFood) (models.FoodItem, bool, error) {
	for i, sv := range food.ServingSizes {
		a.printf("  %d) %s (%g g)\n", i+1, sv.Unit, sv.Grams)
	}
	answer, err := getSimpleText(a.reader, "Unit (number or name) [g]", a.out)
	if err != nil {
		return models.FoodItem{}, false, err
	}

	unit := "g"
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(food.ServingSizes) {
		unit = food.ServingSizes[n-1].Unit
	} else if answer != "" {
		unit = answer
	}

	if _, known := food.Serving(unit); !known {
		a.printf("Unknown unit %q for %s: it will count as 1 g per unit.\n", unit, food.Name)
		ok, err := a.confirm("Continue?")
		if err != nil || !ok {
			return models.FoodItem{}, false, err
		}
	}

	qty, err := a.askFloat("Quantity", 1)
	if err != nil {
		return models.FoodItem{}, false, err
	}
	if qty <= 0 {
		return models.FoodItem{}, false, common.ErrInvalidAmount
	}
	return nutrition.Resolve(food, qty, unit), true, nil
}

func (a *App) mealFromEstimate(ctx context.Context, mealType models.MealType, clock string) (models.Meal, bool, error) {
	if a.estimator == nil {
		return models.Meal{}, false, errEstimatorDisabled
	}

	desc, err := getSimpleText(a.reader, "Describe the meal (e.g. arroz, feijão e bife)", a.out)
	if err != nil {
		return models.Meal{}, false, err
	}

	a.printf("Analysing...\n")
	est, err := a.estimator.Estimate(ctx, desc)
	if err != nil {
		return models.Meal{}, false, err
	}
	a.printEstimate(est)

	ok, err := a.confirm("Save this meal?")
	if err != nil || !ok {
		return models.Meal{}, false, err
	}
	return services.MealFromEstimate(est, mealType, clock, ""), true, nil
}

func (a *App) printEstimate(est models.Estimate) {
	a.printf("%s\n", est.MealName)
	for _, it := range est.Items {
		a.printf("  - %s, %s (~%.0f g): %.0f kcal, P %.1f g, C %.1f g, F %.1f g  [confidence %.0f%%]\n",
			it.Name, it.QuantityText, it.EstimatedGrams, it.Calories, it.ProteinG, it.CarbsG, it.FatG, it.Confidence*100)
	}
	totals := est.Totals
	if totals.IsZero() {
		totals = models.SumItems(est.Items)
	}
	a.printf("  Total: %s\n", formatTotals(totals))
	if est.Disclaimer != "" {
		a.printf("  %s\n", est.Disclaimer)
	}
	for _, q := range est.FollowUpQuestions {
		a.printf("  ? %s\n", q)
	}
}

// DeleteMeal removes a meal by id from today or from the date in args[1].
func (a *App) DeleteMeal(ctx context.Context, args []string) error {
	s, err := a.gate.ActiveSession()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		a.printf("Usage: delmeal <id> [YYYY-MM-DD]\n")
		return nil
	}
	date, err := a.dateArg(args[1:])
	if err != nil {
		return err
	}
	if err := a.journal.DeleteMeal(ctx, s.AccountID(), date, args[0]); err != nil {
		return err
	}
	a.printf("Meal deleted.\n")
	return nil
}
