package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/aura/internal/common"
	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = "2026-10-16"

func TestAddWater_AppendsAndRejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.journal.AddWater(ctx, "u1", today, 0, "08:00")
	require.ErrorIs(t, err, common.ErrInvalidAmount)
	_, err = f.journal.AddWater(ctx, "u1", today, -5, "08:00")
	require.ErrorIs(t, err, common.ErrInvalidAmount)

	for _, ml := range WaterPresets {
		_, err = f.journal.AddWater(ctx, "u1", today, ml, "09:00")
		require.NoError(t, err)
	}
	day, err := f.journal.AddWater(ctx, "u1", today, 150, "10:00")
	require.NoError(t, err)

	assert.Equal(t, 1150.0, day.WaterTotal())
	require.Len(t, day.WaterLogs, 4)
	assert.Equal(t, "10:00", day.WaterLogs[3].Time)
	assert.NotEmpty(t, day.WaterLogs[3].ID)
}

func TestUndoWater_IsLIFO(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.journal.AddWater(ctx, "u1", today, 200, "08:00")
	require.NoError(t, err)
	_, err = f.journal.AddWater(ctx, "u1", today, 500, "09:00")
	require.NoError(t, err)

	removed, day, err := f.journal.UndoWater(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 500.0, removed.Amount)
	assert.Equal(t, 200.0, day.WaterTotal())

	removed, _, err = f.journal.UndoWater(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 200.0, removed.Amount)

	_, _, err = f.journal.UndoWater(ctx, "u1", today)
	require.ErrorIs(t, err, common.ErrNothingToUndo)
}

func TestAddMeal_ComputesTotalsAndIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	items := []models.FoodItem{
		{Name: "Banana", Source: models.SourceTACO, Calories: 137, ProteinG: 1.8, CarbsG: 36.4, FatG: 0.1, FiberG: 2.8, Confidence: 1},
		{Name: "Aveia", Source: models.SourceTACO, Calories: 59, ProteinG: 2.1, CarbsG: 10, FatG: 1.3, FiberG: 1.4, Confidence: 1},
	}
	meal, err := f.journal.AddMeal(ctx, "u1", today, models.Meal{Type: models.MealBreakfast, Time: "07:30", Items: items})
	require.NoError(t, err)

	assert.NotEmpty(t, meal.ID)
	for _, it := range meal.Items {
		assert.NotEmpty(t, it.ID)
	}
	assert.Equal(t, models.Totals{Calories: 196, ProteinG: 3.9, CarbsG: 46.4, FatG: 1.4, FiberG: 4.2}, meal.Totals)

	day, err := f.diary.GetDayLog(ctx, "u1", today)
	require.NoError(t, err)
	require.Len(t, day.Meals, 1)
	assert.Equal(t, meal, day.Meals[0])
}

func TestAddMeal_KeepsGivenTotals(t *testing.T) {
	f := newFixture(t)
	totals := models.Totals{Calories: 650, ProteinG: 30}
	meal, err := f.journal.AddMeal(context.Background(), "u1", today, models.Meal{
		Type:   models.MealLunch,
		Items:  []models.FoodItem{{Name: "PF", Calories: 600}},
		Totals: totals,
	})
	require.NoError(t, err)
	assert.Equal(t, totals, meal.Totals)
}

func TestAddMeal_RejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	_, err := f.journal.AddMeal(context.Background(), "u1", today, models.Meal{Type: "brunch"})
	assert.Error(t, err)
}

func TestDeleteMealAndNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m1, err := f.journal.AddMeal(ctx, "u1", today, models.Meal{Type: models.MealLunch})
	require.NoError(t, err)
	m2, err := f.journal.AddMeal(ctx, "u1", today, models.Meal{Type: models.MealDinner})
	require.NoError(t, err)

	require.NoError(t, f.journal.DeleteMeal(ctx, "u1", today, m1.ID))
	require.ErrorIs(t, f.journal.DeleteMeal(ctx, "u1", today, "missing"), common.ErrNotFound)

	require.NoError(t, f.journal.SetNotes(ctx, "u1", today, "  dormi mal  "))

	day, err := f.diary.GetDayLog(ctx, "u1", today)
	require.NoError(t, err)
	require.Len(t, day.Meals, 1)
	assert.Equal(t, m2.ID, day.Meals[0].ID)
	assert.Equal(t, "dormi mal", day.Notes)
}

func TestMealFromEstimate(t *testing.T) {
	est := models.Estimate{
		MealName: "Prato feito",
		Items: []models.FoodItem{
			{ID: "ai-1", Name: "Arroz", Calories: 190, ProteinG: 3.5, Confidence: 0.8},
			{ID: "ai-2", Name: "Feijão", Calories: 100, ProteinG: 6.2, Confidence: 0.7},
		},
		Disclaimer: "Estimativa.",
	}

	m := MealFromEstimate(est, models.MealLunch, "12:10", "")
	assert.Equal(t, "Prato feito", m.Description)
	assert.Equal(t, models.Totals{Calories: 290, ProteinG: 9.7}, m.Totals, "missing totals are summed")
	for i, it := range m.Items {
		assert.NotEqual(t, est.Items[i].ID, it.ID)
		assert.Equal(t, models.SourceAIEstimated, it.Source)
	}

	est.Totals = models.Totals{Calories: 300}
	m = MealFromEstimate(est, models.MealLunch, "12:10", "arroz e feijão")
	assert.Equal(t, 300.0, m.Totals.Calories)
	assert.Equal(t, "arroz e feijão", m.Description)
	assert.Equal(t, "Estimativa.", m.Disclaimer)
}

func TestMealFromItems(t *testing.T) {
	m := MealFromItems([]models.FoodItem{
		{Name: "Arroz branco cozido", Calories: 128},
		{Name: "Feijão carioca cozido", Calories: 99},
	}, models.MealDinner, "19:00")

	assert.Equal(t, "Arroz branco cozido, Feijão carioca cozido", m.Description)
	assert.Equal(t, 227.0, m.Totals.Calories)
	assert.Equal(t, models.MealDinner, m.Type)
}
