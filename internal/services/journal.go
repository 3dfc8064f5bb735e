package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/aura/internal/common"
	"github.com/dmitrijs2005/aura/internal/logging"
	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/google/uuid"
)

// WaterPresets are the quick-add amounts in ml.
var WaterPresets = []float64{200, 300, 500}

// JournalService records water, meals and notes on a day log.
type JournalService interface {
	AddWater(ctx context.Context, accountID, date string, amount float64, clock string) (models.DayLog, error)
	// UndoWater removes the most recent water entry of date.
	UndoWater(ctx context.Context, accountID, date string) (models.WaterLog, models.DayLog, error)
	AddMeal(ctx context.Context, accountID, date string, meal models.Meal) (models.Meal, error)
	DeleteMeal(ctx context.Context, accountID, date, mealID string) error
	SetNotes(ctx context.Context, accountID, date, notes string) error
}

type journalService struct {
	diary DiaryService
	log   logging.Logger
}

func NewJournalService(diary DiaryService, log logging.Logger) JournalService {
	return &journalService{diary: diary, log: log.With("component", "journal")}
}

func (s *journalService) AddWater(ctx context.Context, accountID, date string, amount float64, clock string) (models.DayLog, error) {
	if amount <= 0 {
		return models.DayLog{}, common.ErrInvalidAmount
	}

	day, err := s.diary.UpdateDayLog(ctx, accountID, date, func(d *models.DayLog) error {
		d.WaterLogs = append(d.WaterLogs, models.WaterLog{
			ID:     uuid.NewString(),
			Amount: amount,
			Time:   clock,
		})
		return nil
	})
	if err != nil {
		return models.DayLog{}, fmt.Errorf("add water: %w", err)
	}

	s.log.Info(ctx, "water added", "account_id", accountID, "date", date, "amount_ml", amount)
	return day, nil
}

func (s *journalService) UndoWater(ctx context.Context, accountID, date string) (models.WaterLog, models.DayLog, error) {
	var removed models.WaterLog
	day, err := s.diary.UpdateDayLog(ctx, accountID, date, func(d *models.DayLog) error {
		n := len(d.WaterLogs)
		if n == 0 {
			return common.ErrNothingToUndo
		}
		removed = d.WaterLogs[n-1]
		d.WaterLogs = d.WaterLogs[:n-1]
		return nil
	})
	if err != nil {
		return models.WaterLog{}, models.DayLog{}, fmt.Errorf("undo water: %w", err)
	}
	return removed, day, nil
}

// AddMeal appends meal to date. Missing ids are generated; when the meal has
// no totals they are summed from its items.
func (s *journalService) AddMeal(ctx context.Context, accountID, date string, meal models.Meal) (models.Meal, error) {
	if !meal.Type.Valid() {
		return models.Meal{}, fmt.Errorf("add meal: unknown meal type %q", meal.Type)
	}
	if meal.ID == "" {
		meal.ID = uuid.NewString()
	}
	if meal.Items == nil {
		meal.Items = []models.FoodItem{}
	}
	for i := range meal.Items {
		if meal.Items[i].ID == "" {
			meal.Items[i].ID = uuid.NewString()
		}
	}
	if meal.Totals.IsZero() {
		meal.Totals = models.SumItems(meal.Items)
	}

	_, err := s.diary.UpdateDayLog(ctx, accountID, date, func(d *models.DayLog) error {
		d.Meals = append(d.Meals, meal)
		return nil
	})
	if err != nil {
		return models.Meal{}, fmt.Errorf("add meal: %w", err)
	}

	s.log.Info(ctx, "meal added", "account_id", accountID, "date", date, "type", string(meal.Type), "items", len(meal.Items))
	return meal, nil
}

func (s *journalService) DeleteMeal(ctx context.Context, accountID, date, mealID string) error {
	_, err := s.diary.UpdateDayLog(ctx, accountID, date, func(d *models.DayLog) error {
		for i, m := range d.Meals {
			if m.ID == mealID {
				d.Meals = append(d.Meals[:i], d.Meals[i+1:]...)
				return nil
			}
		}
		return common.ErrNotFound
	})
	if err != nil {
		return fmt.Errorf("delete meal %s: %w", mealID, err)
	}
	return nil
}

func (s *journalService) SetNotes(ctx context.Context, accountID, date, notes string) error {
	_, err := s.diary.UpdateDayLog(ctx, accountID, date, func(d *models.DayLog) error {
		d.Notes = strings.TrimSpace(notes)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set notes: %w", err)
	}
	return nil
}

// MealFromEstimate turns an estimator answer into a meal. Items get fresh ids;
// totals come from the estimate unless it has none.
func MealFromEstimate(est models.Estimate, mealType models.MealType, clock, description string) models.Meal {
	items := make([]models.FoodItem, len(est.Items))
	for i, it := range est.Items {
		it.ID = uuid.NewString()
		it.Source = models.SourceAIEstimated
		items[i] = it
	}

	totals := est.Totals
	if totals.IsZero() {
		totals = models.SumItems(items)
	}

	if description == "" {
		description = est.MealName
	}

	return models.Meal{
		ID:          uuid.NewString(),
		Type:        mealType,
		Time:        clock,
		Description: description,
		Items:       items,
		Totals:      totals,
		Disclaimer:  est.Disclaimer,
	}
}

// MealFromItems builds a meal from resolved database items with totals
// summed from them.
func MealFromItems(items []models.FoodItem, mealType models.MealType, clock string) models.Meal {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return models.Meal{
		ID:          uuid.NewString(),
		Type:        mealType,
		Time:        clock,
		Description: strings.Join(names, ", "),
		Items:       items,
		Totals:      models.SumItems(items),
		Disclaimer:  "Calculated from the reference food table.",
	}
}
