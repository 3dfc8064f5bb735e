// Package nutrition holds the built-in reference food table and turns a
// food plus a household quantity into a meal item.
package nutrition

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Catalog is a read-only set of reference foods.
type Catalog struct {
	foods []models.DatabaseFood
	byID  map[string]int
}

func NewCatalog(foods []models.DatabaseFood) *Catalog {
	c := &Catalog{foods: foods, byID: make(map[string]int, len(foods))}
	for i, f := range foods {
		c.byID[f.ID] = i
	}
	return c
}

var defaultCatalog = NewCatalog(foods)

// Default returns the catalog backed by the built-in table.
func Default() *Catalog { return defaultCatalog }

func (c *Catalog) Len() int { return len(c.foods) }

// All returns every food in table order.
func (c *Catalog) All() []models.DatabaseFood {
	out := make([]models.DatabaseFood, len(c.foods))
	copy(out, c.foods)
	return out
}

func (c *Catalog) FindByID(id string) (models.DatabaseFood, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.DatabaseFood{}, false
	}
	return c.foods[i], true
}

// Search matches query, case-insensitively, as a substring of a food's name
// or any of its synonyms. Foods whose name starts with the query come first;
// the rest of the order is alphabetical by name in Brazilian Portuguese.
// A blank query matches nothing.
func (c *Catalog) Search(query string) []models.DatabaseFood {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.DatabaseFood{}
	}

	out := make([]models.DatabaseFood, 0)
	for _, f := range c.foods {
		if matches(f, q) {
			out = append(out, f)
		}
	}

	col := collate.New(language.BrazilianPortuguese)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		ap, bp := strings.HasPrefix(a, q), strings.HasPrefix(b, q)
		if ap != bp {
			return ap
		}
		return col.CompareString(a, b) < 0
	})
	return out
}

func matches(f models.DatabaseFood, q string) bool {
	if strings.Contains(strings.ToLower(f.Name), q) {
		return true
	}
	for _, s := range f.Synonyms {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// Search runs against the built-in table.
func Search(query string) []models.DatabaseFood { return defaultCatalog.Search(query) }

// Resolve computes the meal item for quantity units of food. An unknown unit
// counts as one gram per unit; use food.Serving to detect that case.
func Resolve(food models.DatabaseFood, quantity float64, unit string) models.FoodItem {
	gramsPerUnit := 1.0
	if s, ok := food.Serving(unit); ok {
		gramsPerUnit = s.Grams
	}
	grams := quantity * gramsPerUnit

	return models.FoodItem{
		ID:               uuid.NewString(),
		FoodID:           food.ID,
		Name:             food.Name,
		Source:           food.Source,
		QuantityText:     fmt.Sprintf("%g %s", quantity, unit),
		SelectedQuantity: quantity,
		SelectedUnit:     unit,
		EstimatedGrams:   grams,
		Calories:         math.Round(food.Per100g.Kcal * grams / 100),
		ProteinG:         scale(food.Per100g.ProtG, grams),
		CarbsG:           scale(food.Per100g.CarbG, grams),
		FatG:             scale(food.Per100g.FatG, grams),
		FiberG:           scale(food.Per100g.FiberG, grams),
		SodiumMg:         scale(food.Per100g.SodiumMg, grams),
		Confidence:       1,
		Notes:            fmt.Sprintf("Estado: %s. Fonte: %s.", food.State, food.Source),
	}
}

func scale(per100 *float64, grams float64) float64 {
	if per100 == nil {
		return 0
	}
	return models.Round1(*per100 * grams / 100)
}
