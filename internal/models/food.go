package models

import "encoding/json"

// Per100g is the nutrient table of a reference food. Nil fields are unknown
// and count as zero in calculations.
type Per100g struct {
	Kcal     float64  `json:"kcal"`
	CarbG    *float64 `json:"carb_g"`
	ProtG    *float64 `json:"prot_g"`
	FatG     *float64 `json:"fat_g"`
	FiberG   *float64 `json:"fiber_g"`
	SodiumMg *float64 `json:"sodium_mg"`
}

// ServingSize converts a named household unit to grams.
type ServingSize struct {
	Unit  string  `json:"unit"`
	Grams float64 `json:"grams"`
}

// DatabaseFood is an entry of the read-only reference table.
type DatabaseFood struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Category     string        `json:"category"`
	State        string        `json:"state"`
	Synonyms     []string      `json:"synonyms"`
	Per100g      Per100g       `json:"per_100g"`
	Source       FoodSource    `json:"source"`
	ServingSizes []ServingSize `json:"servingSizes"`
}

// Serving finds the serving with the given unit label.
func (f DatabaseFood) Serving(unit string) (ServingSize, bool) {
	for _, s := range f.ServingSizes {
		if s.Unit == unit {
			return s, true
		}
	}
	return ServingSize{}, false
}

// FoodItem is one line of a meal, either estimated by the AI or resolved from
// the reference table. Values are fixed once the item is added to a meal.
type FoodItem struct {
	ID               string     `json:"id"`
	FoodID           string     `json:"foodId,omitempty"`
	Name             string     `json:"name"`
	Source           FoodSource `json:"source,omitempty"`
	QuantityText     string     `json:"quantityText"`
	SelectedQuantity float64    `json:"selectedQuantity,omitempty"`
	SelectedUnit     string     `json:"selectedUnit,omitempty"`
	EstimatedGrams   float64    `json:"estimatedGrams"`
	Calories         float64    `json:"calories"`
	ProteinG         float64    `json:"protein_g"`
	CarbsG           float64    `json:"carbs_g"`
	FatG             float64    `json:"fat_g"`
	FiberG           float64    `json:"fiber_g,omitempty"`
	SodiumMg         float64    `json:"sodium_mg,omitempty"`
	Confidence       float64    `json:"confidence"`
	Notes            string     `json:"notes,omitempty"`
}

// UnmarshalJSON fills in SourceAIEstimated for items stored without a source.
func (i *FoodItem) UnmarshalJSON(b []byte) error {
	type plain FoodItem
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.Source == "" {
		p.Source = SourceAIEstimated
	}
	*i = FoodItem(p)
	return nil
}

func (i FoodItem) Totals() Totals {
	return Totals{
		Calories: i.Calories,
		ProteinG: i.ProteinG,
		CarbsG:   i.CarbsG,
		FatG:     i.FatG,
		FiberG:   i.FiberG,
	}
}

// Estimate is the structured answer of the meal estimator.
type Estimate struct {
	MealName          string     `json:"mealName"`
	Items             []FoodItem `json:"items"`
	Totals            Totals     `json:"totals"`
	Disclaimer        string     `json:"disclaimer"`
	FollowUpQuestions []string   `json:"followUpQuestions"`
}

// Backup is the export document for one account.
type Backup struct {
	Profile *UserProfile      `json:"profile"`
	Logs    map[string]DayLog `json:"logs"`
}
