package models

import (
	"math"
	"math/big"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DateOf formats t as a local calendar date key.
func DateOf(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}

// ClockOf formats t as HH:MM in local time.
func ClockOf(t time.Time) string {
	return t.In(time.Local).Format(TimeLayout)
}

// ParseDate validates a YYYY-MM-DD key.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// WaterLog is a single intake. Amount is in ml.
type WaterLog struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Time   string  `json:"time"`
}

// Totals are macro sums. Calories are kcal, the rest grams.
type Totals struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

func (t Totals) Add(o Totals) Totals {
	return Totals{
		Calories: t.Calories + o.Calories,
		ProteinG: t.ProteinG + o.ProteinG,
		CarbsG:   t.CarbsG + o.CarbsG,
		FatG:     t.FatG + o.FatG,
		FiberG:   t.FiberG + o.FiberG,
	}
}

// Rounded rounds calories to an integer and macros to one decimal.
func (t Totals) Rounded() Totals {
	return Totals{
		Calories: math.Round(t.Calories),
		ProteinG: Round1(t.ProteinG),
		CarbsG:   Round1(t.CarbsG),
		FatG:     Round1(t.FatG),
		FiberG:   Round1(t.FiberG),
	}
}

// IsZero reports whether every field is zero.
func (t Totals) IsZero() bool {
	return t == Totals{}
}

// SumItems adds up the items' macros.
func SumItems(items []FoodItem) Totals {
	var t Totals
	for _, it := range items {
		t = t.Add(it.Totals())
	}
	return t.Rounded()
}

// Round1 rounds to one decimal place. Ties are decided on the exact binary
// value and go away from zero, so 0.15 (stored as 0.1499...) gives 0.1 and
// 0.25 gives 0.3.
func Round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= 1e15 {
		return v
	}
	x := new(big.Float).SetPrec(128).SetFloat64(math.Abs(v))
	x.Mul(x, big.NewFloat(10))
	n, _ := x.Int(nil)
	frac := new(big.Float).SetPrec(128).Sub(x, new(big.Float).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}
	r := float64(n.Int64()) / 10
	if v < 0 && r != 0 {
		return -r
	}
	return r
}

// Meal groups food items. Totals are computed when the meal is saved and are
// not recalculated afterwards.
type Meal struct {
	ID          string     `json:"id"`
	Type        MealType   `json:"type"`
	Time        string     `json:"time"`
	Description string     `json:"description"`
	Items       []FoodItem `json:"items"`
	Totals      Totals     `json:"totals"`
	Disclaimer  string     `json:"disclaimer"`
}

// DayLog is everything recorded for one account on one local date.
type DayLog struct {
	Date      string     `json:"date"`
	WaterLogs []WaterLog `json:"waterLogs"`
	Meals     []Meal     `json:"meals"`
	Notes     string     `json:"notes"`
}

// NewDayLog returns an empty log for date with non-nil collections.
func NewDayLog(date string) DayLog {
	return DayLog{Date: date, WaterLogs: []WaterLog{}, Meals: []Meal{}}
}

// Normalize replaces nil collections with empty ones so JSON stays [] not null.
func (d *DayLog) Normalize() {
	if d.WaterLogs == nil {
		d.WaterLogs = []WaterLog{}
	}
	if d.Meals == nil {
		d.Meals = []Meal{}
	}
	for i := range d.Meals {
		if d.Meals[i].Items == nil {
			d.Meals[i].Items = []FoodItem{}
		}
	}
}

func (d DayLog) WaterTotal() float64 {
	var sum float64
	for _, w := range d.WaterLogs {
		sum += w.Amount
	}
	return sum
}

// Totals sums the stored meal totals.
func (d DayLog) Totals() Totals {
	var t Totals
	for _, m := range d.Meals {
		t = t.Add(m.Totals)
	}
	return t.Rounded()
}

// IsEmpty is true when nothing was recorded.
func (d DayLog) IsEmpty() bool {
	return len(d.WaterLogs) == 0 && len(d.Meals) == 0 && d.Notes == ""
}
