package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MealType is a closed set of meal slots.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealOther     MealType = "other"
)

// MealTypes lists every meal type in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack, MealOther}

func ParseMealType(s string) (MealType, error) {
	t := MealType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown meal type %q", s)
	}
	return t, nil
}

func (t MealType) Valid() bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack, MealOther:
		return true
	}
	return false
}

// Label is the display name.
func (t MealType) Label() string {
	switch t {
	case MealBreakfast:
		return "Breakfast"
	case MealLunch:
		return "Lunch"
	case MealDinner:
		return "Dinner"
	case MealSnack:
		return "Snack"
	case MealOther:
		return "Other"
	}
	return string(t)
}

// MealTypeForHour suggests a slot for a meal logged at hour (0-23).
func MealTypeForHour(hour int) MealType {
	switch {
	case hour >= 5 && hour < 11:
		return MealBreakfast
	case hour >= 11 && hour < 15:
		return MealLunch
	case hour >= 18 && hour < 23:
		return MealDinner
	default:
		return MealSnack
	}
}

func (t *MealType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseMealType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// FoodSource tells where a FoodItem's numbers come from.
type FoodSource string

const (
	SourceAIEstimated FoodSource = "AI-ESTIMATED"
	SourceTACO        FoodSource = "TACO"
	SourceTBCA        FoodSource = "TBCA"
	SourceUSDA        FoodSource = "USDA"
	SourceManual      FoodSource = "MANUAL"
)

func ParseFoodSource(s string) (FoodSource, error) {
	src := FoodSource(strings.ToUpper(strings.TrimSpace(s)))
	if !src.Valid() {
		return "", fmt.Errorf("unknown food source %q", s)
	}
	return src, nil
}

func (s FoodSource) Valid() bool {
	switch s {
	case SourceAIEstimated, SourceTACO, SourceTBCA, SourceUSDA, SourceManual:
		return true
	}
	return false
}

// FromDatabase is true for reference-table sources, which carry exact values.
func (s FoodSource) FromDatabase() bool {
	switch s {
	case SourceTACO, SourceTBCA, SourceUSDA, SourceManual:
		return true
	case SourceAIEstimated:
		return false
	}
	return false
}

// UnmarshalJSON reads a missing or empty source as AI-estimated; items saved
// before sources existed have none.
func (s *FoodSource) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = SourceAIEstimated
		return nil
	}
	v, err := ParseFoodSource(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// VolumeUnit is the display unit for water amounts. Storage is always ml.
type VolumeUnit string

const (
	UnitMilliliters VolumeUnit = "ml"
	UnitLiters      VolumeUnit = "l"
)

func ParseVolumeUnit(s string) (VolumeUnit, error) {
	u := VolumeUnit(strings.ToLower(strings.TrimSpace(s)))
	switch u {
	case UnitMilliliters, UnitLiters:
		return u, nil
	}
	return "", fmt.Errorf("unknown volume unit %q", s)
}

// Format renders ml in the unit.
func (u VolumeUnit) Format(ml float64) string {
	switch u {
	case UnitLiters:
		return fmt.Sprintf("%.2f l", ml/1000)
	case UnitMilliliters:
		return fmt.Sprintf("%.0f ml", ml)
	}
	return fmt.Sprintf("%.0f ml", ml)
}
