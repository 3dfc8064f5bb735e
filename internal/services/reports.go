package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/aura/internal/models"
)

const reportDays = 7

// DailySummary is the home-screen view of one day.
type DailySummary struct {
	Date        string
	Water       float64
	WaterTarget float64
	Totals      models.Totals
	Meals       int
}

// WaterProgress is the share of the target reached, capped at 1.
func (d DailySummary) WaterProgress() float64 {
	if d.WaterTarget <= 0 {
		return 0
	}
	p := d.Water / d.WaterTarget
	if p > 1 {
		return 1
	}
	return p
}

// Remaining is how much water is still missing, never negative.
func (d DailySummary) Remaining() float64 {
	if r := d.WaterTarget - d.Water; r > 0 {
		return r
	}
	return 0
}

// DayPoint is one day of a report.
type DayPoint struct {
	Date     string
	Water    float64
	Calories float64
	GoalMet  bool
}

// WeeklyReport covers the seven days ending today, oldest first. Averages
// divide by seven, counting days without entries as zero.
type WeeklyReport struct {
	Days          []DayPoint
	WaterTarget   float64
	AvgWater      float64
	AvgCalories   float64
	DaysGoalMet   int
	TotalWater    float64
	TotalCalories float64
}

// HistoryEntry summarises a stored day for the history list.
type HistoryEntry struct {
	Date     string
	Water    float64
	Calories float64
	Meals    int
	HasNotes bool
}

type ReportService interface {
	Daily(ctx context.Context, accountID string, profile *models.UserProfile, date string) (DailySummary, error)
	Weekly(ctx context.Context, accountID string, profile *models.UserProfile, today time.Time) (WeeklyReport, error)
	// History lists stored days, newest first.
	History(ctx context.Context, accountID string) ([]HistoryEntry, error)
}

type reportService struct {
	diary DiaryService
}

func NewReportService(diary DiaryService) ReportService {
	return &reportService{diary: diary}
}

func (s *reportService) Daily(ctx context.Context, accountID string, profile *models.UserProfile, date string) (DailySummary, error) {
	day, err := s.diary.GetDayLog(ctx, accountID, date)
	if err != nil {
		return DailySummary{}, fmt.Errorf("daily summary: %w", err)
	}
	return DailySummary{
		Date:        date,
		Water:       day.WaterTotal(),
		WaterTarget: profile.WaterTarget(),
		Totals:      day.Totals(),
		Meals:       len(day.Meals),
	}, nil
}

func (s *reportService) Weekly(ctx context.Context, accountID string, profile *models.UserProfile, today time.Time) (WeeklyReport, error) {
	logs, err := s.diary.GetAllLogs(ctx, accountID)
	if err != nil {
		return WeeklyReport{}, fmt.Errorf("weekly report: %w", err)
	}

	r := WeeklyReport{WaterTarget: profile.WaterTarget(), Days: make([]DayPoint, 0, reportDays)}
	for i := reportDays - 1; i >= 0; i-- {
		date := models.DateOf(today.AddDate(0, 0, -i))
		p := DayPoint{Date: date}
		if d, ok := logs[date]; ok {
			p.Water = d.WaterTotal()
			p.Calories = d.Totals().Calories
		}
		p.GoalMet = p.Water >= r.WaterTarget
		if p.GoalMet {
			r.DaysGoalMet++
		}
		r.TotalWater += p.Water
		r.TotalCalories += p.Calories
		r.Days = append(r.Days, p)
	}

	r.AvgWater = r.TotalWater / reportDays
	r.AvgCalories = r.TotalCalories / reportDays
	return r, nil
}

func (s *reportService) History(ctx context.Context, accountID string) ([]HistoryEntry, error) {
	logs, err := s.diary.GetAllLogs(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	out := make([]HistoryEntry, 0, len(logs))
	for date, d := range logs {
		out = append(out, HistoryEntry{
			Date:     date,
			Water:    d.WaterTotal(),
			Calories: d.Totals().Calories,
			Meals:    len(d.Meals),
			HasNotes: d.Notes != "",
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}
