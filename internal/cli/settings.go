package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/aura/internal/models"
)

// Settings shows the profile and edits one field at a time until the user
// leaves the menu. Every change saves the whole profile.
func (a *App) Settings(ctx context.Context) error {
	for {
		s, err := a.gate.ActiveSession()
		if err != nil {
			return err
		}
		p := s.Profile
		n := p.ReminderSettings()

		reminders := "off"
		if n.Enabled {
			reminders = fmt.Sprintf("every %d min", n.IntervalMinutes)
		}

		i, err := a.askChoice("Change which setting? (empty to leave)", []string{
			"Name: " + p.Name,
			fmt.Sprintf("Weight: %g kg", p.Weight),
			fmt.Sprintf("Height: %g cm", p.Height),
			fmt.Sprintf("Age: %d", p.Age),
			"Gender: " + string(p.Gender),
			"Daily water goal: " + profileUnit(p).Format(p.WaterGoal),
			fmt.Sprintf("Training day bonus: %t", p.TrainingDayBonus),
			"Display unit: " + string(profileUnit(p)),
			"Reminders: " + reminders,
			fmt.Sprintf("Reminder interval: %d min", n.IntervalMinutes),
		})
		if err != nil {
			return err
		}
		if i < 0 {
			return nil
		}

		changed, err := a.editSetting(ctx, i, *p)
		if err != nil {
			return err
		}
		if changed {
			a.printf("Saved.\n")
		}
	}
}

func (a *App) editSetting(ctx context.Context, field int, cur models.UserProfile) (bool, error) {
	var apply func(*models.UserProfile)

	switch field {
	case 0:
		v, err := getSimpleText(a.reader, "Name", a.out)
		if err != nil {
			return false, err
		}
		apply = func(p *models.UserProfile) { p.Name = v }
	case 1:
		v, err := a.askPositive("Weight (kg)", cur.Weight)
		if err != nil {
			return false, err
		}
		apply = func(p *models.UserProfile) { p.Weight = v }
	case 2:
		v, err := a.askPositive("Height (cm)", cur.Height)
		if err != nil {
			return false, err
		}
		apply = func(p *models.UserProfile) { p.Height = v }
	case 3:
		v, err := a.askPositiveInt("Age", cur.Age)
		if err != nil {
			return false, err
		}
		apply = func(p *models.UserProfile) { p.Age = v }
	case 4:
		v, err := a.askGender(cur.Gender)
		if err != nil {
			return false, err
		}
		apply = func(p *models.UserProfile) { p.Gender = v }
	case 5:
		a.printf("Suggested for %g kg: %.0f ml\n", cur.Weight, models.SuggestedWaterGoal(cur.Weight))
		v, err := a.askPositive("Daily water goal (ml)", cur.WaterGoal)
		if err != nil {
			return false, err
		}
		apply = func(p *models.UserProfile) { p.WaterGoal = v }
	case 6:
		apply = func(p *models.UserProfile) { p.TrainingDayBonus = !p.TrainingDayBonus }
	case 7:
		v, err := a.askUnit(cur.Unit)
		if err != nil {
			return false, err
		}
		apply = func(p *models.UserProfile) { p.Unit = v }
	case 8:
		now := a.nowFn().UnixMilli()
		apply = func(p *models.UserProfile) {
			n := p.ReminderSettings()
			n.Enabled = !n.Enabled
			n.LastNotified = &now
			p.Notifications = &n
		}
	case 9:
		opts := make([]string, len(models.ReminderIntervals))
		for i, m := range models.ReminderIntervals {
			opts[i] = fmt.Sprintf("%d min", m)
		}
		i, err := a.askChoice("Remind every", opts)
		if err != nil || i < 0 {
			return false, err
		}
		mins := models.ReminderIntervals[i]
		apply = func(p *models.UserProfile) {
			n := p.ReminderSettings()
			n.IntervalMinutes = mins
			p.Notifications = &n
		}
	default:
		return false, nil
	}

	if _, err := a.gate.UpdateProfile(ctx, func(p *models.UserProfile) error {
		apply(p)
		return nil
	}); err != nil {
		return false, err
	}
	return true, nil
}
