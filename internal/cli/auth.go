package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/aura/internal/common"
	"github.com/dmitrijs2005/aura/internal/estimator"
	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/dmitrijs2005/aura/internal/services"
)

// Register asks for a name, an identifier and a password, creates the
// account and signs in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Your name", a.out)
	if err != nil {
		return err
	}
	identifier, err := getSimpleText(a.reader, "Enter email or username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	st, err := a.gate.Register(ctx, name, identifier, password)
	if err != nil {
		return err
	}
	a.printf("Account created.\n")
	a.afterLogin(st)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter email or username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	st, err := a.gate.Login(ctx, identifier, password)
	if err != nil {
		return err
	}
	a.afterLogin(st)
	return nil
}

func (a *App) afterLogin(st services.State) {
	switch st {
	case services.StateOnboarding:
		a.printf("Logged in. Let's set up your profile: type 'onboard'.\n")
	case services.StateActive:
		a.greet()
	}
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.gate.Logout(ctx); err != nil {
		return err
	}
	a.printf("Logged out.\n")
	return nil
}

// Onboard runs the profile questionnaire and activates the session.
func (a *App) Onboard(ctx context.Context) error {
	s, err := a.gate.Session()
	if err != nil {
		return err
	}

	name := s.Account.Name
	if s.Profile != nil && s.Profile.Name != "" {
		name = s.Profile.Name
	}
	p := models.NewOnboardingProfile(name)
	if s.Profile != nil {
		p = s.Profile.Clone()
	}

	if v, err := getSimpleText(a.reader, "Name ["+p.Name+"]", a.out); err != nil {
		return err
	} else if v != "" {
		p.Name = v
	}
	if p.Weight, err = a.askPositive("Weight (kg)", p.Weight); err != nil {
		return err
	}
	if p.Height, err = a.askPositive("Height (cm)", p.Height); err != nil {
		return err
	}
	if p.Age, err = a.askPositiveInt("Age", p.Age); err != nil {
		return err
	}
	if p.Gender, err = a.askGender(p.Gender); err != nil {
		return err
	}

	suggested := models.SuggestedWaterGoal(p.Weight)
	a.printf("Suggested water goal for %.0f kg: %.0f ml/day.\n", p.Weight, suggested)
	if p.WaterGoal, err = a.askPositive("Daily water goal (ml)", suggested); err != nil {
		return err
	}
	if p.Unit, err = a.askUnit(p.Unit); err != nil {
		return err
	}

	if err := a.gate.CompleteOnboarding(ctx, p); err != nil {
		return err
	}
	a.printf("All set, %s! Your goal is %s a day.\n", p.Name, p.Unit.Format(p.WaterGoal))
	return nil
}

func (a *App) askGender(def models.Gender) (models.Gender, error) {
	for {
		s, err := getSimpleText(a.reader, "Gender: male, female or other ["+string(def)+"]", a.out)
		if err != nil {
			return "", err
		}
		if s == "" {
			return def, nil
		}
		g, err := models.ParseGender(s)
		if err == nil {
			return g, nil
		}
		a.printf("%s\n", err)
	}
}

func (a *App) askUnit(def models.VolumeUnit) (models.VolumeUnit, error) {
	if def == "" {
		def = models.UnitMilliliters
	}
	for {
		s, err := getSimpleText(a.reader, "Display unit: ml or l ["+string(def)+"]", a.out)
		if err != nil {
			return "", err
		}
		if s == "" {
			return def, nil
		}
		u, err := models.ParseVolumeUnit(s)
		if err == nil {
			return u, nil
		}
		a.printf("%s\n", err)
	}
}

// userMessage turns service errors into text for the terminal.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid identifier or password"
	case errors.Is(err, common.ErrDuplicateIdentifier):
		return "an account with this email or username already exists"
	case errors.Is(err, common.ErrEstimationFailure):
		return "could not analyse the meal with AI, please try again"
	case errors.Is(err, estimator.ErrEmptyDescription):
		return "describe the meal first"
	case errors.Is(err, common.ErrNotAuthenticated):
		return "please log in first"
	}
	for _, target := range []error{common.ErrInvalidAmount, common.ErrNothingToUndo, common.ErrNotFound} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
