package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/dmitrijs2005/aura/internal/nutrition"
)

// Foods searches the reference table, or shows one food with "show <id>".
func (a *App) Foods(_ context.Context, args []string) error {
	if len(args) == 0 {
		a.printf("Usage: foods <query> | foods show <id>\n")
		return nil
	}
	if args[0] == "show" && len(args) == 2 {
		return showFood(a.out, a.catalog, args[1])
	}
	printFoods(a.out, a.catalog.Search(strings.Join(args, " ")))
	return nil
}

func printFoods(w io.Writer, foods []models.DatabaseFood) {
	if len(foods) == 0 {
		fmt.Fprintln(w, "No food found.")
		return
	}
	for _, f := range foods {
		fmt.Fprintf(w, "%-11s %-30s %6.0f kcal/100 g  %s\n", f.ID, f.Name, f.Per100g.Kcal, f.Source)
	}
}

func showFood(w io.Writer, c *nutrition.Catalog, id string) error {
	f, ok := c.FindByID(id)
	if !ok {
		return fmt.Errorf("food %s: not found", id)
	}

	fmt.Fprintf(w, "%s (%s)\n", f.Name, f.ID)
	fmt.Fprintf(w, "  Category: %s, state: %s, source: %s\n", f.Category, f.State, f.Source)
	if len(f.Synonyms) > 0 {
		fmt.Fprintf(w, "  Also known as: %s\n", strings.Join(f.Synonyms, ", "))
	}
	p := f.Per100g
	fmt.Fprintf(w, "  Per 100 g: %.0f kcal, carbs %s, protein %s, fat %s, fiber %s, sodium %s\n",
		p.Kcal, nutrient(p.CarbG, "g"), nutrient(p.ProtG, "g"), nutrient(p.FatG, "g"), nutrient(p.FiberG, "g"), nutrient(p.SodiumMg, "mg"))
	fmt.Fprintln(w, "  Servings:")
	for _, s := range f.ServingSizes {
		fmt.Fprintf(w, "    %s = %g g\n", s.Unit, s.Grams)
	}
	return nil
}

func nutrient(v *float64, unit string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f %s", *v, unit)
}
