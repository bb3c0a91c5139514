// Package shoppinglist sums the ingredients of every recipe in a user's
// shopping cart and renders the totals as a plain text download.
package shoppinglist

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/metrics"
)

const (
	Header      = "Shopping list"
	ContentType = "text/plain; charset=utf-8"
	Filename    = "shopping_list.txt"
)

// Line is the total amount of one ingredient. Ingredients are grouped by
// name and measurement unit, so the same name in two units yields two
// lines.
type Line struct {
	Name            string
	MeasurementUnit string
	Total           int64
}

func (l Line) String() string {
	return fmt.Sprintf("%s %d %s", l.Name, l.Total, l.MeasurementUnit)
}

// Build returns the lines ordered by name, then unit.
func Build(ctx context.Context, env *env.Env, userID int64) ([]Line, error) {
	env.Logger.DebugContext(ctx, "aggregating shopping list")
	rows, err := env.Database.GetShoppingList(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregating shopping list: %w", err)
	}

	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, Line{
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Total:           row.TotalAmount,
		})
	}
	metrics.ShoppingListLines.Observe(float64(len(lines)))
	return lines, nil
}

// Render writes the header followed by one line per ingredient.
func Render(w io.Writer, lines []Line) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
