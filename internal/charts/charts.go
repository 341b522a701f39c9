// Package charts renders the dashboard charts: the per-category split and
// the per-expense history, both as PNG.
package charts

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"budgetapp/internal/core"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to chart")

// Renderer holds the output dimensions.
type Renderer struct {
	Width  int
	Height int
}

func NewRenderer() Renderer {
	return Renderer{Width: 800, Height: 500}
}

// CategoryPie draws the share of each category in the total.
func (r Renderer) CategoryPie(w io.Writer, parts []core.CategoryAmount) error {
	var total int64
	values := make([]chart.Value, 0, len(parts))
	for _, p := range parts {
		if p.Amount.Cents <= 0 {
			continue
		}
		total += p.Amount.Cents
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s€", p.Category, p.Amount),
			Value: p.Amount.Euros(),
			Style: chart.Style{FillColor: color(p.Category)},
		})
	}
	if total == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Title:  "Répartition",
		Width:  r.Width,
		Height: r.Height,
		Values: values,
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render category pie: %w", err)
	}
	return nil
}

// ExpenseBars draws one bar per expense, in the order given.
func (r Renderer) ExpenseBars(w io.Writer, expenses []core.Expense) error {
	if len(expenses) == 0 {
		return ErrNoData
	}
	bars := make([]chart.Value, 0, len(expenses))
	var max float64
	for _, e := range expenses {
		v := e.Amount.Euros()
		if v > max {
			max = v
		}
		bars = append(bars, chart.Value{
			Label: e.Category.String(),
			Value: v,
			Style: chart.Style{FillColor: color(e.Category), StrokeColor: color(e.Category)},
		})
	}

	barWidth, spacing := barLayout(r.Width, len(bars))
	graph := chart.BarChart{
		Title:      "Historique",
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: max * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f€", f)
				}
				return ""
			},
		},
		Bars: bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render expense bars: %w", err)
	}
	return nil
}

// barLayout splits the drawable width between bars and gaps so any number
// of bars fits the canvas.
func barLayout(width, n int) (barWidth, spacing int) {
	per := (width - 150) / n
	if per < 3 {
		per = 3
	}
	barWidth = per * 2 / 3
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 2 {
		barWidth = 2
	}
	spacing = per - barWidth
	if spacing < 1 {
		spacing = 1
	}
	return barWidth, spacing
}

func color(c core.Category) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(c.Color(), "#"))
}
