package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/flipbook/internal/model"
)

// maxStatBars caps how many categories get a bar; the rest are listed only.
const maxStatBars = 12

// StatsModal charts entry counts per category.
type StatsModal struct{ *scrollModal }

// NewStatsModal builds the category statistics modal.
func NewStatsModal(counts []model.CategoryCount, total int64) *StatsModal {
	counts = append([]model.CategoryCount(nil), counts...)
	return &StatsModal{newScrollModal("stats", "Category Statistics", "i", func(width int) string {
		return renderStatsContent(counts, total, width)
	})}
}

var barPalette = []lipgloss.Color{"39", "78", "208", "170", "220", "75", "203", "114"}

func renderStatsContent(counts []model.CategoryCount, total int64, width int) string {
	if len(counts) == 0 {
		return lipgloss.NewStyle().Foreground(ColorGray).Render("No entries yet.")
	}

	bars := counts
	if len(bars) > maxStatBars {
		bars = bars[:maxStatBars]
	}

	barWidth := 3
	chartWidth := min(width, len(bars)*(barWidth+1))
	chartHeight := 10

	bc := barchart.New(chartWidth, chartHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(barWidth),
		barchart.WithNoAxis(),
	)
	for i, c := range bars {
		color := barPalette[i%len(barPalette)]
		bc.Push(barchart.BarData{
			Label: c.Category,
			Values: []barchart.BarValue{{
				Name:  c.Category,
				Value: float64(c.Count),
				Style: lipgloss.NewStyle().Foreground(color).Background(color),
			}},
		})
	}
	bc.Draw()

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d entries in %d categories", total, len(counts))))
	b.WriteString("\n\n")
	b.WriteString(bc.View())
	b.WriteString("\n\n")

	for i, c := range counts {
		swatch := "  "
		if i < len(bars) {
			color := barPalette[i%len(barPalette)]
			swatch = lipgloss.NewStyle().Background(color).Render("  ")
		}
		share := 0.0
		if total > 0 {
			share = float64(c.Count) * 100 / float64(total)
		}
		b.WriteString(fmt.Sprintf("%s %-20s %6d  %5.1f%%\n", swatch, truncate(c.Category, 20), c.Count, share))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
