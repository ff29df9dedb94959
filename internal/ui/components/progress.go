package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/flashdeck/internal/ui/theme"
)

// ProgressBar shows how many of Total items are Done.
type ProgressBar struct {
	Done  int
	Total int
	Width int
}

// NewProgressBar creates a progress bar of the given rendered width.
func NewProgressBar(done, total, width int) ProgressBar {
	return ProgressBar{Done: done, Total: total, Width: width}
}

// Fraction returns Done/Total clamped to [0, 1].
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Done)/float64(p.Total), 0), 1)
}

// View renders the bar followed by a "done/total" counter.
func (p ProgressBar) View() string {
	counter := fmt.Sprintf(" %d/%d", p.Done, p.Total)
	barWidth := max(p.Width-len(counter), 4)
	filled := int(float64(barWidth) * p.Fraction())

	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		theme.Dim.Render(counter)
}
