package summary

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"duetoday/internal/metrics"
)

// RefreshInterval is the slow periodic recompute.
const RefreshInterval = 60 * time.Second

// TickMsg triggers the periodic recompute.
type TickMsg time.Time

type Counts struct {
	Pending   int
	Completed int
	Total     int
}

// Chart is a two-slice pending/completed chart. It is created once and
// updated in place.
type Chart struct {
	Labels  [2]string
	Colors  [2]string
	Data    [2]int
	Updates int
}

func newChart(pending, completed int) *Chart {
	return &Chart{
		Labels: [2]string{"Pending", "Completed"},
		Colors: [2]string{"#f39c12", "#2ecc71"},
		Data:   [2]int{pending, completed},
	}
}

func (c *Chart) set(pending, completed int) {
	c.Data = [2]int{pending, completed}
	c.Updates++
}

// View draws the chart as a ring bar of the given width plus a legend.
func (c *Chart) View(width int) string {
	if width < 4 {
		width = 4
	}
	total := c.Data[0] + c.Data[1]

	var bar string
	if total == 0 {
		bar = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(strings.Repeat("○", width))
	} else {
		first := (c.Data[0]*width + total/2) / total
		bar = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Colors[0])).Render(strings.Repeat("●", first)) +
			lipgloss.NewStyle().Foreground(lipgloss.Color(c.Colors[1])).Render(strings.Repeat("●", width-first))
	}

	legend := make([]string, 0, 2)
	for i := range c.Labels {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Colors[i])).Render("■")
		legend = append(legend, fmt.Sprintf("%s %s %d", swatch, c.Labels[i], c.Data[i]))
	}
	return "(" + bar + ")  " + strings.Join(legend, "  ")
}

type Aggregator struct {
	counts  Counts
	chart   *Chart
	metrics *metrics.Metrics
	tick    func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

func New(m *metrics.Metrics) *Aggregator {
	if m == nil {
		m = metrics.New()
	}
	return &Aggregator{metrics: m, tick: tea.Tick}
}

// WithTicker swaps the scheduler used by Tick.
func (a *Aggregator) WithTicker(tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd) *Aggregator {
	a.tick = tick
	return a
}

// Update recomputes from the number of rows in each container.
func (a *Aggregator) Update(pendingRows, completedRows int) Counts {
	a.counts = Counts{
		Pending:   pendingRows,
		Completed: completedRows,
		Total:     pendingRows + completedRows,
	}

	if a.chart == nil {
		a.chart = newChart(pendingRows, completedRows)
	} else {
		a.chart.set(pendingRows, completedRows)
	}

	a.metrics.Pending.Set(float64(pendingRows))
	a.metrics.Completed.Set(float64(completedRows))
	return a.counts
}

func (a *Aggregator) Counts() Counts {
	return a.counts
}

// Chart is nil until the first Update.
func (a *Aggregator) Chart() *Chart {
	return a.chart
}

func (a *Aggregator) Tick() tea.Cmd {
	return a.tick(RefreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
