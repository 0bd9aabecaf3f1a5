package ui

import (
	"fmt"
	"strings"

	plot "github.com/chriskim06/drawille-go"

	"github.com/rankdeck/rankdeck/pkg/heat"
	"github.com/rankdeck/rankdeck/pkg/trend"
)

// renderTrendPanel draws the in-terminal braille chart for the selected
// title, with a summary line of the series statistics. The PNG/SVG
// renderer in pkg/export handles file output; this one only has to be
// legible in a cell grid.
func renderTrendPanel(title string, s trend.Series, width, height int) string {
	if width < 20 || height < 6 {
		return ""
	}
	header := panelTitleStyle.Render("热度趋势") + " " +
		truncateWidth(title, width-14)

	if s.Empty() {
		return panelStyle.Width(width).Render(header + "\n" + mutedStyle.Render("暂无历史数据"))
	}

	summary := trendSummary(s)

	plotH := height - 4
	if plotH < 3 {
		plotH = 3
	}
	canvas := plot.NewCanvas(width-4, plotH)
	canvas.ShowAxis = false
	canvas.NumDataPoints = len(s.Points)

	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.HeatValue
	}
	canvas.Fill([][]float64{values})

	body := strings.TrimRight(canvas.String(), "\n")
	axis := trendAxis(s, width-4)

	return panelStyle.Width(width).Render(
		header + "\n" + summary + "\n" + body + "\n" + axis)
}

// trendSummary is the one-line digest shown above the plot.
func trendSummary(s trend.Series) string {
	parts := []string{
		"最新 " + heat.Format(s.Latest),
		"最高 " + heat.Format(s.Max),
	}
	if s.MinPositive > 0 {
		parts = append(parts, "最低 "+heat.Format(s.MinPositive))
	}
	if s.Change != nil {
		parts = append(parts, "变化 "+formatDelta(*s.Change))
	}
	parts = append(parts, fmt.Sprintf("%d 天", len(s.Points)))
	return mutedStyle.Render(strings.Join(parts, "  "))
}

// trendAxis renders first and last dates at the plot edges.
func trendAxis(s trend.Series, width int) string {
	if len(s.Points) == 0 || width < 12 {
		return ""
	}
	first := s.Points[0].Date
	last := s.Points[len(s.Points)-1].Date
	gap := width - cellWidth(first) - cellWidth(last)
	if gap < 1 {
		return mutedStyle.Render(last)
	}
	return mutedStyle.Render(first + strings.Repeat(" ", gap) + last)
}
