// Package render draws entry screens and profiles for a terminal.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/entry"
	"github.com/yourname/sleepdiary/internal/service"
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Faint(true).Width(10)
	valueStyle = lipgloss.NewStyle()
	chipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	hintStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

// Screen renders the entry screen. Blank fields render as blank rows.
func Screen(v entry.ViewModel) string {
	lines := []string{
		titleStyle.Render(strings.TrimSpace(v.Title + " " + v.FormattedDate)),
		"",
		row("Bed", v.BedTime),
		row("Wake", v.WakeTime),
		row("Duration", v.Duration),
		row("Quality", v.Quality),
		row("Factors", chips(v.Factors)),
	}
	if v.Notes != "" {
		lines = append(lines, "", v.Notes)
	}
	if v.CanEdit {
		lines = append(lines, "", hintStyle.Render("edit available (sleepdiary show --edit)"))
	}
	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func chips(names []string) string {
	if len(names) == 0 {
		return ""
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = chipStyle.Render(n)
	}
	return strings.Join(out, ", ")
}

func Profile(p *service.ProfileView) string {
	lines := []string{titleStyle.Render(p.Profile.Name), ""}
	if p.GoalBedTime != "" {
		lines = append(lines,
			row("Goal", fmt.Sprintf("%s to %s", p.GoalBedTime, p.GoalWakeTime)),
			row("Length", fmt.Sprintf("%dh %dm", p.GoalHours, p.GoalMinutes)),
		)
	}
	lines = append(lines, row("Factors", fmt.Sprintf("%d", len(p.Factors))))
	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Factors lists a catalog snapshot grouped by category.
func Factors(factors map[string]internal.SleepFactor) string {
	byCategory := make(map[string][]string)
	for _, f := range factors {
		cat := string(f.Category)
		if cat == "" {
			cat = "other"
		}
		byCategory[cat] = append(byCategory[cat], f.Name)
	}
	cats := make([]string, 0, len(byCategory))
	for c := range byCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	lines := []string{titleStyle.Render(fmt.Sprintf("%d sleep factors", len(factors)))}
	for _, c := range cats {
		names := byCategory[c]
		sort.Strings(names)
		lines = append(lines, row(c, chips(names)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
