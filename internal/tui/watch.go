// Package tui implements the terminal live-countdown view. A 1 Hz tick
// drives the countdown; when the countdown reaches the target the next tick
// re-selects against the schedule, which rolls the view over to the next
// occurrence.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wildtrack/internal/model"
	"wildtrack/internal/schedule"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	countdownStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	liveStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	specialStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Snapshot supplies the latest schedule; the watch view calls it on every
// tick so a background refresh shows up without restarting the view.
type Snapshot func() model.Schedule

type tickMsg struct{ now time.Time }

// Model is the bubbletea model for the watch view.
type Model struct {
	snapshot    Snapshot
	specialOnly bool
	now         time.Time
}

// New builds a watch Model around the given snapshot source.
func New(snapshot Snapshot) Model {
	return Model{snapshot: snapshot, now: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{now: time.Now()} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = msg.now
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "s":
			m.specialOnly = !m.specialOnly
		}
	}
	return m, nil
}

func (m Model) View() string {
	sched := m.snapshot()
	if len(sched) == 0 {
		return dimStyle.Render("no rotation loaded yet") + "\n" + help()
	}

	sel := schedule.Select(sched, m.now)

	var target *model.Occurrence
	header := "Current event"
	if m.specialOnly {
		target = schedule.SelectSpecial(sched, m.now)
		header = "Next special event"
	} else {
		target = sel.Current
	}

	out := titleStyle.Render("Wilderness Flash Events") + "\n\n"

	if target == nil {
		out += dimStyle.Render("no upcoming special event in this rotation") + "\n"
		return out + help()
	}

	name := schedule.DisplayName(target.Name)
	if schedule.IsSpecial(target.Name) {
		name = specialStyle.Render(name + " ★")
	}
	out += fmt.Sprintf("%s: %s\n", header, name)

	cd := schedule.Countdown(target.Instant, m.now)
	if cd == schedule.CountdownLive {
		out += liveStyle.Render("Event is live now!") + "\n"
	} else {
		out += countdownStyle.Render(cd) + dimStyle.Render("  until "+target.Instant.Format("15:04")) + "\n"
	}

	if !m.specialOnly && len(sel.Upcoming) > 0 {
		out += "\n" + dimStyle.Render("Up next:") + "\n"
		max := len(sel.Upcoming)
		if max > 5 {
			max = 5
		}
		for _, occ := range sel.Upcoming[:max] {
			line := fmt.Sprintf("  %s  %s", occ.Instant.Format("15:04"), schedule.DisplayName(occ.Name))
			if schedule.IsSpecial(occ.Name) {
				line = specialStyle.Render(line + " ★")
			}
			out += line + "\n"
		}
	}

	return out + help()
}

func help() string {
	return "\n" + dimStyle.Render("s: toggle special-only  q: quit") + "\n"
}

// Run starts the watch view and blocks until the user quits.
func Run(snapshot Snapshot) error {
	_, err := tea.NewProgram(New(snapshot)).Run()
	return err
}
