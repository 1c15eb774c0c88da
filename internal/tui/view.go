package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dailyquest/dq/internal/domain"
)

// Layout heights around the task list.
const (
	headerHeight = 3
	footerHeight = 3
)

// levelBarWidth is the number of cells in the XP bar.
const levelBarWidth = 24

// View renders the board.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	if len(m.tasks) == 0 && !m.loading {
		b.WriteString(m.styles.Empty.Render("No tasks here. Press tab to switch lists or r to refresh."))
	} else {
		b.WriteString(m.taskList.View())
	}
	b.WriteString("\n\n")

	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(m.help.View(m.keys)))

	return b.String()
}

func (m *Model) viewHeader() string {
	title := m.styles.Header.Render("dq")

	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		style := m.styles.Tab
		if i == m.tab {
			style = m.styles.TabActive
		}
		parts = append(parts, style.Render(string(tab)))
	}
	tabsView := strings.Join(parts, "")

	var flags []string
	if m.dueToday {
		flags = append(flags, "due today")
	}
	if m.hideDone {
		flags = append(flags, "pending")
	}
	if len(flags) > 0 {
		tabsView += m.styles.TaskMeta.Render(" [" + strings.Join(flags, ", ") + "]")
	}

	left := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", tabsView)
	if m.user == nil {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", m.viewLevel(*m.user))
}

// viewLevel renders the level badge, XP bar and coins.
func (m *Model) viewLevel(u domain.User) string {
	p := u.Progress()
	filled := min(max(int(p.Percentage/100*levelBarWidth), 0), levelBarWidth)
	bar := m.styles.BarFull.Render(strings.Repeat("█", filled)) +
		m.styles.BarEmpty.Render(strings.Repeat("█", levelBarWidth-filled))
	return fmt.Sprintf("%s %s %s %s",
		m.styles.LevelBadge.Render(fmt.Sprintf("Lv %d", u.Level)),
		bar,
		m.styles.TaskMeta.Render(fmt.Sprintf("%d/%d XP", p.CurrentLevelXP, p.XPForNextLevel)),
		m.styles.Coins.Render(fmt.Sprintf("%d coins", u.Coins)),
	)
}

// viewStatus renders the spinner, effects, notice or error line.
func (m *Model) viewStatus() string {
	var parts []string
	if m.busy() {
		label := "syncing"
		if n := len(m.completing); n > 0 {
			label = fmt.Sprintf("saving %d", n)
		}
		parts = append(parts, m.spinner.View()+" "+m.styles.TaskMeta.Render(label))
	}
	if m.err != nil {
		parts = append(parts, m.styles.ErrorMsg.Render("Error: "+m.err.Error()))
	}
	if m.notice != "" {
		parts = append(parts, m.styles.Notice.Render(m.notice))
	}
	for _, e := range m.effects {
		parts = append(parts, m.styles.EffectStyle(e.Kind).Render(effectText(e)))
	}
	return " " + strings.Join(parts, "  ")
}

// effectText returns the announcement for an effect.
func effectText(e domain.Effect) string {
	switch e.Kind {
	case domain.EffectXPGained:
		return fmt.Sprintf("+%d XP", e.Amount)
	case domain.EffectLevelUp:
		return fmt.Sprintf("LEVEL UP! Level %d", e.Level)
	case domain.EffectStreakMilestone:
		return fmt.Sprintf("%d-day streak", e.Streak)
	case domain.EffectCelebration:
		return fmt.Sprintf("%d days in a row!", e.Streak)
	default:
		return string(e.Kind)
	}
}
