package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/usecase"
)

// shortIDLen is how much of a task UUID is shown in tables.
const shortIDLen = 8

// levelBarWidth is the number of cells in the XP bar.
const levelBarWidth = 20

var (
	xpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true)
	levelUpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308")).Bold(true)
	streakStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f97316"))
	celebrateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ec4899")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	barFullStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b5cf6"))
	barEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))
	headingStyle   = lipgloss.NewStyle().Bold(true)
)

// shortID returns the display prefix of a task ID.
func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// renderEffect returns the announcement line for one effect.
func renderEffect(e domain.Effect) string {
	switch e.Kind {
	case domain.EffectXPGained:
		return xpStyle.Render(fmt.Sprintf("+%d XP", e.Amount))
	case domain.EffectLevelUp:
		return levelUpStyle.Render(fmt.Sprintf("LEVEL UP! You reached level %d", e.Level))
	case domain.EffectStreakMilestone:
		return streakStyle.Render(fmt.Sprintf("%d-day streak", e.Streak))
	case domain.EffectCelebration:
		return celebrateStyle.Render(fmt.Sprintf("%d-day streak! Keep it going!", e.Streak))
	default:
		return string(e.Kind)
	}
}

// writeEffects prints the effects of a completion in order.
func writeEffects(w io.Writer, effects []domain.Effect) {
	for _, e := range effects {
		_, _ = fmt.Fprintf(w, "  %s\n", renderEffect(e))
	}
}

// renderLevelBar returns a one-line progress bar for the user's level band.
func renderLevelBar(u domain.User) string {
	p := u.Progress()
	filled := int(p.Percentage / 100 * levelBarWidth)
	filled = min(max(filled, 0), levelBarWidth)
	bar := barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", levelBarWidth-filled))
	return fmt.Sprintf("Lv %d %s %d/%d XP", u.Level, bar, p.CurrentLevelXP, p.XPForNextLevel)
}

// writeUserLine prints the level bar and coin balance.
func writeUserLine(w io.Writer, u domain.User) {
	_, _ = fmt.Fprintf(w, "%s  %d coins\n", renderLevelBar(u), u.Coins)
}

// completionMark returns the checkbox for a reconciled completion state.
func completionMark(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// taskSchedule describes when a task is due.
func taskSchedule(t domain.Task, now time.Time) string {
	switch t := t.(type) {
	case domain.Habit:
		return domain.DescribeSchedule(t)
	case domain.Todo:
		if t.Deadline == nil {
			return "-"
		}
		s := "due " + t.Deadline.In(now.Location()).Format("2006-01-02 15:04")
		if t.IsOverdue(now) {
			s += " (overdue)"
		}
		return s
	}
	return "-"
}

// writeTaskTable prints tasks as a table.
func writeTaskTable(w io.Writer, views []usecase.TaskView, now time.Time) {
	if len(views) == 0 {
		_, _ = fmt.Fprintln(w, "No tasks found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tDONE\tTYPE\tDIFFICULTY\tXP\tSCHEDULE\tTAGS\tTITLE")
	for _, v := range views {
		base := v.Task.Common()
		tags := "-"
		if len(base.Tags) > 0 {
			tags = strings.Join(base.TagNames(), ",")
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			shortID(base.ID),
			completionMark(v.Completed),
			v.Task.Type(),
			base.Difficulty.Display(),
			domain.PreviewXP(v.Task),
			taskSchedule(v.Task, now),
			tags,
			base.Title,
		)
	}
}

// writeTaskDetail prints one task with its derived state.
func writeTaskDetail(w io.Writer, out *usecase.ShowTaskOutput, now time.Time) {
	base := out.Task.Common()
	_, _ = fmt.Fprintf(w, "%s %s\n", headingStyle.Render(base.Title), mutedStyle.Render("("+base.ID+")"))
	_, _ = fmt.Fprintf(w, "Type: %s\n", out.Task.Type())
	_, _ = fmt.Fprintf(w, "Difficulty: %s (%d XP)\n", base.Difficulty.Display(), out.XPPreview)
	_, _ = fmt.Fprintf(w, "Completed: %s\n", yesNo(out.Completed))
	if base.Description != "" {
		_, _ = fmt.Fprintf(w, "Description: %s\n", base.Description)
	}
	if len(base.Tags) > 0 {
		_, _ = fmt.Fprintf(w, "Tags: %s\n", strings.Join(base.TagNames(), ", "))
	}

	switch t := out.Task.(type) {
	case domain.Habit:
		_, _ = fmt.Fprintf(w, "Schedule: %s\n", domain.DescribeSchedule(t))
		_, _ = fmt.Fprintf(w, "Due today: %s\n", yesNo(out.DueToday))
		if t.FrequencyType == domain.FrequencyWeeklyTimes {
			_, _ = fmt.Fprintf(w, "Remaining this week: %d\n", out.RemainingWeek)
		}
		_, _ = fmt.Fprintf(w, "Streak: %d (best %d)\n", t.CurrentStreak, t.BestStreak)
		if t.LastCompletedAt != nil {
			_, _ = fmt.Fprintf(w, "Last completed: %s\n", t.LastCompletedAt.In(now.Location()).Format("2006-01-02 15:04"))
		}
	case domain.Todo:
		_, _ = fmt.Fprintf(w, "Deadline: %s\n", taskSchedule(t, now))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
