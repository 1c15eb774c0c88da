package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dailyquest/dq/internal/domain"
)

// Colors defines the color palette for the board.
var Colors = struct {
	// Base colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color

	// Title colors
	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color

	// Difficulty colors
	Easy   lipgloss.Color
	Medium lipgloss.Color
	Hard   lipgloss.Color

	// Gamification
	XP     lipgloss.Color
	Level  lipgloss.Color
	Streak lipgloss.Color
	BarBg  lipgloss.Color
}{
	Primary:   lipgloss.Color("#6C5CE7"), // Purple
	Secondary: lipgloss.Color("#A29BFE"), // Lavender
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#D63031"), // Red
	Success:   lipgloss.Color("#00B894"), // Green
	Warning:   lipgloss.Color("#FDCB6E"), // Yellow

	TitleNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TitleSelected: lipgloss.Color("#FFEAA7"), // Yellow

	Easy:   lipgloss.Color("#00B894"),
	Medium: lipgloss.Color("#FDCB6E"),
	Hard:   lipgloss.Color("#E17055"),

	XP:     lipgloss.Color("#55EFC4"),
	Level:  lipgloss.Color("#FFEAA7"),
	Streak: lipgloss.Color("#FAB1A0"),
	BarBg:  lipgloss.Color("#2D3436"),
}

// Styles contains all the lipgloss styles for the board.
type Styles struct {
	// Header
	Header     lipgloss.Style
	Tab        lipgloss.Style
	TabActive  lipgloss.Style
	LevelBadge lipgloss.Style
	BarFull    lipgloss.Style
	BarEmpty   lipgloss.Style
	Coins      lipgloss.Style

	// Task list
	TaskTitle          lipgloss.Style
	TaskTitleSelected  lipgloss.Style
	TaskTitleDone      lipgloss.Style
	TaskMeta           lipgloss.Style
	SelectionIndicator lipgloss.Style
	Pending            lipgloss.Style
	Check              lipgloss.Style

	// Difficulty badges
	Easy   lipgloss.Style
	Medium lipgloss.Style
	Hard   lipgloss.Style

	// Effects and notices
	XPGained lipgloss.Style
	LevelUp  lipgloss.Style
	Streak   lipgloss.Style
	Notice   lipgloss.Style
	ErrorMsg lipgloss.Style

	// Footer
	Footer lipgloss.Style
	Empty  lipgloss.Style
}

// DefaultStyles returns the default styles for the board.
func DefaultStyles() Styles {
	return Styles{
		Header:     lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary).PaddingLeft(1),
		Tab:        lipgloss.NewStyle().Foreground(Colors.Muted).Padding(0, 1),
		TabActive:  lipgloss.NewStyle().Foreground(Colors.TitleSelected).Bold(true).Underline(true).Padding(0, 1),
		LevelBadge: lipgloss.NewStyle().Foreground(Colors.Level).Bold(true),
		BarFull:    lipgloss.NewStyle().Foreground(Colors.Secondary),
		BarEmpty:   lipgloss.NewStyle().Foreground(Colors.BarBg),
		Coins:      lipgloss.NewStyle().Foreground(Colors.Warning),

		TaskTitle:          lipgloss.NewStyle().Foreground(Colors.TitleNormal),
		TaskTitleSelected:  lipgloss.NewStyle().Foreground(Colors.TitleSelected).Bold(true),
		TaskTitleDone:      lipgloss.NewStyle().Foreground(Colors.Muted).Strikethrough(true),
		TaskMeta:           lipgloss.NewStyle().Foreground(Colors.Muted),
		SelectionIndicator: lipgloss.NewStyle().Foreground(Colors.Primary),
		Pending:            lipgloss.NewStyle().Foreground(Colors.Warning),
		Check:              lipgloss.NewStyle().Foreground(Colors.Success),

		Easy:   lipgloss.NewStyle().Foreground(Colors.Easy),
		Medium: lipgloss.NewStyle().Foreground(Colors.Medium),
		Hard:   lipgloss.NewStyle().Foreground(Colors.Hard),

		XPGained: lipgloss.NewStyle().Foreground(Colors.XP).Bold(true),
		LevelUp:  lipgloss.NewStyle().Foreground(Colors.Level).Bold(true),
		Streak:   lipgloss.NewStyle().Foreground(Colors.Streak),
		Notice:   lipgloss.NewStyle().Foreground(Colors.Warning),
		ErrorMsg: lipgloss.NewStyle().Foreground(Colors.Error),

		Footer: lipgloss.NewStyle().PaddingLeft(1),
		Empty:  lipgloss.NewStyle().Foreground(Colors.Muted).PaddingLeft(2),
	}
}

// DifficultyStyle returns the badge style for a difficulty.
func (s Styles) DifficultyStyle(d domain.Difficulty) lipgloss.Style {
	switch d {
	case domain.DifficultyMedium:
		return s.Medium
	case domain.DifficultyHard:
		return s.Hard
	default:
		return s.Easy
	}
}

// EffectStyle returns the style an effect is announced with.
func (s Styles) EffectStyle(k domain.EffectKind) lipgloss.Style {
	switch k {
	case domain.EffectLevelUp, domain.EffectCelebration:
		return s.LevelUp
	case domain.EffectStreakMilestone:
		return s.Streak
	default:
		return s.XPGained
	}
}
