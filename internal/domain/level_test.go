package domain

import "testing"

func TestXPRequiredForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{-1, 0},
		{0, 0},
		{1, 100},
		{2, 200},
		{10, 1000},
	}
	for _, tt := range tests {
		if got := XPRequiredForLevel(tt.level); got != tt.want {
			t.Errorf("XPRequiredForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{-5, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
	}
	for _, tt := range tests {
		if got := LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestCurrentLevelProgress(t *testing.T) {
	tests := []struct {
		name  string
		xp    int
		level int
		want  LevelProgress
	}{
		{"start", 0, 1, LevelProgress{CurrentLevelXP: 0, XPForNextLevel: 100, NextLevelAt: 100, Percentage: 0}},
		{"half of level 1", 50, 1, LevelProgress{CurrentLevelXP: 50, XPForNextLevel: 100, NextLevelAt: 100, Percentage: 50}},
		{"half of level 5", 450, 5, LevelProgress{CurrentLevelXP: 50, XPForNextLevel: 100, NextLevelAt: 500, Percentage: 50}},
		{"band boundary", 300, 4, LevelProgress{CurrentLevelXP: 0, XPForNextLevel: 100, NextLevelAt: 400, Percentage: 0}},
		{"negative xp", -20, 1, LevelProgress{CurrentLevelXP: 0, XPForNextLevel: 100, NextLevelAt: 100, Percentage: 0}},
		{"level below one", 30, 0, LevelProgress{CurrentLevelXP: 30, XPForNextLevel: 100, NextLevelAt: 100, Percentage: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentLevelProgress(tt.xp, tt.level)
			if got != tt.want {
				t.Errorf("CurrentLevelProgress(%d, %d) = %+v, want %+v", tt.xp, tt.level, got, tt.want)
			}
			if got.Percentage < 0 || got.Percentage > 100 {
				t.Errorf("percentage %v out of range", got.Percentage)
			}
		})
	}
}

func TestXPToNextLevel(t *testing.T) {
	if got := XPToNextLevel(130); got != 70 {
		t.Errorf("XPToNextLevel(130) = %d, want 70", got)
	}
	if got := XPToNextLevel(200); got != 100 {
		t.Errorf("XPToNextLevel(200) = %d, want 100", got)
	}
}
