package domain

import (
	"fmt"
	"strings"
)

// Difficulty represents how hard a task is. It determines the XP value.
type Difficulty string

// Difficulty values.
const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// difficultyXP is the only difficulty-to-XP map in the codebase.
var difficultyXP = map[Difficulty]int{
	DifficultyEasy:   10,
	DifficultyMedium: 20,
	DifficultyHard:   30,
}

// AllDifficulties returns all difficulties from easiest to hardest.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// IsValid returns true if the difficulty is known.
func (d Difficulty) IsValid() bool {
	_, ok := difficultyXP[d]
	return ok
}

// XP returns the XP value of the difficulty, or 0 if it is unknown.
func (d Difficulty) XP() int {
	return difficultyXP[d]
}

// Rank orders difficulties from easiest (0) to hardest. Unknown values sort last.
func (d Difficulty) Rank() int {
	for i, v := range AllDifficulties() {
		if v == d {
			return i
		}
	}
	return len(difficultyXP)
}

// Display returns a lowercase label.
func (d Difficulty) Display() string {
	return strings.ToLower(string(d))
}

// ParseDifficulty parses a difficulty case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", NewValidationError("difficulty", fmt.Sprintf("unknown difficulty %q (want easy, medium or hard)", s))
	}
	return d, nil
}
