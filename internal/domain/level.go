package domain

// XPPerLevel is the width of one level band. Levels use flat bands, the same
// formula the backend applies: level = xp/100 + 1.
const XPPerLevel = 100

// XPRequiredForLevel returns the cumulative XP at which level is finished,
// which is also where level+1 starts.
func XPRequiredForLevel(level int) int {
	if level < 0 {
		return 0
	}
	return level * XPPerLevel
}

// LevelForXP returns the level a cumulative XP total falls into.
// The backend's level is authoritative; this is for previews and consistency checks.
func LevelForXP(totalXP int) int {
	if totalXP < 0 {
		return 1
	}
	return totalXP/XPPerLevel + 1
}

// LevelProgress describes how far a user is into the current level band.
type LevelProgress struct {
	CurrentLevelXP int     // XP earned inside the current band
	XPForNextLevel int     // Width of the band
	NextLevelAt    int     // Cumulative XP at which the next level starts
	Percentage     float64 // 0 to 100
}

// CurrentLevelProgress computes progress inside the current band for a
// progress bar. It never changes the level itself.
func CurrentLevelProgress(totalXP, currentLevel int) LevelProgress {
	cur := totalXP % XPPerLevel
	if cur < 0 {
		cur = 0
	}
	pct := float64(cur) / float64(XPPerLevel) * 100
	return LevelProgress{
		CurrentLevelXP: cur,
		XPForNextLevel: XPPerLevel,
		NextLevelAt:    XPRequiredForLevel(max(currentLevel, 1)),
		Percentage:     clamp(pct, 0, 100),
	}
}

// XPToNextLevel returns the XP still needed to leave the current band.
func XPToNextLevel(totalXP int) int {
	return XPPerLevel - CurrentLevelProgress(totalXP, LevelForXP(totalXP)).CurrentLevelXP
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
