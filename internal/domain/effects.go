package domain

// EffectKind identifies a user-facing consequence of a gamification transaction.
type EffectKind string

// Effect kinds, listed in emission order.
const (
	EffectXPGained        EffectKind = "xp_gained"
	EffectLevelUp         EffectKind = "level_up"
	EffectStreakMilestone EffectKind = "streak_milestone"
	EffectCelebration     EffectKind = "celebration"
)

// StreakCelebrationInterval is the streak length whose multiples are celebrated.
const StreakCelebrationInterval = 7

// Effect is one thing the presentation layer should announce.
// Only the fields relevant to Kind are set.
type Effect struct {
	Kind   EffectKind `json:"kind"`
	Amount int        `json:"amount,omitempty"` // XP gained
	Level  int        `json:"level,omitempty"`  // New level
	Streak int        `json:"streak,omitempty"` // Current streak
}

// ProcessCompletion turns a completion response into the ordered effects
// to announce. previousLevel is the level held before the request.
// It performs no I/O.
func ProcessCompletion(resp CompleteResponse, previousLevel Numeric) []Effect {
	var effects []Effect

	if xp := resp.Completion.XPEarned; xp > 0 {
		effects = append(effects, Effect{Kind: EffectXPGained, Amount: xp})
	}

	// A response without a user skips level detection; other effects still apply.
	if resp.User != nil && NumericGreater(resp.User.Level, previousLevel) {
		level, _ := resp.User.Level.Int()
		effects = append(effects, Effect{Kind: EffectLevelUp, Level: level})
	}

	if resp.Streak != nil {
		streak := resp.Streak.CurrentStreak
		if streak > 1 {
			effects = append(effects, Effect{Kind: EffectStreakMilestone, Streak: streak})
		}
		if streak > 0 && streak%StreakCelebrationInterval == 0 {
			effects = append(effects, Effect{Kind: EffectCelebration, Streak: streak})
		}
	}

	return effects
}

// HasEffect reports whether effects contains one of kind.
func HasEffect(effects []Effect, kind EffectKind) bool {
	for _, e := range effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// ApplyTransaction returns the user snapshot after a completion. When the
// response carries no usable user, prev is returned with ok false and the
// caller should refresh from the backend.
func ApplyTransaction(prev User, resp CompleteResponse) (User, bool) {
	if resp.User == nil {
		return prev, false
	}
	next, ok := resp.User.User()
	if !ok {
		return prev, false
	}
	if next.ID == "" {
		next.ID = prev.ID
	}
	if next.Username == "" {
		next.Username = prev.Username
	}
	if next.Email == "" {
		next.Email = prev.Email
	}
	return next, true
}

// CoinsGained returns the coin delta between two snapshots, never negative.
func CoinsGained(prev, next User) int {
	return max(0, next.Coins-prev.Coins)
}
