// Package analytics derives streaks and rivalries by walking each player's
// match history. Nothing here is stored; every call recomputes from the
// match log.
package analytics

import (
	"sort"

	"github.com/kalstad/office-pong/internal/ladder"
)

// Streak is one player's current run of consecutive wins.
type Streak struct {
	Name   string `json:"name"`
	Streak int    `json:"streak"`
}

// CurrentStreak counts consecutive wins from the player's most recent match
// backwards until the first loss. Matches must be ordered newest first.
func CurrentStreak(playerID string, matches []ladder.Match) int {
	streak := 0
	for _, m := range matches {
		if m.WinnerID != playerID {
			break
		}
		streak++
	}
	return streak
}

// TopStreaks returns up to three players ordered by streak length, leaving
// out streaks of cutoff or shorter. Matches must be ordered newest first and
// span the whole office.
func TopStreaks(players []ladder.Player, matches []ladder.Match, cutoff int) []Streak {
	var streaks []Streak
	for _, player := range players {
		streak := CurrentStreak(player.ID, playerMatches(player.ID, matches))
		if streak > cutoff {
			streaks = append(streaks, Streak{Name: player.Name, Streak: streak})
		}
	}
	sort.SliceStable(streaks, func(i, j int) bool {
		return streaks[i].Streak > streaks[j].Streak
	})
	if len(streaks) > 3 {
		streaks = streaks[:3]
	}
	return streaks
}

// playerMatches filters an office's match list down to one player,
// preserving order.
func playerMatches(playerID string, matches []ladder.Match) []ladder.Match {
	var filtered []ladder.Match
	for _, m := range matches {
		if m.WinnerID == playerID || m.LoserID == playerID {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
