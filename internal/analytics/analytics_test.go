package analytics_test

import (
	"testing"

	"github.com/kalstad/office-pong/internal/analytics"
	"github.com/kalstad/office-pong/internal/ladder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func match(winnerID, winnerName, loserID, loserName string, playedAt int64) ladder.Match {
	return ladder.Match{
		ID:         winnerID + loserID + string(rune(playedAt)),
		WinnerID:   winnerID,
		WinnerName: winnerName,
		LoserID:    loserID,
		LoserName:  loserName,
		PlayedAt:   playedAt,
	}
}

func TestCurrentStreak(t *testing.T) {
	// Newest first: win, win, loss, win -> streak of 2.
	matches := []ladder.Match{
		match("a", "Anna", "b", "Bjørn", 400),
		match("a", "Anna", "c", "Carl", 300),
		match("b", "Bjørn", "a", "Anna", 200),
		match("a", "Anna", "b", "Bjørn", 100),
	}
	assert.Equal(t, 2, analytics.CurrentStreak("a", matches))
	assert.Equal(t, 0, analytics.CurrentStreak("b", matches))
}

func TestCurrentStreak_AllWins(t *testing.T) {
	matches := []ladder.Match{
		match("a", "Anna", "b", "Bjørn", 200),
		match("a", "Anna", "c", "Carl", 100),
	}
	assert.Equal(t, 2, analytics.CurrentStreak("a", matches))
}

func TestTopStreaks(t *testing.T) {
	players := []ladder.Player{
		{ID: "a", Name: "Anna"},
		{ID: "b", Name: "Bjørn"},
		{ID: "c", Name: "Carl"},
	}
	// Anna beat everyone three times in a row; Carl beat Bjørn once.
	matches := []ladder.Match{
		match("c", "Carl", "b", "Bjørn", 600),
		match("a", "Anna", "b", "Bjørn", 500),
		match("a", "Anna", "c", "Carl", 400),
		match("a", "Anna", "b", "Bjørn", 300),
	}

	streaks := analytics.TopStreaks(players, matches, 1)
	require.Len(t, streaks, 1, "streaks of one or shorter are excluded")
	assert.Equal(t, analytics.Streak{Name: "Anna", Streak: 3}, streaks[0])

	// Raising the cutoff drops Anna too.
	assert.Empty(t, analytics.TopStreaks(players, matches, 3))
}

func rivalryFixture() ([]ladder.Player, []ladder.Match) {
	players := []ladder.Player{
		{ID: "a", Name: "Anna"},
		{ID: "b", Name: "Bjørn"},
		{ID: "c", Name: "Carl"},
	}
	var matches []ladder.Match
	ts := int64(100)
	add := func(winnerID, winnerName, loserID, loserName string, n int) {
		for i := 0; i < n; i++ {
			matches = append(matches, match(winnerID, winnerName, loserID, loserName, ts))
			ts += 100
		}
	}
	// Anna vs Bjørn: 4-2 over six games, above the threshold.
	add("a", "Anna", "b", "Bjørn", 4)
	add("b", "Bjørn", "a", "Anna", 2)
	// Anna vs Carl: only three games, excluded regardless of outcome.
	add("a", "Anna", "c", "Carl", 3)
	return players, matches
}

func TestTopRivalries(t *testing.T) {
	players, matches := rivalryFixture()

	rivalries := analytics.TopRivalries(players, matches, 5)
	require.Len(t, rivalries, 1)

	// Anna leads 4-2 and is listed first; the symmetric Bjørn-side entry is
	// deduplicated away.
	assert.Equal(t, analytics.Rivalry{PlayerA: "Anna", PlayerB: "Bjørn", Games: [2]int{4, 2}}, rivalries[0])
}

func TestTopRivalries_CloserBeatsLopsided(t *testing.T) {
	players := []ladder.Player{
		{ID: "a", Name: "Anna"},
		{ID: "b", Name: "Bjørn"},
		{ID: "c", Name: "Carl"},
	}
	var matches []ladder.Match
	ts := int64(100)
	add := func(winnerID, winnerName, loserID, loserName string, n int) {
		for i := 0; i < n; i++ {
			matches = append(matches, match(winnerID, winnerName, loserID, loserName, ts))
			ts += 100
		}
	}
	// Anna vs Bjørn: dead even over eight games.
	add("a", "Anna", "b", "Bjørn", 4)
	add("b", "Bjørn", "a", "Anna", 4)
	// Anna vs Carl: ten games but completely one-sided.
	add("a", "Anna", "c", "Carl", 10)

	rivalries := analytics.TopRivalries(players, matches, 5)
	require.NotEmpty(t, rivalries)
	assert.Equal(t, [2]int{4, 4}, rivalries[0].Games, "the close rivalry outranks the one-sided one")
}

func TestTopRivalries_ThresholdIsStrict(t *testing.T) {
	players := []ladder.Player{{ID: "a", Name: "Anna"}, {ID: "b", Name: "Bjørn"}}
	var matches []ladder.Match
	for i := 0; i < 5; i++ {
		matches = append(matches, match("a", "Anna", "b", "Bjørn", int64(100*i)))
	}
	// Exactly five games does not qualify with the default minimum of five.
	assert.Empty(t, analytics.TopRivalries(players, matches, 5))
}
