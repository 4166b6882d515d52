package replay_test

import (
	"testing"
	"time"

	"github.com/kalstad/office-pong/internal/ladder"
	"github.com/kalstad/office-pong/internal/rating"
	"github.com/kalstad/office-pong/internal/replay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// history builds an oldest-first match log. Stored rating fields are filled
// with stale values on purpose: replays must only trust winner/loser and
// order, never the stored ratings.
func history() []ladder.Match {
	matches := []ladder.Match{
		{ID: "m1", WinnerID: "a", WinnerName: "Anna", LoserID: "b", LoserName: "Bjørn", PlayedAt: 1000},
		{ID: "m2", WinnerID: "a", WinnerName: "Anna", LoserID: "c", LoserName: "Carl", PlayedAt: 2000},
		{ID: "m3", WinnerID: "b", WinnerName: "Bjørn", LoserID: "a", LoserName: "Anna", PlayedAt: 3000},
	}
	for i := range matches {
		matches[i].OfficeID = "office1"
		matches[i].WinnerRating = 9999
		matches[i].LoserRating = 9999
	}
	return matches
}

func TestSimulate_Standard(t *testing.T) {
	standings := replay.Simulate(rating.Standard, history())
	require.Len(t, standings, 3)

	// m1: both 1200, delta 16 -> Anna 1216, Bjørn 1184.
	// m2: Anna 1216 vs Carl 1200, delta round(32/(1+10^(16/400))) = 15 -> Anna 1231, Carl 1185.
	// m3: Bjørn 1184 beats Anna 1231, delta round(32 * 0.5674) = 18 -> Bjørn 1202, Anna 1213.
	byName := map[string]replay.Standing{}
	for _, s := range standings {
		byName[s.Name] = s
	}
	assert.Equal(t, 1213, byName["Anna"].Rating)
	assert.Equal(t, 1202, byName["Bjørn"].Rating)
	assert.Equal(t, 1185, byName["Carl"].Rating)
	assert.Equal(t, 3, byName["Anna"].Games)
	assert.Equal(t, 2, byName["Bjørn"].Games)
	assert.Equal(t, 1, byName["Carl"].Games)

	// Sorted by rating, highest first.
	assert.Equal(t, "Anna", standings[0].Name)
	assert.Equal(t, "Carl", standings[2].Name)
}

func TestSimulate_Idempotent(t *testing.T) {
	first := replay.Simulate(rating.SmallUpset, history())
	second := replay.Simulate(rating.SmallUpset, history())
	assert.Equal(t, first, second)
}

func TestSimulate_EmptyHistory(t *testing.T) {
	assert.Empty(t, replay.Simulate(rating.Standard, nil))
}

func TestRewrite_ProducesReplayableHistory(t *testing.T) {
	rewrites, finals := replay.Rewrite(rating.Standard, history())
	require.Len(t, rewrites, 3)

	// First match starts from scratch.
	assert.Equal(t, ladder.RatedMatch{MatchID: "m1", WinnerRating: 1200, LoserRating: 1200, WinnerDelta: 16, LoserDelta: -16}, rewrites[0])

	// Every rewritten match chains exactly from the previous state, so
	// winnerRatingAfter = winnerRatingBefore + winnerDelta holds throughout.
	assert.Equal(t, 1216, rewrites[1].WinnerRating)
	assert.Equal(t, 1200, rewrites[1].LoserRating)
	assert.Equal(t, rewrites[1].WinnerDelta, -rewrites[1].LoserDelta)

	// Final ratings match a plain simulation of the same history.
	standings := replay.Simulate(rating.Standard, history())
	byName := map[string]int{}
	for _, s := range standings {
		byName[s.Name] = s.Rating
	}
	assert.Equal(t, byName["Anna"], finals["a"])
	assert.Equal(t, byName["Bjørn"], finals["b"])
	assert.Equal(t, byName["Carl"], finals["c"])
}

func TestSeries_SeedsAndFinalSamples(t *testing.T) {
	now := time.Unix(10000, 0)
	matches := []ladder.Match{
		{ID: "m1", WinnerID: "a", LoserID: "b", WinnerRating: 1200, LoserRating: 1200, WinnerDelta: 16, LoserDelta: -16, PlayedAt: 5000},
		{ID: "m2", WinnerID: "b", LoserID: "a", WinnerRating: 1184, LoserRating: 1216, WinnerDelta: 20, LoserDelta: -20, PlayedAt: 6000},
	}
	players := []ladder.Player{
		{ID: "a", Name: "Anna", Rating: 1196},
		{ID: "b", Name: "Bjørn", Rating: 1204},
		{ID: "c", Name: "Carl", Rating: 1200},
	}

	series := replay.Series(matches, players, now)
	require.Len(t, series, 2, "players with no matches are omitted")

	anna := series[0]
	assert.Equal(t, "Anna", anna.PlayerName)
	require.Len(t, anna.Series, 4)
	assert.Equal(t, replay.Sample{Timestamp: 5000 - 3600, Rating: 1200}, anna.Series[0], "seeded one hour before the first match")
	assert.Equal(t, replay.Sample{Timestamp: 5000, Rating: 1216}, anna.Series[1])
	assert.Equal(t, replay.Sample{Timestamp: 6000, Rating: 1196}, anna.Series[2])
	assert.Equal(t, replay.Sample{Timestamp: 10000, Rating: 1196}, anna.Series[3], "closed with the current stored rating")

	bjorn := series[1]
	require.Len(t, bjorn.Series, 4)
	assert.Equal(t, replay.Sample{Timestamp: 6000, Rating: 1204}, bjorn.Series[2])
}

func TestSeries_DeletedPlayerDropsOffChart(t *testing.T) {
	matches := []ladder.Match{
		{ID: "m1", WinnerID: "a", LoserID: "gone", WinnerRating: 1200, LoserRating: 1200, WinnerDelta: 16, LoserDelta: -16, PlayedAt: 5000},
	}
	players := []ladder.Player{{ID: "a", Name: "Anna", Rating: 1216}}

	series := replay.Series(matches, players, time.Unix(9000, 0))
	require.Len(t, series, 1)
	assert.Equal(t, "Anna", series[0].PlayerName)
}

func TestOfficeSeries_AttributesCorrectSide(t *testing.T) {
	office := ladder.Office{ID: "o1", Name: "Oslo", Rating: 1180}
	matches := []ladder.OfficeMatch{
		{ID: "om1", WinnerOfficeID: "o1", LoserOfficeID: "o2", WinnerRating: 1200, LoserRating: 1200, WinnerDelta: 16, LoserDelta: -16, PlayedAt: 5000},
		{ID: "om2", WinnerOfficeID: "o2", LoserOfficeID: "o1", WinnerRating: 1184, LoserRating: 1216, WinnerDelta: 36, LoserDelta: -36, PlayedAt: 6000},
	}

	series := replay.OfficeSeries(office, matches, time.Unix(9000, 0))
	require.Len(t, series.Series, 4)
	assert.Equal(t, 1216, series.Series[1].Rating, "winning side sample")
	assert.Equal(t, 1180, series.Series[2].Rating, "losing side sample")
	assert.Equal(t, 1180, series.Series[3].Rating)
}

func TestOfficeSeries_NoMatches(t *testing.T) {
	series := replay.OfficeSeries(ladder.Office{ID: "o1", Name: "Oslo"}, nil, time.Now())
	assert.Empty(t, series.Series)
}
