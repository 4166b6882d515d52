// Package replay recomputes ratings by folding a rating function over an
// office's chronological match history from a fixed initial state. Ratings,
// hypothetical leaderboards and the destructive re-rate all share the same
// fold, so stored ratings are always derivable from the match log alone.
package replay

import (
	"sort"

	"github.com/kalstad/office-pong/internal/ladder"
	"github.com/kalstad/office-pong/internal/rating"
)

// Standing is one row of a replayed leaderboard.
type Standing struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Games  int    `json:"games"`
}

// state tracks one player through a replay. Entries are created lazily at the
// initial rating the first time a player appears in the history.
type state struct {
	name   string
	rating int
	games  int
}

type fold struct {
	players map[string]*state
	order   []string // player ids in first-appearance order, for stable ties
}

func newFold() *fold {
	return &fold{players: make(map[string]*state)}
}

func (f *fold) player(id, name string) *state {
	p, ok := f.players[id]
	if !ok {
		p = &state{name: name, rating: rating.InitialRating}
		f.players[id] = p
		f.order = append(f.order, id)
	}
	// Track the latest display name in case of renames mid-history.
	p.name = name
	return p
}

// step applies one match to the fold and returns the transferred delta.
func (f *fold) step(fn rating.Func, match ladder.Match) int {
	winner := f.player(match.WinnerID, match.WinnerName)
	loser := f.player(match.LoserID, match.LoserName)

	delta := fn(winner.rating, loser.rating)
	winner.rating += delta
	winner.games++
	loser.rating -= delta
	loser.games++
	return delta
}

func (f *fold) standings() []Standing {
	standings := make([]Standing, 0, len(f.order))
	for _, id := range f.order {
		p := f.players[id]
		standings = append(standings, Standing{Name: p.name, Rating: p.rating, Games: p.games})
	}
	// Stable sort keeps first-appearance order for equal ratings, so the
	// result is deterministic for a given history.
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Rating > standings[j].Rating
	})
	return standings
}

// Simulate replays the full history under fn and returns the leaderboard it
// would have produced, sorted by rating, highest first. Matches must be
// ordered oldest first.
func Simulate(fn rating.Func, matches []ladder.Match) []Standing {
	f := newFold()
	for _, match := range matches {
		f.step(fn, match)
	}
	return f.standings()
}

// Rewrite replays the full history under fn and produces the rewritten
// rating fields for every match plus the final rating per player id. Matches
// must be ordered oldest first; rewriting out of order would corrupt the
// stored history.
func Rewrite(fn rating.Func, matches []ladder.Match) ([]ladder.RatedMatch, map[string]int) {
	f := newFold()
	rewrites := make([]ladder.RatedMatch, 0, len(matches))
	for _, match := range matches {
		winnerBefore := f.player(match.WinnerID, match.WinnerName).rating
		loserBefore := f.player(match.LoserID, match.LoserName).rating
		delta := f.step(fn, match)
		rewrites = append(rewrites, ladder.RatedMatch{
			MatchID:      match.ID,
			WinnerRating: winnerBefore,
			LoserRating:  loserBefore,
			WinnerDelta:  delta,
			LoserDelta:   -delta,
		})
	}

	finalRatings := make(map[string]int, len(f.players))
	for id, p := range f.players {
		finalRatings[id] = p.rating
	}
	return rewrites, finalRatings
}
