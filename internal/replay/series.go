package replay

import (
	"time"

	"github.com/kalstad/office-pong/internal/ladder"
	"github.com/kalstad/office-pong/internal/rating"
)

// Sample is one point of a rating-over-time chart.
type Sample struct {
	Timestamp int64 `json:"timestamp"`
	Rating    int   `json:"rating"`
}

// PlayerSeries is the full rating history of one player.
type PlayerSeries struct {
	PlayerName string   `json:"playerName"`
	Series     []Sample `json:"series"`
}

// seedOffset places each player's first chart point one hour before their
// first match, at the initial rating.
const seedOffset = int64(time.Hour / time.Second)

// Series builds a rating-over-time series per player from the stored match
// fields. Matches must be ordered oldest first. Players with no matches are
// omitted; every included series ends with the player's current stored
// rating at now.
func Series(matches []ladder.Match, players []ladder.Player, now time.Time) []PlayerSeries {
	type track struct {
		id      string
		samples []Sample
	}
	byID := make(map[string]*track)
	var order []*track

	appendSample := func(playerID string, playedAt int64, ratingAfter int) {
		tr, ok := byID[playerID]
		if !ok {
			tr = &track{id: playerID}
			tr.samples = append(tr.samples, Sample{Timestamp: playedAt - seedOffset, Rating: rating.InitialRating})
			byID[playerID] = tr
			order = append(order, tr)
		}
		tr.samples = append(tr.samples, Sample{Timestamp: playedAt, Rating: ratingAfter})
	}

	for _, m := range matches {
		appendSample(m.WinnerID, m.PlayedAt, m.WinnerRating+m.WinnerDelta)
		appendSample(m.LoserID, m.PlayedAt, m.LoserRating+m.LoserDelta)
	}

	playerNames := make(map[string]ladder.Player, len(players))
	for _, p := range players {
		playerNames[p.ID] = p
	}

	result := make([]PlayerSeries, 0, len(order))
	for _, tr := range order {
		player, ok := playerNames[tr.id]
		if !ok {
			// Deleted players keep their matches but drop off the chart.
			continue
		}
		samples := append(tr.samples, Sample{Timestamp: now.Unix(), Rating: player.Rating})
		result = append(result, PlayerSeries{PlayerName: player.Name, Series: samples})
	}
	return result
}

// OfficeSeries builds the cross-office rating history for one office. Each
// sample is attributed to whichever side of the match the office was on,
// using that side's post-match rating. Matches must be ordered oldest first.
func OfficeSeries(office ladder.Office, matches []ladder.OfficeMatch, now time.Time) PlayerSeries {
	series := PlayerSeries{PlayerName: office.Name}
	for _, m := range matches {
		if len(series.Series) == 0 {
			series.Series = append(series.Series, Sample{Timestamp: m.PlayedAt - seedOffset, Rating: rating.InitialRating})
		}
		ratingAfter := m.WinnerRating + m.WinnerDelta
		if m.LoserOfficeID == office.ID {
			ratingAfter = m.LoserRating + m.LoserDelta
		}
		series.Series = append(series.Series, Sample{Timestamp: m.PlayedAt, Rating: ratingAfter})
	}
	if len(series.Series) > 0 {
		series.Series = append(series.Series, Sample{Timestamp: now.Unix(), Rating: office.Rating})
	}
	return series
}
