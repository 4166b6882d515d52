package ladder

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the ladder.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Order controls whether match listings are returned oldest or newest first.
type Order int

const (
	OldestFirst Order = iota
	NewestFirst
)

// Office is an isolated league. Offices carry a rating of their own, used by
// the cross-office ladder.
type Office struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	SlackWebhookURL string `json:"slack_webhook_url,omitempty"`
	Rating          int    `json:"rating"`
	CreatedAt       int64  `json:"created_at"`
}

// Player is a member of one office with a running rating.
type Player struct {
	ID        string `json:"id"`
	OfficeID  string `json:"office_id"`
	Name      string `json:"name"`
	Rating    int    `json:"rating"`
	Games     int    `json:"games"`
	CreatedAt int64  `json:"created_at"`
}

// Match records a single game between two players of the same office.
// WinnerRating and LoserRating are the ratings *before* the match was played;
// WinnerDelta is the amount transferred and LoserDelta is always its
// negation. Together these make the full rating history replayable.
type Match struct {
	ID           string `json:"id"`
	OfficeID     string `json:"office_id"`
	WinnerID     string `json:"winner_id"`
	LoserID      string `json:"loser_id"`
	WinnerName   string `json:"winner_name"`
	LoserName    string `json:"loser_name"`
	WinnerRating int    `json:"winner_rating"`
	LoserRating  int    `json:"loser_rating"`
	WinnerDelta  int    `json:"winner_delta"`
	LoserDelta   int    `json:"loser_delta"`
	PlayedAt     int64  `json:"played_at"`
}

// OfficeMatch records a game between two offices without merging their
// rosters. The rating fields mirror Match but apply to the office ratings.
type OfficeMatch struct {
	ID             string `json:"id"`
	WinnerOfficeID string `json:"winner_office_id"`
	LoserOfficeID  string `json:"loser_office_id"`
	WinnerRating   int    `json:"winner_rating"`
	LoserRating    int    `json:"loser_rating"`
	WinnerDelta    int    `json:"winner_delta"`
	LoserDelta     int    `json:"loser_delta"`
	PlayedAt       int64  `json:"played_at"`
}

// RatedMatch pairs a match with the rewritten rating fields produced by a
// re-rate run.
type RatedMatch struct {
	MatchID      string
	WinnerRating int
	LoserRating  int
	WinnerDelta  int
	LoserDelta   int
}
