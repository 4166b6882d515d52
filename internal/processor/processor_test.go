package processor_test

import (
	"testing"

	"github.com/kalstad/office-pong/internal/config"
	"github.com/kalstad/office-pong/internal/database"
	"github.com/kalstad/office-pong/internal/ladder"
	"github.com/kalstad/office-pong/internal/metrics"
	"github.com/kalstad/office-pong/internal/notifier"
	"github.com/kalstad/office-pong/internal/processor"
	"github.com/kalstad/office-pong/internal/pubsub"
	"github.com/kalstad/office-pong/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) ladder.Store {
	t.Helper()
	db, cleanup, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return ladder.New(db)
}

func testConfig() config.RatingConfig {
	return config.RatingConfig{
		DefaultFunction:     rating.SmallUpsetName,
		CrossOfficeFunction: rating.SmallUpsetName,
		StreakCutoff:        1,
		RivalryMinGames:     5,
	}
}

func newTestProcessor(t *testing.T, store *ladder.MockStore) (*processor.Processor, *notifier.Mock, *metrics.Mock, *pubsub.MockPubSubClient) {
	t.Helper()
	notif := notifier.NewMock()
	metricsSvc := metrics.NewMock()
	events := pubsub.NewMock()
	p, err := processor.New(store, notif, metricsSvc, events, testConfig())
	require.NoError(t, err)
	return p, notif, metricsSvc, events
}

func TestNew_RejectsUnknownFunction(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultFunction = "Bogus elo"
	_, err := processor.New(ladder.NewMock(), notifier.NewMock(), metrics.NewMock(), pubsub.NewMock(), cfg)
	assert.ErrorIs(t, err, rating.ErrUnknownFunction)
}

func TestRecordMatch(t *testing.T) {
	store := ladder.NewMock()
	store.GetPlayerFunc = func(playerID string) (ladder.Player, error) {
		return ladder.Player{ID: playerID, OfficeID: "office1", Rating: 1200}, nil
	}
	store.GetMatchFunc = func(matchID string) (ladder.Match, error) {
		require.Len(t, store.InsertMatchCalls, 1)
		m := store.InsertMatchCalls[0].Match
		m.WinnerName = "Anna"
		m.LoserName = "Bjørn"
		return m, nil
	}

	p, notif, metricsSvc, events := newTestProcessor(t, store)

	match, err := p.RecordMatch("office1", "winner", "loser")
	require.NoError(t, err)

	// Even match under SmallUpset falls back to Standard: 16 points.
	assert.Equal(t, 16, match.WinnerDelta)
	assert.Equal(t, -16, match.LoserDelta)
	assert.Equal(t, 1200, match.WinnerRating)
	assert.Equal(t, "Anna", match.WinnerName)

	require.Len(t, store.InsertMatchCalls, 1)
	assert.Equal(t, 1216, store.InsertMatchCalls[0].NewWinnerRating)
	assert.Equal(t, 1184, store.InsertMatchCalls[0].NewLoserRating)

	assert.Equal(t, 1, metricsSvc.MatchesRecorded())
	require.Len(t, events.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventMatchRecorded), events.SendMessageCalls[0].Topic)
	require.Len(t, notif.SendMatchResultCalls, 1)
	assert.Equal(t, "Anna", notif.SendMatchResultCalls[0].WinnerName)
}

func TestRecordMatch_SamePlayer(t *testing.T) {
	store := ladder.NewMock()
	p, _, _, _ := newTestProcessor(t, store)

	_, err := p.RecordMatch("office1", "a", "a")
	assert.ErrorIs(t, err, processor.ErrSamePlayer)
	assert.Empty(t, store.InsertMatchCalls)
}

func TestRecordMatch_UnknownPlayer(t *testing.T) {
	store := ladder.NewMock()
	store.GetPlayerFunc = func(playerID string) (ladder.Player, error) {
		return ladder.Player{}, ladder.ErrUnknownPlayer
	}
	p, _, _, _ := newTestProcessor(t, store)

	_, err := p.RecordMatch("office1", "winner", "loser")
	assert.ErrorIs(t, err, ladder.ErrUnknownPlayer)
	assert.Empty(t, store.InsertMatchCalls, "no match may be recorded for an unknown player")
}

func TestRecordMatch_UnknownOffice(t *testing.T) {
	store := ladder.NewMock()
	store.GetPlayerFunc = func(playerID string) (ladder.Player, error) {
		return ladder.Player{ID: playerID, OfficeID: "office1", Rating: 1200}, nil
	}
	store.GetOfficeFunc = func(officeID string) (ladder.Office, error) {
		return ladder.Office{}, ladder.ErrUnknownOffice
	}
	p, _, _, _ := newTestProcessor(t, store)

	_, err := p.RecordMatch("office1", "winner", "loser")
	assert.ErrorIs(t, err, ladder.ErrUnknownOffice)
	assert.Empty(t, store.InsertMatchCalls)
}

func TestRecordMatch_WrongOffice(t *testing.T) {
	// Both players exist but belong to another office; the match must not be
	// filed under an office neither plays in.
	store := ladder.NewMock()
	store.GetPlayerFunc = func(playerID string) (ladder.Player, error) {
		return ladder.Player{ID: playerID, OfficeID: "office2", Rating: 1200}, nil
	}
	p, _, _, _ := newTestProcessor(t, store)

	_, err := p.RecordMatch("office1", "winner", "loser")
	assert.ErrorIs(t, err, processor.ErrPlayerNotInOffice)
	assert.Empty(t, store.InsertMatchCalls)
}

func TestDeleteMatch(t *testing.T) {
	match := ladder.Match{ID: "m2", WinnerID: "a", LoserID: "b", WinnerRating: 1216, LoserRating: 1184}
	store := ladder.NewMock()
	store.GetMatchFunc = func(matchID string) (ladder.Match, error) { return match, nil }
	store.LatestMatchIDFunc = func(playerID string) (string, error) { return "m2", nil }

	p, _, metricsSvc, events := newTestProcessor(t, store)

	require.NoError(t, p.DeleteMatch("m2"))
	require.Len(t, store.DeleteMatchCalls, 1)
	assert.Equal(t, "m2", store.DeleteMatchCalls[0].ID)
	assert.Equal(t, 0, metricsSvc.StaleDeletesRejected())
	require.Len(t, events.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventMatchDeleted), events.SendMessageCalls[0].Topic)
}

func TestDeleteMatch_StaleForOneParticipant(t *testing.T) {
	// Player A has played a newer match m2; player B has not. Deleting m1
	// must still fail: the rule covers both participants.
	match := ladder.Match{ID: "m1", WinnerID: "a", LoserID: "b"}
	store := ladder.NewMock()
	store.GetMatchFunc = func(matchID string) (ladder.Match, error) { return match, nil }
	store.LatestMatchIDFunc = func(playerID string) (string, error) {
		if playerID == "a" {
			return "m2", nil
		}
		return "m1", nil
	}

	p, _, metricsSvc, _ := newTestProcessor(t, store)

	err := p.DeleteMatch("m1")
	assert.ErrorIs(t, err, processor.ErrStaleDelete)
	assert.Empty(t, store.DeleteMatchCalls)
	assert.Equal(t, 1, metricsSvc.StaleDeletesRejected())
}

func TestDeleteMatch_UnknownMatch(t *testing.T) {
	store := ladder.NewMock()
	p, _, _, _ := newTestProcessor(t, store)

	err := p.DeleteMatch("nope")
	assert.ErrorIs(t, err, ladder.ErrUnknownMatch)
}

func TestRecordCrossOfficeMatch_SameOffice(t *testing.T) {
	p, _, _, _ := newTestProcessor(t, ladder.NewMock())

	_, err := p.RecordCrossOfficeMatch("office1", "office1")
	assert.ErrorIs(t, err, processor.ErrSameOffice)
}

func TestRecordCrossOfficeMatch(t *testing.T) {
	store := ladder.NewMock()
	store.GetOfficeFunc = func(officeID string) (ladder.Office, error) {
		if officeID == "o1" {
			return ladder.Office{ID: "o1", Name: "Oslo", Rating: 1150}, nil
		}
		return ladder.Office{ID: "o2", Name: "Bergen", Rating: 1250}, nil
	}

	p, _, _, _ := newTestProcessor(t, store)

	match, err := p.RecordCrossOfficeMatch("o1", "o2")
	require.NoError(t, err)
	assert.Equal(t, rating.SmallUpset(1150, 1250), match.WinnerDelta)
	require.Len(t, store.UpdateOfficeRatingsCalls, 1)
}

func TestRerate(t *testing.T) {
	history := []ladder.Match{
		{ID: "m1", WinnerID: "a", WinnerName: "Anna", LoserID: "b", LoserName: "Bjørn", PlayedAt: 100},
		{ID: "m2", WinnerID: "b", WinnerName: "Bjørn", LoserID: "a", LoserName: "Anna", PlayedAt: 200},
	}
	store := ladder.NewMock()
	store.GetMatchesFunc = func(officeID string, order ladder.Order) ([]ladder.Match, error) {
		require.Equal(t, ladder.OldestFirst, order, "re-rating must replay oldest first")
		return history, nil
	}

	p, _, _, events := newTestProcessor(t, store)

	standings, err := p.Rerate("office1", rating.StandardName)
	require.NoError(t, err)
	require.Len(t, standings, 2)

	require.Len(t, store.RerateCalls, 1)
	assert.Equal(t, "office1", store.RerateCalls[0].OfficeID)
	rewrites := store.RerateCalls[0].Rewrites
	require.Len(t, rewrites, 2)
	assert.Equal(t, 1200, rewrites[0].WinnerRating)
	assert.Equal(t, 1216, rewrites[1].LoserRating, "second match chains from the first")

	require.Len(t, events.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventHistoryRerated), events.SendMessageCalls[0].Topic)
}

func TestRerate_UnknownFunction(t *testing.T) {
	store := ladder.NewMock()
	p, _, _, _ := newTestProcessor(t, store)

	_, err := p.Rerate("office1", "Bogus elo")
	assert.ErrorIs(t, err, rating.ErrUnknownFunction)
	assert.Empty(t, store.RerateCalls, "nothing may be rewritten for an unknown function")
}

func TestRerate_UnknownOffice(t *testing.T) {
	store := ladder.NewMock()
	store.GetOfficeFunc = func(officeID string) (ladder.Office, error) {
		return ladder.Office{}, ladder.ErrUnknownOffice
	}
	p, _, _, _ := newTestProcessor(t, store)

	_, err := p.Rerate("nope", rating.StandardName)
	assert.ErrorIs(t, err, ladder.ErrUnknownOffice)
	assert.Empty(t, store.RerateCalls)
}

func TestRecordThenDelete_RestoresRatings(t *testing.T) {
	// Round trip against the real store: record one match, delete it, and
	// both players are back at their pre-match ratings exactly.
	store := newSQLiteStore(t)

	office, err := store.AddOffice("Oslo", "")
	require.NoError(t, err)
	a, err := store.AddPlayer(office.ID, "Anna")
	require.NoError(t, err)
	b, err := store.AddPlayer(office.ID, "Bjørn")
	require.NoError(t, err)

	realProc, err := processor.New(store, notifier.NewMock(), metrics.NewMock(), pubsub.NewMock(), testConfig())
	require.NoError(t, err)

	match, err := realProc.RecordMatch(office.ID, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 16, match.WinnerDelta)

	require.NoError(t, realProc.DeleteMatch(match.ID))

	ratingA, err := store.GetPlayerRating(a.ID)
	require.NoError(t, err)
	ratingB, err := store.GetPlayerRating(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1200, ratingA)
	assert.Equal(t, 1200, ratingB)
}
