package processor

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/kalstad/office-pong/internal/ladder"
	"github.com/kalstad/office-pong/internal/pubsub"
	"github.com/kalstad/office-pong/internal/rating"
	"github.com/kalstad/office-pong/internal/replay"
	"golang.org/x/sync/errgroup"
)

// RecordMatch scores a finished game between two players of the same office.
// The office and both players are fetched concurrently; the match row and
// both rating updates land in one transaction.
func (p *Processor) RecordMatch(officeID, winnerID, loserID string) (ladder.Match, error) {
	if winnerID == loserID {
		return ladder.Match{}, ErrSamePlayer
	}

	var winner, loser ladder.Player
	g := new(errgroup.Group)
	g.Go(func() error {
		_, err := p.store.GetOffice(officeID)
		return err
	})
	g.Go(func() error {
		var err error
		winner, err = p.store.GetPlayer(winnerID)
		return err
	})
	g.Go(func() error {
		var err error
		loser, err = p.store.GetPlayer(loserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return ladder.Match{}, err
	}
	for _, participant := range []ladder.Player{winner, loser} {
		if participant.OfficeID != officeID {
			return ladder.Match{}, fmt.Errorf("player %s: %w", participant.ID, ErrPlayerNotInOffice)
		}
	}

	delta := p.defaultFn(winner.Rating, loser.Rating)
	match := ladder.Match{
		ID:           uuid.New().String(),
		OfficeID:     officeID,
		WinnerID:     winnerID,
		LoserID:      loserID,
		WinnerRating: winner.Rating,
		LoserRating:  loser.Rating,
		WinnerDelta:  delta,
		LoserDelta:   -delta,
		PlayedAt:     time.Now().Unix(),
	}
	if err := p.store.InsertMatch(match, winner.Rating+delta, loser.Rating-delta); err != nil {
		return ladder.Match{}, fmt.Errorf("failed to record match: %w", err)
	}
	p.metrics.IncMatchesRecorded()
	log.Info("Recorded match", "matchID", match.ID, "officeID", officeID, "delta", delta, "function", p.defaultName)

	// The stored row carries the ids; re-read to pick up the joined names.
	stored, err := p.store.GetMatch(match.ID)
	if err != nil {
		log.Error("Failed to reload recorded match", "error", err, "matchID", match.ID)
		stored = match
	}

	// Downstream consumers are best effort; the match is already committed.
	if err := p.pubsub.SendMessage(pubsub.EventMatchRecorded, stored); err != nil {
		log.Error("Failed to publish match-recorded event", "error", err, "matchID", match.ID)
	}
	if err := p.notifier.SendMatchResult(stored, false); err != nil {
		log.Error("Failed to send match result notification", "error", err, "matchID", match.ID)
	}
	return stored, nil
}

// DeleteMatch undoes a recorded match. It is only permitted while the match
// is still the most recent one for both participants, which guarantees the
// rating history never develops gaps.
func (p *Processor) DeleteMatch(matchID string) error {
	match, err := p.store.GetMatch(matchID)
	if err != nil {
		return err
	}

	var latestForWinner, latestForLoser string
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		latestForWinner, err = p.store.LatestMatchID(match.WinnerID)
		return err
	})
	g.Go(func() error {
		var err error
		latestForLoser, err = p.store.LatestMatchID(match.LoserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if latestForWinner != matchID || latestForLoser != matchID {
		p.metrics.IncStaleDeletesRejected()
		return fmt.Errorf("match %s: %w", matchID, ErrStaleDelete)
	}

	if err := p.store.DeleteMatch(match); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	p.metrics.IncMatchesDeleted()
	log.Info("Deleted match and restored ratings", "matchID", matchID)

	if err := p.pubsub.SendMessage(pubsub.EventMatchDeleted, match); err != nil {
		log.Error("Failed to publish match-deleted event", "error", err, "matchID", matchID)
	}
	return nil
}

// RecordCrossOfficeMatch scores a game played between two offices. The
// offices keep separate rosters; only the office ratings move.
func (p *Processor) RecordCrossOfficeMatch(winnerOfficeID, loserOfficeID string) (ladder.OfficeMatch, error) {
	if winnerOfficeID == loserOfficeID {
		return ladder.OfficeMatch{}, ErrSameOffice
	}

	var winner, loser ladder.Office
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		winner, err = p.store.GetOffice(winnerOfficeID)
		return err
	})
	g.Go(func() error {
		var err error
		loser, err = p.store.GetOffice(loserOfficeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return ladder.OfficeMatch{}, err
	}

	delta := p.crossFn(winner.Rating, loser.Rating)
	match := ladder.OfficeMatch{
		ID:             uuid.New().String(),
		WinnerOfficeID: winnerOfficeID,
		LoserOfficeID:  loserOfficeID,
		WinnerRating:   winner.Rating,
		LoserRating:    loser.Rating,
		WinnerDelta:    delta,
		LoserDelta:     -delta,
		PlayedAt:       time.Now().Unix(),
	}
	if err := p.store.UpdateOfficeRatings(winnerOfficeID, winner.Rating+delta, loserOfficeID, loser.Rating-delta, match); err != nil {
		return ladder.OfficeMatch{}, fmt.Errorf("failed to record cross-office match: %w", err)
	}
	p.metrics.IncMatchesRecorded()
	log.Info("Recorded cross-office match", "matchID", match.ID, "winnerOffice", winner.Name, "loserOffice", loser.Name, "delta", delta, "function", p.crossName)
	return match, nil
}

// Rerate destructively rewrites an office's entire rating history under a
// different rating function and overwrites every player's current rating
// with the replayed result. There is no way back; callers are expected to
// have confirmed the operation.
func (p *Processor) Rerate(officeID, functionName string) ([]replay.Standing, error) {
	fn, err := rating.Lookup(functionName)
	if err != nil {
		return nil, err
	}
	if _, err := p.store.GetOffice(officeID); err != nil {
		return nil, err
	}

	start := time.Now()
	// The store reads the history and applies the rewrite as one serialized
	// operation, so a match recorded while the replay runs cannot be missed
	// by the rewrite or clobbered by the final-ratings overwrite.
	matches, err := p.store.Rerate(officeID, func(history []ladder.Match) ([]ladder.RatedMatch, map[string]int) {
		return replay.Rewrite(fn, history)
	})
	if err != nil {
		return nil, err
	}
	p.metrics.ObserveReplayDuration(time.Since(start).Seconds())
	log.Info("Re-rated office history", "officeID", officeID, "function", functionName, "matches", len(matches))

	if err := p.pubsub.SendMessage(pubsub.EventHistoryRerated, officeID); err != nil {
		log.Error("Failed to publish history-rerated event", "error", err, "officeID", officeID)
	}
	return replay.Simulate(fn, matches), nil
}
