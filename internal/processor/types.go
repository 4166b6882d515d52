package processor

import (
	"errors"

	"github.com/kalstad/office-pong/internal/config"
	"github.com/kalstad/office-pong/internal/ladder"
	"github.com/kalstad/office-pong/internal/metrics"
	"github.com/kalstad/office-pong/internal/notifier"
	"github.com/kalstad/office-pong/internal/pubsub"
	"github.com/kalstad/office-pong/internal/rating"
)

var (
	// ErrSamePlayer rejects a match where one player fills both sides.
	ErrSamePlayer = errors.New("match needs two distinct players")
	// ErrPlayerNotInOffice rejects a match filed under an office a participant
	// does not belong to.
	ErrPlayerNotInOffice = errors.New("player does not belong to this office")
	// ErrSameOffice rejects a cross-office match recorded against one office.
	ErrSameOffice = errors.New("cross-office match needs two distinct offices")
	// ErrStaleDelete rejects deletion of a match that is not the most recent
	// for both of its participants. Allowing it would leave a hole in the
	// rating history that no replay could reproduce.
	ErrStaleDelete = errors.New("a participant has played a more recent match")
)

// Processor applies rating outcomes to matches and keeps the stored ratings
// consistent with the match log.
type Processor struct {
	store       ladder.Store
	notifier    notifier.Notifier
	metrics     metrics.Metrics
	pubsub      pubsub.PubSubClient
	defaultFn   rating.Func
	crossFn     rating.Func
	defaultName string
	crossName   string
}

// New creates a new Processor. Both configured rating function names are
// resolved here so a bad configuration fails at startup, not on the first
// recorded match.
func New(store ladder.Store, notifier notifier.Notifier, metricsSvc metrics.Metrics, pubsub pubsub.PubSubClient, cfg config.RatingConfig) (*Processor, error) {
	defaultFn, err := rating.Lookup(cfg.DefaultFunction)
	if err != nil {
		return nil, err
	}
	crossFn, err := rating.Lookup(cfg.CrossOfficeFunction)
	if err != nil {
		return nil, err
	}
	return &Processor{
		store:       store,
		notifier:    notifier,
		metrics:     metricsSvc,
		pubsub:      pubsub,
		defaultFn:   defaultFn,
		crossFn:     crossFn,
		defaultName: cfg.DefaultFunction,
		crossName:   cfg.CrossOfficeFunction,
	}, nil
}
