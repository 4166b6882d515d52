package notifier

import (
	"sync"

	"github.com/kalstad/office-pong/internal/ladder"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendMatchResultFunc func(match ladder.Match, dryRun bool) error
	SendLeaderboardFunc func(officeName string, players []ladder.Player, dryRun bool) error

	// Call records
	SendMatchResultCalls []ladder.Match
	SendLeaderboardCalls []struct {
		OfficeName string
		Players    []ladder.Player
	}
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock Notifier.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendMatchResult(match ladder.Match, dryRun bool) error {
	m.mu.Lock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, match)
	m.mu.Unlock()
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(match, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(officeName string, players []ladder.Player, dryRun bool) error {
	m.mu.Lock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, struct {
		OfficeName string
		Players    []ladder.Player
	}{officeName, players})
	m.mu.Unlock()
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(officeName, players, dryRun)
	}
	return nil
}
