package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	matchesRecorded      int
	matchesDeleted       int
	staleDeletesRejected int
	replayDurations      []float64
	slackNotifSent       int
	slackNotifFailed     int
	startupTime          float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		replayDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncMatchesDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesDeleted++
}

func (m *Mock) IncStaleDeletesRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staleDeletesRejected++
}

func (m *Mock) ObserveReplayDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replayDurations = append(m.replayDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesRecorded returns the recorded-match count for assertions.
func (m *Mock) MatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

// StaleDeletesRejected returns the rejected-delete count for assertions.
func (m *Mock) StaleDeletesRejected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.staleDeletesRejected
}

// SlackNotifSent returns the sent-notification count for assertions.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the failed-notification count for assertions.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
