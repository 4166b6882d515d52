package ladder

import (
	"sync"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	AddOfficeFunc           func(name, slackWebhookURL string) (Office, error)
	GetOfficesFunc          func() ([]Office, error)
	GetOfficeFunc           func(officeID string) (Office, error)
	UpdateOfficeRatingsFunc func(winnerOfficeID string, newWinnerRating int, loserOfficeID string, newLoserRating int, match OfficeMatch) error
	AddPlayerFunc           func(officeID, name string) (Player, error)
	RenamePlayerFunc        func(playerID, newName string) error
	RemovePlayerFunc        func(playerID string) error
	GetPlayersFunc          func(officeID string) ([]Player, error)
	GetPlayerFunc           func(playerID string) (Player, error)
	GetPlayerRatingFunc     func(playerID string) (int, error)
	InsertMatchFunc         func(match Match, newWinnerRating, newLoserRating int) error
	DeleteMatchFunc         func(match Match) error
	GetMatchFunc            func(matchID string) (Match, error)
	GetMatchesFunc          func(officeID string, order Order) ([]Match, error)
	GetPlayerMatchesFunc    func(playerID string) ([]Match, error)
	LatestMatchIDFunc       func(playerID string) (string, error)
	GetOfficeMatchesFunc    func(officeID string) ([]OfficeMatch, error)
	RerateFunc              func(officeID string, rewrite RewriteFunc) ([]Match, error)

	// Call records
	InsertMatchCalls []struct {
		Match           Match
		NewWinnerRating int
		NewLoserRating  int
	}
	DeleteMatchCalls []Match
	RerateCalls      []struct {
		OfficeID     string
		Rewrites     []RatedMatch
		FinalRatings map[string]int
	}
	UpdateOfficeRatingsCalls []OfficeMatch
}

var _ Store = (*MockStore)(nil)

// NewMock creates a new mock Store.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) AddOffice(name, slackWebhookURL string) (Office, error) {
	if m.AddOfficeFunc != nil {
		return m.AddOfficeFunc(name, slackWebhookURL)
	}
	return Office{}, nil
}

func (m *MockStore) GetOffices() ([]Office, error) {
	if m.GetOfficesFunc != nil {
		return m.GetOfficesFunc()
	}
	return nil, nil
}

func (m *MockStore) GetOffice(officeID string) (Office, error) {
	if m.GetOfficeFunc != nil {
		return m.GetOfficeFunc(officeID)
	}
	return Office{ID: officeID}, nil
}

func (m *MockStore) UpdateOfficeRatings(winnerOfficeID string, newWinnerRating int, loserOfficeID string, newLoserRating int, match OfficeMatch) error {
	m.mu.Lock()
	m.UpdateOfficeRatingsCalls = append(m.UpdateOfficeRatingsCalls, match)
	m.mu.Unlock()
	if m.UpdateOfficeRatingsFunc != nil {
		return m.UpdateOfficeRatingsFunc(winnerOfficeID, newWinnerRating, loserOfficeID, newLoserRating, match)
	}
	return nil
}

func (m *MockStore) AddPlayer(officeID, name string) (Player, error) {
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(officeID, name)
	}
	return Player{}, nil
}

func (m *MockStore) RenamePlayer(playerID, newName string) error {
	if m.RenamePlayerFunc != nil {
		return m.RenamePlayerFunc(playerID, newName)
	}
	return nil
}

func (m *MockStore) RemovePlayer(playerID string) error {
	if m.RemovePlayerFunc != nil {
		return m.RemovePlayerFunc(playerID)
	}
	return nil
}

func (m *MockStore) GetPlayers(officeID string) ([]Player, error) {
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(officeID)
	}
	return nil, nil
}

func (m *MockStore) GetPlayer(playerID string) (Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return Player{}, ErrUnknownPlayer
}

func (m *MockStore) GetPlayerRating(playerID string) (int, error) {
	if m.GetPlayerRatingFunc != nil {
		return m.GetPlayerRatingFunc(playerID)
	}
	return 1200, nil
}

func (m *MockStore) InsertMatch(match Match, newWinnerRating, newLoserRating int) error {
	m.mu.Lock()
	m.InsertMatchCalls = append(m.InsertMatchCalls, struct {
		Match           Match
		NewWinnerRating int
		NewLoserRating  int
	}{match, newWinnerRating, newLoserRating})
	m.mu.Unlock()
	if m.InsertMatchFunc != nil {
		return m.InsertMatchFunc(match, newWinnerRating, newLoserRating)
	}
	return nil
}

func (m *MockStore) DeleteMatch(match Match) error {
	m.mu.Lock()
	m.DeleteMatchCalls = append(m.DeleteMatchCalls, match)
	m.mu.Unlock()
	if m.DeleteMatchFunc != nil {
		return m.DeleteMatchFunc(match)
	}
	return nil
}

func (m *MockStore) GetMatch(matchID string) (Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return Match{}, ErrUnknownMatch
}

func (m *MockStore) GetMatches(officeID string, order Order) ([]Match, error) {
	if m.GetMatchesFunc != nil {
		return m.GetMatchesFunc(officeID, order)
	}
	return nil, nil
}

func (m *MockStore) GetPlayerMatches(playerID string) ([]Match, error) {
	if m.GetPlayerMatchesFunc != nil {
		return m.GetPlayerMatchesFunc(playerID)
	}
	return nil, nil
}

func (m *MockStore) LatestMatchID(playerID string) (string, error) {
	if m.LatestMatchIDFunc != nil {
		return m.LatestMatchIDFunc(playerID)
	}
	return "", nil
}

func (m *MockStore) GetOfficeMatches(officeID string) ([]OfficeMatch, error) {
	if m.GetOfficeMatchesFunc != nil {
		return m.GetOfficeMatchesFunc(officeID)
	}
	return nil, nil
}

func (m *MockStore) Rerate(officeID string, rewrite RewriteFunc) ([]Match, error) {
	if m.RerateFunc != nil {
		return m.RerateFunc(officeID, rewrite)
	}
	matches, err := m.GetMatches(officeID, OldestFirst)
	if err != nil {
		return nil, err
	}
	rewrites, finalRatings := rewrite(matches)
	m.mu.Lock()
	m.RerateCalls = append(m.RerateCalls, struct {
		OfficeID     string
		Rewrites     []RatedMatch
		FinalRatings map[string]int
	}{officeID, rewrites, finalRatings})
	m.mu.Unlock()
	return matches, nil
}
