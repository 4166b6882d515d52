package ladder

// Store defines the interface for interacting with the ladder's data.
// Mutations touching more than one row are applied inside a single database
// transaction; a partially recorded match is a correctness violation.
type Store interface {
	// Offices
	AddOffice(name, slackWebhookURL string) (Office, error)
	GetOffices() ([]Office, error)
	GetOffice(officeID string) (Office, error)
	UpdateOfficeRatings(winnerOfficeID string, newWinnerRating int, loserOfficeID string, newLoserRating int, match OfficeMatch) error

	// Players
	AddPlayer(officeID, name string) (Player, error)
	RenamePlayer(playerID, newName string) error
	RemovePlayer(playerID string) error
	GetPlayers(officeID string) ([]Player, error)
	GetPlayer(playerID string) (Player, error)
	GetPlayerRating(playerID string) (int, error)

	// Matches
	InsertMatch(match Match, newWinnerRating, newLoserRating int) error
	DeleteMatch(match Match) error
	GetMatch(matchID string) (Match, error)
	GetMatches(officeID string, order Order) ([]Match, error)
	GetPlayerMatches(playerID string) ([]Match, error)
	LatestMatchID(playerID string) (string, error)
	GetOfficeMatches(officeID string) ([]OfficeMatch, error)

	// Rerate reads the office's full history, oldest first, hands it to the
	// rewrite callback and applies the returned rewrites plus final player
	// ratings in one transaction. The store stays locked for writes from the
	// history read through the commit, so no match can slip in between and be
	// replayed against stale ratings. The history the rewrite was computed
	// from is returned.
	Rerate(officeID string, rewrite RewriteFunc) ([]Match, error)
}

// RewriteFunc turns an office's chronological match history into the
// rewritten rating fields per match and the final rating per player id.
type RewriteFunc func(matches []Match) ([]RatedMatch, map[string]int)
