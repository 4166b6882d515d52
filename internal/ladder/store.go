package ladder

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new ladder Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// AddOffice creates a new office with the initial rating.
func (s *store) AddOffice(name, slackWebhookURL string) (Office, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if !ValidName(name) {
		return Office{}, fmt.Errorf("office name %q: %w", name, ErrInvalidName)
	}

	office := Office{
		ID:              uuid.New().String(),
		Name:            name,
		SlackWebhookURL: slackWebhookURL,
		Rating:          1200,
		CreatedAt:       time.Now().Unix(),
	}
	_, err := s.db.Exec(
		"INSERT INTO offices (id, name, slack_webhook_url, rating, created_at) VALUES (?, ?, ?, ?, ?)",
		office.ID, office.Name, office.SlackWebhookURL, office.Rating, office.CreatedAt,
	)
	if err != nil {
		return Office{}, fmt.Errorf("failed to add office: %w", err)
	}
	log.Info("Added new office", "officeID", office.ID, "name", office.Name)
	return office, nil
}

func (s *store) GetOffices() ([]Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, COALESCE(slack_webhook_url, ''), rating, created_at FROM offices ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query offices: %w", err)
	}
	defer rows.Close()

	var offices []Office
	for rows.Next() {
		var o Office
		if err := rows.Scan(&o.ID, &o.Name, &o.SlackWebhookURL, &o.Rating, &o.CreatedAt); err != nil {
			log.Error("Failed to scan office row", "error", err)
			continue
		}
		offices = append(offices, o)
	}
	return offices, rows.Err()
}

func (s *store) GetOffice(officeID string) (Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var o Office
	err := s.db.QueryRow(
		"SELECT id, name, COALESCE(slack_webhook_url, ''), rating, created_at FROM offices WHERE id = ?",
		officeID,
	).Scan(&o.ID, &o.Name, &o.SlackWebhookURL, &o.Rating, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return Office{}, fmt.Errorf("office %s: %w", officeID, ErrUnknownOffice)
	}
	if err != nil {
		return Office{}, fmt.Errorf("failed to get office: %w", err)
	}
	return o, nil
}

// UpdateOfficeRatings records a cross-office match and moves both office
// ratings in one transaction.
func (s *store) UpdateOfficeRatings(winnerOfficeID string, newWinnerRating int, loserOfficeID string, newLoserRating int, match OfficeMatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO office_matches (id, winner_office_id, loser_office_id, winner_rating, loser_rating, winner_delta, loser_delta, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		match.ID, match.WinnerOfficeID, match.LoserOfficeID, match.WinnerRating, match.LoserRating, match.WinnerDelta, match.LoserDelta, match.PlayedAt,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert office match: %w", err)
	}
	if _, err := tx.Exec("UPDATE offices SET rating = ? WHERE id = ?", newWinnerRating, winnerOfficeID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update winning office: %w", err)
	}
	if _, err := tx.Exec("UPDATE offices SET rating = ? WHERE id = ?", newLoserRating, loserOfficeID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update losing office: %w", err)
	}
	return tx.Commit()
}

// AddPlayer creates a new player in an office at the initial rating.
func (s *store) AddPlayer(officeID, name string) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !ValidName(name) {
		return Player{}, fmt.Errorf("player name %q: %w", name, ErrInvalidName)
	}

	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM offices WHERE id = ?)", officeID).Scan(&exists); err != nil {
		return Player{}, fmt.Errorf("failed to check office: %w", err)
	}
	if !exists {
		return Player{}, fmt.Errorf("office %s: %w", officeID, ErrUnknownOffice)
	}

	player := Player{
		ID:        uuid.New().String(),
		OfficeID:  officeID,
		Name:      name,
		Rating:    1200,
		CreatedAt: time.Now().Unix(),
	}
	_, err := s.db.Exec(
		"INSERT INTO players (id, office_id, name, rating, created_at) VALUES (?, ?, ?, ?, ?)",
		player.ID, player.OfficeID, player.Name, player.Rating, player.CreatedAt,
	)
	if err != nil {
		return Player{}, fmt.Errorf("failed to add player: %w", err)
	}
	log.Info("Added new player", "playerID", player.ID, "name", player.Name, "officeID", officeID)
	return player, nil
}

func (s *store) RenamePlayer(playerID, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !ValidName(newName) {
		return fmt.Errorf("player name %q: %w", newName, ErrInvalidName)
	}

	res, err := s.db.Exec("UPDATE players SET name = ? WHERE id = ?", newName, playerID)
	if err != nil {
		return fmt.Errorf("failed to rename player: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("player %s: %w", playerID, ErrUnknownPlayer)
	}
	return nil
}

// RemovePlayer deletes the player row only. Their matches are kept so the
// office's rating history stays replayable; match listings fall back to a
// placeholder name for the orphaned side.
func (s *store) RemovePlayer(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM players WHERE id = ?", playerID)
	if err != nil {
		return fmt.Errorf("failed to remove player: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("player %s: %w", playerID, ErrUnknownPlayer)
	}
	log.Info("Removed player", "playerID", playerID)
	return nil
}

// GetPlayers lists an office's players sorted by rating, highest first.
func (s *store) GetPlayers(officeID string) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT p.id, p.office_id, p.name, p.rating, p.created_at,
			(SELECT COUNT(*) FROM matches m WHERE m.winner_id = p.id OR m.loser_id = p.id) AS games
		FROM players p
		WHERE p.office_id = ?
		ORDER BY p.rating DESC, p.name`,
		officeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.OfficeID, &p.Name, &p.Rating, &p.CreatedAt, &p.Games); err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) GetPlayer(playerID string) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Player
	err := s.db.QueryRow(`
		SELECT p.id, p.office_id, p.name, p.rating, p.created_at,
			(SELECT COUNT(*) FROM matches m WHERE m.winner_id = p.id OR m.loser_id = p.id) AS games
		FROM players p
		WHERE p.id = ?`,
		playerID,
	).Scan(&p.ID, &p.OfficeID, &p.Name, &p.Rating, &p.CreatedAt, &p.Games)
	if err == sql.ErrNoRows {
		return Player{}, fmt.Errorf("player %s: %w", playerID, ErrUnknownPlayer)
	}
	if err != nil {
		return Player{}, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

func (s *store) GetPlayerRating(playerID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rating int
	err := s.db.QueryRow("SELECT rating FROM players WHERE id = ?", playerID).Scan(&rating)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("player %s: %w", playerID, ErrUnknownPlayer)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get player rating: %w", err)
	}
	return rating, nil
}

// InsertMatch stores the match and both new ratings as one atomic unit.
func (s *store) InsertMatch(match Match, newWinnerRating, newLoserRating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO matches (id, office_id, winner_id, loser_id, winner_rating, loser_rating, winner_delta, loser_delta, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		match.ID, match.OfficeID, match.WinnerID, match.LoserID, match.WinnerRating, match.LoserRating, match.WinnerDelta, match.LoserDelta, match.PlayedAt,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert match: %w", err)
	}
	if _, err := tx.Exec("UPDATE players SET rating = ? WHERE id = ?", newWinnerRating, match.WinnerID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update winner rating: %w", err)
	}
	if _, err := tx.Exec("UPDATE players SET rating = ? WHERE id = ?", newLoserRating, match.LoserID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update loser rating: %w", err)
	}
	return tx.Commit()
}

// DeleteMatch removes the match and restores both players to the pre-match
// ratings stored on the match row, as one atomic unit.
func (s *store) DeleteMatch(match Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM matches WHERE id = ?", match.ID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete match: %w", err)
	}
	if _, err := tx.Exec("UPDATE players SET rating = ? WHERE id = ?", match.WinnerRating, match.WinnerID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore winner rating: %w", err)
	}
	if _, err := tx.Exec("UPDATE players SET rating = ? WHERE id = ?", match.LoserRating, match.LoserID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore loser rating: %w", err)
	}
	return tx.Commit()
}

const matchColumns = `
	m.id, m.office_id, m.winner_id, m.loser_id,
	COALESCE(w.name, '(deleted)'), COALESCE(l.name, '(deleted)'),
	m.winner_rating, m.loser_rating, m.winner_delta, m.loser_delta, m.played_at
	FROM matches m
	LEFT JOIN players w ON w.id = m.winner_id
	LEFT JOIN players l ON l.id = m.loser_id`

func (s *store) GetMatch(matchID string) (Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT"+matchColumns+" WHERE m.id = ?", matchID)
	match, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return Match{}, fmt.Errorf("match %s: %w", matchID, ErrUnknownMatch)
	}
	if err != nil {
		return Match{}, fmt.Errorf("failed to get match: %w", err)
	}
	return match, nil
}

// GetMatches lists an office's matches in the requested chronological order.
// The rowid tiebreak keeps matches recorded within the same second in
// insertion order, which the replay engine depends on.
func (s *store) GetMatches(officeID string, order Order) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryMatches(officeID, order)
}

// queryMatches runs the match listing without touching the lock; the caller
// holds it.
func (s *store) queryMatches(officeID string, order Order) ([]Match, error) {
	direction := "ASC"
	if order == NewestFirst {
		direction = "DESC"
	}
	rows, err := s.db.Query(
		"SELECT"+matchColumns+" WHERE m.office_id = ? ORDER BY m.played_at "+direction+", m.rowid "+direction,
		officeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

// GetPlayerMatches lists one player's matches, newest first.
func (s *store) GetPlayerMatches(playerID string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT"+matchColumns+" WHERE m.winner_id = ? OR m.loser_id = ? ORDER BY m.played_at DESC, m.rowid DESC",
		playerID, playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query player matches: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

// LatestMatchID returns the id of the player's chronologically most recent
// match, or an empty string if they have none.
func (s *store) LatestMatchID(playerID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id string
	err := s.db.QueryRow(
		"SELECT id FROM matches WHERE winner_id = ? OR loser_id = ? ORDER BY played_at DESC, rowid DESC LIMIT 1",
		playerID, playerID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get latest match: %w", err)
	}
	return id, nil
}

// GetOfficeMatches lists the cross-office matches an office took part in,
// oldest first.
func (s *store) GetOfficeMatches(officeID string) ([]OfficeMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, winner_office_id, loser_office_id, winner_rating, loser_rating, winner_delta, loser_delta, played_at
		FROM office_matches
		WHERE winner_office_id = ? OR loser_office_id = ?
		ORDER BY played_at ASC, rowid ASC`,
		officeID, officeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query office matches: %w", err)
	}
	defer rows.Close()

	var matches []OfficeMatch
	for rows.Next() {
		var m OfficeMatch
		if err := rows.Scan(&m.ID, &m.WinnerOfficeID, &m.LoserOfficeID, &m.WinnerRating, &m.LoserRating, &m.WinnerDelta, &m.LoserDelta, &m.PlayedAt); err != nil {
			log.Error("Failed to scan office match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Rerate rewrites an office's history as one serialized operation. The write
// lock spans the history read, the callback and the transaction, so a
// concurrently recorded match either lands before the history is read or
// chains from the overwritten ratings afterwards, never in between. Without
// that the stored ratings would stop being derivable from the match log.
func (s *store) Rerate(officeID string, rewrite RewriteFunc) ([]Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.queryMatches(officeID, OldestFirst)
	if err != nil {
		return nil, err
	}
	rewrites, finalRatings := rewrite(matches)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		UPDATE matches SET winner_rating = ?, loser_rating = ?, winner_delta = ?, loser_delta = ?
		WHERE id = ?`)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to prepare rewrite statement: %w", err)
	}
	defer stmt.Close()

	for _, rw := range rewrites {
		if _, err := stmt.Exec(rw.WinnerRating, rw.LoserRating, rw.WinnerDelta, rw.LoserDelta, rw.MatchID); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to rewrite match %s: %w", rw.MatchID, err)
		}
	}
	for playerID, newRating := range finalRatings {
		if _, err := tx.Exec("UPDATE players SET rating = ? WHERE id = ?", newRating, playerID); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to overwrite rating for player %s: %w", playerID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rerate: %w", err)
	}
	log.Info("Applied re-rate", "officeID", officeID, "matches", len(rewrites), "players", len(finalRatings))
	return matches, nil
}

func scanMatch(scanner interface{ Scan(...any) error }) (Match, error) {
	var m Match
	err := scanner.Scan(
		&m.ID, &m.OfficeID, &m.WinnerID, &m.LoserID,
		&m.WinnerName, &m.LoserName,
		&m.WinnerRating, &m.LoserRating, &m.WinnerDelta, &m.LoserDelta, &m.PlayedAt,
	)
	return m, err
}

func collectMatches(rows *sql.Rows) ([]Match, error) {
	var matches []Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}
