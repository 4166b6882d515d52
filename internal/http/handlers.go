package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kalstad/office-pong/internal/analytics"
	"github.com/kalstad/office-pong/internal/ladder"
	"github.com/kalstad/office-pong/internal/rating"
	"github.com/kalstad/office-pong/internal/replay"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListOfficesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offices, err := s.Store.GetOffices()
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, offices)
	}
}

func (s *Server) AddOfficeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name            string `json:"name"`
			SlackWebhookURL string `json:"slackWebhookUrl"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		office, err := s.Store.AddOffice(body.Name, body.SlackWebhookURL)
		if err != nil {
			respondError(w, err)
			return
		}
		log.Info("Added office", "officeID", office.ID, "name", office.Name)
		respondJSON(w, http.StatusCreated, office)
	}
}

// ListPlayersHandler serves the office leaderboard: players sorted by rating,
// highest first.
func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		officeID, ok := officeIDParam(w, r)
		if !ok {
			return
		}
		players, err := s.Store.GetPlayers(officeID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func (s *Server) AddPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			OfficeID string `json:"officeId"`
			Name     string `json:"name"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		player, err := s.Store.AddPlayer(body.OfficeID, body.Name)
		if err != nil {
			respondError(w, err)
			return
		}
		log.Info("Added player", "playerID", player.ID, "name", player.Name, "officeID", player.OfficeID)
		respondJSON(w, http.StatusCreated, player)
	}
}

func (s *Server) PlayerGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.GetPlayerMatches(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) RenamePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		playerID := r.PathValue("id")
		if err := s.Store.RenamePlayer(playerID, body.Name); err != nil {
			respondError(w, err)
			return
		}
		log.Info("Renamed player", "playerID", playerID, "name", body.Name)
		w.WriteHeader(http.StatusNoContent)
	}
}

// RemovePlayerHandler deletes the player row only. Played matches stay in the
// log and keep their effect on everyone else's rating.
func (s *Server) RemovePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("id")
		if err := s.Store.RemovePlayer(playerID); err != nil {
			respondError(w, err)
			return
		}
		log.Info("Removed player", "playerID", playerID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ListGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		officeID, ok := officeIDParam(w, r)
		if !ok {
			return
		}
		matches, err := s.Store.GetMatches(officeID, ladder.NewestFirst)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) GetGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := s.Store.GetMatch(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, match)
	}
}

func (s *Server) RecordGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			OfficeID string `json:"officeId"`
			WinnerID string `json:"winnerId"`
			LoserID  string `json:"loserId"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		match, err := s.Processor.RecordMatch(body.OfficeID, body.WinnerID, body.LoserID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) DeleteGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Processor.DeleteMatch(r.PathValue("id")); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ListCrossGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		officeID, ok := officeIDParam(w, r)
		if !ok {
			return
		}
		matches, err := s.Store.GetOfficeMatches(officeID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) RecordCrossGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			WinnerOfficeID string `json:"winnerOfficeId"`
			LoserOfficeID  string `json:"loserOfficeId"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		match, err := s.Processor.RecordCrossOfficeMatch(body.WinnerOfficeID, body.LoserOfficeID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) RatingFunctionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, rating.Names())
	}
}

// RatingSampleHandler serves the fixed sample table for every registered
// function. With function, winner and loser parameters it instead evaluates
// that single pairing.
func (s *Server) RatingSampleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		functionName := r.URL.Query().Get("function")
		if functionName == "" {
			respondJSON(w, http.StatusOK, rating.Sample())
			return
		}
		winner, err1 := strconv.Atoi(r.URL.Query().Get("winner"))
		loser, err2 := strconv.Atoi(r.URL.Query().Get("loser"))
		if err1 != nil || err2 != nil {
			respondBadRequest(w, "winner and loser must be integer ratings")
			return
		}
		delta, err := rating.Evaluate(functionName, winner, loser)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]int{"delta": delta})
	}
}

// SimulateHandler replays an office's history under any registered rating
// function and returns the hypothetical leaderboard. Nothing is written.
func (s *Server) SimulateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		officeID, ok := officeIDParam(w, r)
		if !ok {
			return
		}
		functionName := r.URL.Query().Get("function")
		if functionName == "" {
			functionName = s.Cfg.Rating.DefaultFunction
		}
		fn, err := rating.Lookup(functionName)
		if err != nil {
			respondError(w, err)
			return
		}
		if _, err := s.Store.GetOffice(officeID); err != nil {
			respondError(w, err)
			return
		}
		matches, err := s.Store.GetMatches(officeID, ladder.OldestFirst)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, replay.Simulate(fn, matches))
	}
}

// RatingStatsHandler returns rating-over-time series for every player with at
// least one match, plus the office's own series on the cross-office ladder.
func (s *Server) RatingStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		officeID, ok := officeIDParam(w, r)
		if !ok {
			return
		}
		office, err := s.Store.GetOffice(officeID)
		if err != nil {
			respondError(w, err)
			return
		}
		players, err := s.Store.GetPlayers(officeID)
		if err != nil {
			respondError(w, err)
			return
		}
		matches, err := s.Store.GetMatches(officeID, ladder.OldestFirst)
		if err != nil {
			respondError(w, err)
			return
		}
		officeMatches, err := s.Store.GetOfficeMatches(officeID)
		if err != nil {
			respondError(w, err)
			return
		}

		now := time.Now()
		respondJSON(w, http.StatusOK, struct {
			Players []replay.PlayerSeries `json:"players"`
			Office  replay.PlayerSeries   `json:"office"`
		}{
			Players: replay.Series(matches, players, now),
			Office:  replay.OfficeSeries(office, officeMatches, now),
		})
	}
}

// RerateHandler destructively rewrites an office's history under a different
// rating function. The body must carry confirm=true; a re-rate cannot be
// undone.
func (s *Server) RerateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			OfficeID string `json:"officeId"`
			Function string `json:"function"`
			Confirm  bool   `json:"confirm"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.OfficeID == "" {
			respondBadRequest(w, "officeId is required")
			return
		}
		if !body.Confirm {
			respondBadRequest(w, "re-rating rewrites history and cannot be undone; set confirm to true")
			return
		}
		standings, err := s.Processor.Rerate(body.OfficeID, body.Function)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, standings)
	}
}

func (s *Server) OtherStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		officeID, ok := officeIDParam(w, r)
		if !ok {
			return
		}
		players, err := s.Store.GetPlayers(officeID)
		if err != nil {
			respondError(w, err)
			return
		}
		matches, err := s.Store.GetMatches(officeID, ladder.NewestFirst)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, struct {
			Streaks   []analytics.Streak  `json:"streaks"`
			Rivalries []analytics.Rivalry `json:"rivalries"`
		}{
			Streaks:   analytics.TopStreaks(players, matches, s.Cfg.Rating.StreakCutoff),
			Rivalries: analytics.TopRivalries(players, matches, s.Cfg.Rating.RivalryMinGames),
		})
	}
}

// MatchRecordedEventHandler consumes match-recorded events delivered by a
// Pub/Sub push subscription and posts the office's refreshed standings to
// Slack.
func (s *Server) MatchRecordedEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match-recorded message", "body", string(bodyBytes))
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var match ladder.Match
		if err := s.pubsub.ProcessMessage(rawData, &match); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		office, err := s.Store.GetOffice(match.OfficeID)
		if err != nil {
			respondError(w, err)
			return
		}
		players, err := s.Store.GetPlayers(match.OfficeID)
		if err != nil {
			respondError(w, err)
			return
		}
		if err := s.Notifier.SendLeaderboard(office.Name, players, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to send leaderboard notification", "error", err, "officeID", match.OfficeID)
		}
		w.Write([]byte("OK"))
	}
}

// NotifyLeaderboardHandler posts an office's current standings to Slack.
// Honors the dry_run query parameter.
func (s *Server) NotifyLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			OfficeID string `json:"officeId"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		office, err := s.Store.GetOffice(body.OfficeID)
		if err != nil {
			respondError(w, err)
			return
		}
		players, err := s.Store.GetPlayers(body.OfficeID)
		if err != nil {
			respondError(w, err)
			return
		}
		if err := s.Notifier.SendLeaderboard(office.Name, players, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to send leaderboard notification", "error", err, "officeID", body.OfficeID)
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Leaderboard notification sent.")
	}
}
