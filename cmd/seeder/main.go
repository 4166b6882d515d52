package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kalstad/office-pong/internal/database"
	"github.com/kalstad/office-pong/internal/ladder"
	"github.com/kalstad/office-pong/internal/rating"
)

// Seeds a local database with two offices, a handful of players and a year of
// matches. Each player carries a hidden skill so the resulting ratings drift
// apart the way a real ladder does.

func main() {
	log.Info("Starting database seeder...")

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "pong.db"
	}

	db, teardown, err := database.InitDB(dbName, "", "", "./migrations")
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	store := ladder.New(db)

	type seedPlayer struct {
		player ladder.Player
		skill  float64
	}

	offices := map[string][]string{
		"Oslo":   {"Anna", "Bjørn", "Carl", "Dina"},
		"Bergen": {"Erik", "Frida", "Gunnar", "Hanna"},
	}

	const numMatches = 500
	start := time.Now()

	for officeName, names := range offices {
		office, err := store.AddOffice(officeName, "")
		if err != nil {
			log.Fatalf("Failed to insert office %s: %s", officeName, err)
		}

		var roster []seedPlayer
		for _, name := range names {
			player, err := store.AddPlayer(office.ID, name)
			if err != nil {
				log.Fatalf("Failed to insert player %s: %s", name, err)
			}
			roster = append(roster, seedPlayer{player: player, skill: rand.Float64()})
		}
		log.Info("Seeded office", "office", officeName, "players", len(roster))

		playedAt := time.Now().Add(-365 * 24 * time.Hour)
		for i := 0; i < numMatches; i++ {
			a := roster[rand.Intn(len(roster))]
			b := roster[rand.Intn(len(roster))]
			if a.player.ID == b.player.ID {
				continue
			}
			winner, loser := a, b
			if rand.Float64() > winner.skill/(winner.skill+loser.skill) {
				winner, loser = loser, winner
			}

			winnerRating, err := store.GetPlayerRating(winner.player.ID)
			if err != nil {
				log.Fatalf("Failed to read rating: %s", err)
			}
			loserRating, err := store.GetPlayerRating(loser.player.ID)
			if err != nil {
				log.Fatalf("Failed to read rating: %s", err)
			}

			delta := rating.SmallUpset(winnerRating, loserRating)
			playedAt = playedAt.Add(time.Duration(rand.Intn(120)) * time.Minute)
			match := ladder.Match{
				ID:           uuid.NewString(),
				OfficeID:     office.ID,
				WinnerID:     winner.player.ID,
				LoserID:      loser.player.ID,
				WinnerRating: winnerRating,
				LoserRating:  loserRating,
				WinnerDelta:  delta,
				LoserDelta:   -delta,
				PlayedAt:     playedAt.Unix(),
			}
			if err := store.InsertMatch(match, winnerRating+delta, loserRating-delta); err != nil {
				log.Fatalf("Failed to insert match: %s", err)
			}
		}
		log.Info("Seeded matches", "office", officeName, "count", numMatches)
	}

	log.Info("Seeding finished.", "duration", time.Since(start))
}
