package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Slack         SlackConfig
	Turso         TursoConfig
	ProjectID     string
	Rating        RatingConfig
}
type SlackConfig struct {
	Token     string
	ChannelID string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// RatingConfig tunes the rating engine and the derived analytics.
type RatingConfig struct {
	// DefaultFunction is the rating function applied when recording a
	// same-office match.
	DefaultFunction string
	// CrossOfficeFunction is the rating function applied to matches
	// between two offices.
	CrossOfficeFunction string
	// StreakCutoff excludes streaks of this length or shorter from the
	// top-streaks listing.
	StreakCutoff int
	// RivalryMinGames is the minimum number of games two players must have
	// played against each other before the pairing counts as a rivalry.
	RivalryMinGames int
}
