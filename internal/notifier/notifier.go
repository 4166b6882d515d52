package notifier

import (
	"github.com/kalstad/office-pong/internal/ladder"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For recorded matches
	SendMatchResult(match ladder.Match, dryRun bool) error
	// For posting an office's current standings
	SendLeaderboard(officeName string, players []ladder.Player, dryRun bool) error
}
