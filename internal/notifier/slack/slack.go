// Package slack posts ladder events to a Slack channel using Block Kit
// messages.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kalstad/office-pong/internal/ladder"
	"github.com/kalstad/office-pong/internal/metrics"
	"github.com/kalstad/office-pong/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) error {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

// SendMatchResult posts a recorded match with the transferred rating.
func (s *Notifier) SendMatchResult(match ladder.Match, dryRun bool) error {
	return s.sendMessage(s.FormatMatchResult(match), dryRun)
}

// SendLeaderboard posts an office's current standings.
func (s *Notifier) SendLeaderboard(officeName string, players []ladder.Player, dryRun bool) error {
	return s.sendMessage(s.FormatLeaderboard(officeName, players), dryRun)
}

// FormatMatchResult creates the Slack message for a recorded match using Block Kit.
func (s *Notifier) FormatMatchResult(match ladder.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏓 Match recorded! 🏓", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	resultText := fmt.Sprintf("%s beat %s\n%d → %d (+%d)\n%d → %d (-%d)",
		match.WinnerName, match.LoserName,
		match.WinnerRating, match.WinnerRating+match.WinnerDelta, match.WinnerDelta,
		match.LoserRating, match.LoserRating+match.LoserDelta, match.WinnerDelta,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), nil, nil))

	contextText := slack.NewTextBlockObject("plain_text",
		time.Unix(match.PlayedAt, 0).Format("Monday 02 Jan, 15:04"), true, false)
	blocks = append(blocks, slack.NewContextBlock("", contextText))

	return slack.NewBlockMessage(blocks...)
}

// FormatLeaderboard creates the Slack message for an office leaderboard using Block Kit.
func (s *Notifier) FormatLeaderboard(officeName string, players []ladder.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏓 %s leaderboard 🏓", officeName), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	medals := []string{"🥇", "🥈", "🥉"}
	for i, player := range players {
		rank := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			rank = medals[i]
		}
		line := fmt.Sprintf("%s %s — %d (%d games)", rank, player.Name, player.Rating, player.Games)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", line, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
