package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/perfdash/internal/config"
	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/pkg/clients/slack"
)

// ErrWebhookNotConfigured is returned when no webhook is known for a channel
// and no default webhook is set.
var ErrWebhookNotConfigured = errors.New("slack webhook not configured: set SLACK_WEBHOOK_URL or SLACK_WEBHOOKS")

// Service posts plain messages and KPI summaries to Slack.
type Service struct {
	poster slack.Poster
	cfg    config.SlackConfig
	logger *zap.Logger
}

// NewService wires a notifier on top of a Slack poster.
func NewService(cfg config.SlackConfig, poster slack.Poster, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{poster: poster, cfg: cfg, logger: logger}
}

// Configured reports whether at least one webhook is available.
func (s *Service) Configured() bool {
	return s.cfg.WebhookURL != "" || len(s.cfg.Webhooks) > 0
}

// Send posts text to the channel's webhook, falling back to the default webhook.
func (s *Service) Send(ctx context.Context, channel, text string) error {
	return s.post(ctx, channel, slack.Message{Text: text})
}

// SendSummary formats summary as Block Kit sections, posts it and returns the fallback text.
func (s *Service) SendSummary(ctx context.Context, channel string, summary models.DailySummary) (string, error) {
	msg := FormatSummary(summary)
	if err := s.post(ctx, channel, msg); err != nil {
		return "", err
	}
	return msg.Text, nil
}

func (s *Service) post(ctx context.Context, channel string, msg slack.Message) error {
	url, err := s.webhookFor(channel)
	if err != nil {
		return err
	}
	if err := s.poster.Post(ctx, url, msg); err != nil {
		s.logger.Error("slack post failed", zap.String("channel", channel), zap.Error(err))
		return fmt.Errorf("send to slack channel %q: %w", channel, err)
	}
	s.logger.Info("slack message sent", zap.String("channel", channel))
	return nil
}

func (s *Service) webhookFor(channel string) (string, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(channel), "#"))
	if url, ok := s.cfg.Webhooks[name]; ok {
		return url, nil
	}
	if s.cfg.WebhookURL != "" {
		return s.cfg.WebhookURL, nil
	}
	return "", ErrWebhookNotConfigured
}
