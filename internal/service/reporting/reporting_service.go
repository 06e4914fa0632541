package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/repository/mongodb"
)

// ErrArchiveNotConfigured is returned by History when no archive is wired.
var ErrArchiveNotConfigured = errors.New("summary archive not configured: set MONGODB_URI")

const (
	defaultHistoryLimit = 30
	maxHistoryLimit     = 200
)

// SummaryBuilder produces the KPI digest for a day.
type SummaryBuilder interface {
	Summary(ctx context.Context, day models.Date) (models.DailySummary, error)
}

// SummarySender posts a digest to a Slack channel and returns the posted text.
type SummarySender interface {
	SendSummary(ctx context.Context, channel string, summary models.DailySummary) (string, error)
}

// Archive stores posted digests.
type Archive interface {
	SaveSummary(ctx context.Context, snapshot models.SummarySnapshot) error
	RecentSummaries(ctx context.Context, limit int64) ([]mongodb.SnapshotDocument, error)
}

// Service builds, posts and archives the daily Slack digest.
type Service struct {
	builder SummaryBuilder
	sender  SummarySender
	archive Archive
	channel string
	now     func() time.Time
	logger  *zap.Logger
}

// NewService wires the reporting service. archive may be nil when MongoDB is not configured.
func NewService(builder SummaryBuilder, sender SummarySender, archive Archive, defaultChannel string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		builder: builder,
		sender:  sender,
		archive: archive,
		channel: defaultChannel,
		now:     time.Now,
		logger:  logger,
	}
}

// SendDailySummary posts the digest for day (yesterday when zero) to channel
// (the default channel when empty). Archive failures are logged, not returned.
func (s *Service) SendDailySummary(ctx context.Context, channel string, day models.Date) (models.SummarySnapshot, error) {
	if channel == "" {
		channel = s.channel
	}

	summary, err := s.builder.Summary(ctx, day)
	if err != nil {
		return models.SummarySnapshot{}, fmt.Errorf("build daily summary: %w", err)
	}

	text, err := s.sender.SendSummary(ctx, channel, summary)
	if err != nil {
		return models.SummarySnapshot{}, fmt.Errorf("post daily summary: %w", err)
	}

	snapshot := models.SummarySnapshot{
		Summary:   summary,
		Channel:   channel,
		Message:   text,
		CreatedAt: s.now().UTC(),
	}

	if s.archive != nil {
		if err := s.archive.SaveSummary(ctx, snapshot); err != nil {
			s.logger.Error("failed to archive daily summary", zap.String("date", summary.Date.Key()), zap.Error(err))
		}
	}

	s.logger.Info("daily summary sent",
		zap.String("date", summary.Date.Key()),
		zap.String("channel", channel),
		zap.Int("warnings", len(summary.Warnings)))
	return snapshot, nil
}

// History returns the most recently archived digests, newest first.
// limit is clamped to [1, 200]; zero means 30.
func (s *Service) History(ctx context.Context, limit int) ([]mongodb.SnapshotDocument, error) {
	if s.archive == nil {
		return nil, ErrArchiveNotConfigured
	}
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	docs, err := s.archive.RecentSummaries(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("load summary history: %w", err)
	}
	if docs == nil {
		docs = []mongodb.SnapshotDocument{}
	}
	return docs, nil
}
