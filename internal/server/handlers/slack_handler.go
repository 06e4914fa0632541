package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/parse"
	"github.com/mamadbah2/perfdash/internal/repository/mongodb"
)

// Notifier posts plain text to a Slack channel.
type Notifier interface {
	Send(ctx context.Context, channel, text string) error
}

// Reporter builds and posts the daily digest on demand and lists archived ones.
type Reporter interface {
	SendDailySummary(ctx context.Context, channel string, day models.Date) (models.SummarySnapshot, error)
	History(ctx context.Context, limit int) ([]mongodb.SnapshotDocument, error)
}

// SummaryRequest is the optional body of POST /api/slack/summary.
type SummaryRequest struct {
	Channel string `json:"channel"`
	Date    string `json:"date"`
}

// SlackHandler exposes the Slack notification endpoints.
type SlackHandler struct {
	notifier Notifier
	reporter Reporter
	logger   *zap.Logger
}

// NewSlackHandler constructs the HTTP handler adapter.
func NewSlackHandler(notifier Notifier, reporter Reporter, logger *zap.Logger) *SlackHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlackHandler{notifier: notifier, reporter: reporter, logger: logger}
}

// Send serves POST /api/slack/send.
func (h *SlackHandler) Send(c *gin.Context) {
	var req models.SlackMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid slack payload", zap.Error(err))
		respondError(c, http.StatusBadRequest, "message and channel are required", err)
		return
	}

	if err := h.notifier.Send(c.Request.Context(), req.Channel, req.Message); err != nil {
		h.logger.Error("failed sending slack message", zap.String("channel", req.Channel), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to send slack message", err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"channel": req.Channel, "sent": true})
}

// Summary serves POST /api/slack/summary.
func (h *SlackHandler) Summary(c *gin.Context) {
	var req SummaryRequest
	// An empty body, chunked or not, keeps the defaults.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	var day models.Date
	if req.Date != "" {
		d, err := parse.Date(req.Date)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid date", err)
			return
		}
		day = d
	}

	snapshot, err := h.reporter.SendDailySummary(c.Request.Context(), req.Channel, day)
	if err != nil {
		h.logger.Error("failed sending daily summary", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to send summary", err)
		return
	}

	respondOK(c, http.StatusOK, snapshot)
}

// History serves GET /api/summaries?limit=30.
func (h *SlackHandler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, "limit must be a positive integer", errors.Join(errInvalidQuery, err))
			return
		}
		limit = n
	}

	docs, err := h.reporter.History(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed loading summary history", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to load summary history", err)
		return
	}
	respondOK(c, http.StatusOK, docs)
}
