package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/perfdash/internal/config"
	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/pkg/clients/slack"
)

type fakePoster struct {
	url string
	msg slack.Message
	err error
}

func (f *fakePoster) Post(_ context.Context, url string, msg slack.Message) error {
	f.url, f.msg = url, msg
	return f.err
}

func TestSendResolvesChannel(t *testing.T) {
	poster := &fakePoster{}
	svc := NewService(config.SlackConfig{
		WebhookURL: "https://hooks.test/default",
		Webhooks:   map[string]string{"finance": "https://hooks.test/finance"},
	}, poster, nil)

	require.NoError(t, svc.Send(context.Background(), "#Finance", "hello"))
	assert.Equal(t, "https://hooks.test/finance", poster.url)
	assert.Equal(t, "hello", poster.msg.Text)

	require.NoError(t, svc.Send(context.Background(), "random", "hi"))
	assert.Equal(t, "https://hooks.test/default", poster.url)
}

func TestSendWithoutWebhook(t *testing.T) {
	svc := NewService(config.SlackConfig{}, &fakePoster{}, nil)
	assert.False(t, svc.Configured())
	assert.ErrorIs(t, svc.Send(context.Background(), "general", "hi"), ErrWebhookNotConfigured)
}

func TestSendWrapsPosterError(t *testing.T) {
	poster := &fakePoster{err: &slack.StatusError{Status: 404, Body: "no_service"}}
	svc := NewService(config.SlackConfig{WebhookURL: "https://hooks.test/x"}, poster, nil)

	err := svc.Send(context.Background(), "general", "hi")
	var statusErr *slack.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 404, statusErr.Status)
}

func TestSendSummary(t *testing.T) {
	poster := &fakePoster{}
	svc := NewService(config.SlackConfig{WebhookURL: "https://hooks.test/x"}, poster, nil)

	summary := models.DailySummary{
		Date: models.DateOf(2024, time.March, 1),
		Totals: models.Aggregate{
			Spend:   decimal.RequireFromString("1234.5"),
			Revenue: decimal.RequireFromString("2000"),
			Margin:  decimal.RequireFromString("765.5"),
			ROI:     62.01,
		},
		SpendChange:    10,
		MarginChange:   -5.3,
		CurrentBalance: decimal.RequireFromString("-50"),
		TopNetworks:    []models.Aggregate{{Key: "A", Margin: decimal.NewFromInt(500), Spend: decimal.NewFromInt(700), ROI: 71.43}},
		Warnings:       []string{"payroll sheet unavailable"},
	}

	text, err := svc.SendSummary(context.Background(), "general", summary)
	require.NoError(t, err)
	assert.Contains(t, text, "Daily performance for 2024-03-01")
	assert.Contains(t, text, "Spend $1,234.50 (▲ 10.0%)")
	assert.Contains(t, text, "Margin $765.50 (▼ 5.3%)")
	assert.Contains(t, text, "Cash balance -$50.00")

	require.Len(t, poster.msg.Blocks, 5)
	assert.Equal(t, "header", poster.msg.Blocks[0].Type)
	assert.True(t, strings.Contains(poster.msg.Blocks[3].Text.Text, "1. A: $500.00 margin"))
	assert.Contains(t, poster.msg.Blocks[4].Text.Text, "payroll sheet unavailable")
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", Money(decimal.Zero))
	assert.Equal(t, "$1,000,000.10", Money(decimal.RequireFromString("1000000.1")))
	assert.Equal(t, "-$12.35", Money(decimal.RequireFromString("-12.345")))
}
