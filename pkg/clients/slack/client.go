package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/perfdash/internal/metrics"
)

// Poster delivers messages to a Slack incoming webhook.
type Poster interface {
	Post(ctx context.Context, webhookURL string, msg Message) error
}

// Message is an incoming webhook payload. Text is the notification fallback
// when Blocks are present.
type Message struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Block is a Block Kit layout block.
type Block struct {
	Type   string  `json:"type"`
	Text   *Text   `json:"text,omitempty"`
	Fields []*Text `json:"fields,omitempty"`
}

// Text is a Block Kit text object.
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Header builds a header block.
func Header(text string) Block {
	return Block{Type: "header", Text: &Text{Type: "plain_text", Text: text}}
}

// Section builds a markdown section block.
func Section(markdown string) Block {
	return Block{Type: "section", Text: &Text{Type: "mrkdwn", Text: markdown}}
}

// Fields builds a section of side-by-side markdown fields.
func Fields(markdown ...string) Block {
	b := Block{Type: "section"}
	for _, m := range markdown {
		b.Fields = append(b.Fields, &Text{Type: "mrkdwn", Text: m})
	}
	return b
}

// Divider builds a divider block.
func Divider() Block {
	return Block{Type: "divider"}
}

// StatusError is returned when Slack answers with a non-2xx status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("slack webhook error: status=%d, body=%s", e.Status, e.Body)
}

// ErrNoWebhook is returned when Post is called without a URL.
var ErrNoWebhook = errors.New("slack webhook url is empty")

// APIClient is a resty-backed implementation of Poster. It never retries.
type APIClient struct {
	httpClient *resty.Client
	metrics    *metrics.Recorder
}

// NewClient builds a Slack webhook client.
func NewClient(rec *metrics.Recorder) *APIClient {
	restyClient := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient, metrics: rec}
}

// Post sends msg to webhookURL.
func (c *APIClient) Post(ctx context.Context, webhookURL string, msg Message) (err error) {
	if webhookURL == "" {
		return ErrNoWebhook
	}
	defer func(start time.Time) { c.metrics.ObserveUpstream("slack", start, err) }(time.Now())

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(msg).
		Post(webhookURL)
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return &StatusError{Status: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}
