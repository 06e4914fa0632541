package monday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/mamadbah2/perfdash/internal/config"
	"github.com/mamadbah2/perfdash/internal/metrics"
)

// Client exposes the Monday.com GraphQL operations used by the dashboard.
type Client interface {
	BoardItems(ctx context.Context, boardID string) ([]Item, error)
	CreateItem(ctx context.Context, boardID, groupID, name string, values map[string]any) (string, error)
	ChangeColumnValues(ctx context.Context, boardID, itemID string, values map[string]any) error
}

// APIClient is a resty-backed, rate limited implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	apiURL     string
	limiter    *rate.Limiter
	metrics    *metrics.Recorder
}

// NewClient builds a Monday.com client from configuration.
func NewClient(cfg config.MondayConfig, rec *metrics.Recorder) *APIClient {
	perMinute := cfg.RatePerMinute
	if perMinute <= 0 {
		perMinute = 60
	}

	restyClient := resty.New().
		SetHeader("Authorization", cfg.APIToken).
		SetHeader("API-Version", cfg.APIVersion).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		apiURL:     cfg.APIURL,
		limiter:    rate.NewLimiter(rate.Limit(float64(perMinute)/60), max(1, perMinute/10)),
		metrics:    rec,
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data         json.RawMessage `json:"data"`
	Errors       []GraphQLError  `json:"errors"`
	ErrorMessage string          `json:"error_message"`
	ErrorCode    string          `json:"error_code"`
}

// GraphQLError is one entry of a GraphQL errors array.
type GraphQLError struct {
	Message string `json:"message"`
}

// APIError is returned when Monday.com rejects a request.
type APIError struct {
	Status   int
	Code     string
	Messages []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("monday api error: status=%d, code=%s, message=%s", e.Status, e.Code, strings.Join(e.Messages, "; "))
}

// Do runs a GraphQL query and decodes its data field into out.
func (c *APIClient) Do(ctx context.Context, query string, vars map[string]any, out any) (err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("monday rate limit: %w", err)
	}
	defer func(start time.Time) { c.metrics.ObserveUpstream("monday", start, err) }(time.Now())

	result := new(graphQLResponse)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(graphQLRequest{Query: query, Variables: vars}).
		SetResult(result).
		SetError(result).
		Post(c.apiURL)
	if err != nil {
		return fmt.Errorf("monday request: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest || len(result.Errors) > 0 || result.ErrorMessage != "" {
		apiErr := &APIError{Status: resp.StatusCode(), Code: result.ErrorCode}
		for _, e := range result.Errors {
			apiErr.Messages = append(apiErr.Messages, e.Message)
		}
		if result.ErrorMessage != "" {
			apiErr.Messages = append(apiErr.Messages, result.ErrorMessage)
		}
		if len(apiErr.Messages) == 0 {
			apiErr.Messages = []string{resp.String()}
		}
		return apiErr
	}

	if out == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("decode monday data: %w", err)
	}
	return nil
}
