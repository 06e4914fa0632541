package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/perfdash/internal/config"
	"github.com/mamadbah2/perfdash/internal/metrics"
)

// Repository is the read side of the Google Sheets values API.
type Repository interface {
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
	ReadRanges(ctx context.Context, sheetRanges ...string) (map[string][][]interface{}, error)
}

// ErrEmptyRange is returned when a caller asks for a blank A1 range.
var ErrEmptyRange = errors.New("sheetRange must not be empty")

// GoogleSheetRepository implements Repository using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	metrics       *metrics.Recorder
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a read-only Google Sheets repository.
// Inline JSON credentials take precedence over a credentials file.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, rec *metrics.Recorder, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Configured() {
		return nil, fmt.Errorf("google sheets not configured: missing %v", cfg.Missing())
	}

	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope)}
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	} else {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return NewWithService(service, cfg.SpreadsheetID, rec, logger), nil
}

// NewWithService wraps an already constructed sheets service.
func NewWithService(service *sheetsapi.Service, spreadsheetID string, rec *metrics.Recorder, logger *zap.Logger) *GoogleSheetRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: spreadsheetID,
		metrics:       rec,
		logger:        logger,
	}
}

// SpreadsheetID identifies the workbook this repository reads.
func (r *GoogleSheetRepository) SpreadsheetID() string {
	return r.spreadsheetID
}

// ReadRange fetches a rectangular data range from the spreadsheet.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) (rows [][]interface{}, err error) {
	if sheetRange == "" {
		return nil, ErrEmptyRange
	}
	defer func(start time.Time) { r.metrics.ObserveUpstream("sheets", start, err) }(time.Now())

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	r.logger.Debug("range read", zap.String("range", sheetRange), zap.Int("rows", len(resp.Values)))
	return resp.Values, nil
}

// ReadRanges fetches several ranges in one batchGet call, keyed by the requested range.
func (r *GoogleSheetRepository) ReadRanges(ctx context.Context, sheetRanges ...string) (out map[string][][]interface{}, err error) {
	for _, rng := range sheetRanges {
		if rng == "" {
			return nil, ErrEmptyRange
		}
	}
	out = make(map[string][][]interface{}, len(sheetRanges))
	if len(sheetRanges) == 0 {
		return out, nil
	}
	defer func(start time.Time) { r.metrics.ObserveUpstream("sheets", start, err) }(time.Now())

	resp, err := r.service.Spreadsheets.Values.BatchGet(r.spreadsheetID).
		Ranges(sheetRanges...).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("batch read %d ranges: %w", len(sheetRanges), err)
	}

	// The API echoes ranges normalized (e.g. "'Tab'!A1:K500"), so results are matched by position.
	for i, vr := range resp.ValueRanges {
		if i >= len(sheetRanges) {
			break
		}
		out[sheetRanges[i]] = vr.Values
	}
	return out, nil
}
