package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/perfdash/internal/config"
	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/repository/cache"
	"github.com/mamadbah2/perfdash/pkg/clients/monday"
)

var (
	// ErrBoardNotConfigured is returned when the Monday.com token or board id is missing.
	ErrBoardNotConfigured = errors.New("monday board not configured: set MONDAY_API_TOKEN and MONDAY_BOARD_ID")
	// ErrInvalidTask is returned for task requests that cannot be sent to the board.
	ErrInvalidTask = errors.New("invalid task")
)

const notAvailable = "N/A"

// Service lists and edits the tasks of one Monday.com board.
type Service struct {
	client monday.Client
	cache  cache.Cache
	ttl    time.Duration
	cfg    config.MondayConfig
	logger *zap.Logger
}

// NewService wires the task service. client may be nil when Monday.com is not configured.
func NewService(cfg config.MondayConfig, client monday.Client, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, cache: c, ttl: ttl, cfg: cfg, logger: logger}
}

func (s *Service) configured() bool {
	return s.client != nil && s.cfg.APIToken != "" && s.cfg.BoardID != ""
}

func (s *Service) cacheKey() string {
	return "monday:board:" + s.cfg.BoardID
}

// List returns the board tasks, served from cache within the TTL.
func (s *Service) List(ctx context.Context) ([]models.Task, error) {
	if !s.configured() {
		return nil, ErrBoardNotConfigured
	}

	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, s.cacheKey())
		if err != nil {
			s.logger.Warn("task cache get failed", zap.Error(err))
		}
		if ok {
			var tasks []models.Task
			if err := json.Unmarshal(raw, &tasks); err == nil {
				return tasks, nil
			}
		}
	}

	items, err := s.client.BoardItems(ctx, s.cfg.BoardID)
	if err != nil {
		return nil, fmt.Errorf("load monday tasks: %w", err)
	}

	tasks := make([]models.Task, 0, len(items))
	for _, item := range items {
		tasks = append(tasks, s.toTask(item))
	}

	if s.cache != nil {
		if raw, err := json.Marshal(tasks); err == nil {
			if err := s.cache.Set(ctx, s.cacheKey(), raw, s.ttl); err != nil {
				s.logger.Warn("task cache set failed", zap.Error(err))
			}
		}
	}
	return tasks, nil
}

// Create adds a task to the board and returns it as the board will list it.
func (s *Service) Create(ctx context.Context, req models.TaskRequest) (models.Task, error) {
	if !s.configured() {
		return models.Task{}, ErrBoardNotConfigured
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Task{}, fmt.Errorf("%w: name is required", ErrInvalidTask)
	}

	values, err := s.columnValues(req)
	if err != nil {
		return models.Task{}, err
	}

	id, err := s.client.CreateItem(ctx, s.cfg.BoardID, req.GroupID, name, values)
	if err != nil {
		return models.Task{}, fmt.Errorf("create monday task: %w", err)
	}
	s.invalidate(ctx)

	s.logger.Info("monday task created", zap.String("item_id", id))
	return models.Task{
		ID:       id,
		Name:     name,
		Group:    orNA(req.GroupID),
		Status:   orNA(req.Status),
		Owner:    orNA(req.Owner),
		DueDate:  orNA(req.DueDate),
		Priority: orNA(req.Priority),
	}, nil
}

// Update changes the non-empty fields of req on item id.
func (s *Service) Update(ctx context.Context, id string, req models.TaskRequest) error {
	if !s.configured() {
		return ErrBoardNotConfigured
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: item id is required", ErrInvalidTask)
	}

	values, err := s.columnValues(req)
	if err != nil {
		return err
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		values["name"] = name
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: nothing to update", ErrInvalidTask)
	}

	if err := s.client.ChangeColumnValues(ctx, s.cfg.BoardID, id, values); err != nil {
		return fmt.Errorf("update monday task %s: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey()); err != nil {
		s.logger.Warn("task cache invalidation failed", zap.Error(err))
	}
}

// columnValues translates a request into Monday.com column value JSON.
func (s *Service) columnValues(req models.TaskRequest) (map[string]any, error) {
	values := map[string]any{}
	if v := strings.TrimSpace(req.Status); v != "" {
		values[s.cfg.StatusColumn] = map[string]string{"label": v}
	}
	if v := strings.TrimSpace(req.Priority); v != "" {
		values[s.cfg.PriorityColumn] = map[string]string{"label": v}
	}
	if v := strings.TrimSpace(req.DueDate); v != "" {
		if _, err := time.Parse(models.DateLayout, v); err != nil {
			return nil, fmt.Errorf("%w: due_date must be YYYY-MM-DD", ErrInvalidTask)
		}
		values[s.cfg.DueColumn] = map[string]string{"date": v}
	}
	if v := strings.TrimSpace(req.Owner); v != "" {
		userID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: owner must be a monday user id", ErrInvalidTask)
		}
		values[s.cfg.OwnerColumn] = map[string]any{
			"personsAndTeams": []map[string]any{{"id": userID, "kind": "person"}},
		}
	}
	return values, nil
}

func (s *Service) toTask(item monday.Item) models.Task {
	columns := make(map[string]string, len(item.ColumnValues))
	for _, cv := range item.ColumnValues {
		if cv.Text != nil {
			columns[cv.ID] = *cv.Text
		}
	}

	task := models.Task{
		ID:       item.ID,
		Name:     item.Name,
		Group:    orNA(item.Group.Title),
		Status:   orNA(columns[s.cfg.StatusColumn]),
		Owner:    orNA(columns[s.cfg.OwnerColumn]),
		DueDate:  orNA(columns[s.cfg.DueColumn]),
		Priority: orNA(columns[s.cfg.PriorityColumn]),
	}
	for _, sub := range item.Subitems {
		task.Subitems = append(task.Subitems, s.toTask(sub))
	}
	return task
}

func orNA(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return notAvailable
	}
	return s
}
