package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/perfdash/internal/config"
	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/repository/cache"
	"github.com/mamadbah2/perfdash/pkg/clients/monday"
)

type fakeClient struct {
	items     []monday.Item
	err       error
	listCalls int
	created   map[string]any
	updated   map[string]any
	groupID   string
}

func (f *fakeClient) BoardItems(context.Context, string) ([]monday.Item, error) {
	f.listCalls++
	return f.items, f.err
}

func (f *fakeClient) CreateItem(_ context.Context, _, groupID, _ string, values map[string]any) (string, error) {
	f.groupID, f.created = groupID, values
	return "101", f.err
}

func (f *fakeClient) ChangeColumnValues(_ context.Context, _, _ string, values map[string]any) error {
	f.updated = values
	return f.err
}

func str(s string) *string { return &s }

var cfg = config.MondayConfig{
	APIToken:       "t",
	BoardID:        "42",
	StatusColumn:   "status",
	OwnerColumn:    "person",
	DueColumn:      "date4",
	PriorityColumn: "priority",
}

func TestListMapsColumnsAndCaches(t *testing.T) {
	client := &fakeClient{items: []monday.Item{{
		ID:    "1",
		Name:  "Launch",
		Group: monday.Group{ID: "topics", Title: "This week"},
		ColumnValues: []monday.ColumnValue{
			{ID: "status", Text: str("Working on it")},
			{ID: "person", Text: str("")},
			{ID: "date4", Text: nil},
		},
		Subitems: []monday.Item{{ID: "2", Name: "Creative"}},
	}}}
	svc := NewService(cfg, client, cache.NewMemory(), time.Minute, nil)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Working on it", got[0].Status)
	assert.Equal(t, "N/A", got[0].Owner)
	assert.Equal(t, "N/A", got[0].DueDate)
	assert.Equal(t, "N/A", got[0].Priority)
	assert.Equal(t, "This week", got[0].Group)
	require.Len(t, got[0].Subitems, 1)
	assert.Equal(t, "N/A", got[0].Subitems[0].Status)

	again, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, 1, client.listCalls)
}

func TestNotConfigured(t *testing.T) {
	svc := NewService(config.MondayConfig{}, nil, nil, 0, nil)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, ErrBoardNotConfigured)
	_, err = svc.Create(context.Background(), models.TaskRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrBoardNotConfigured)
	assert.ErrorIs(t, svc.Update(context.Background(), "1", models.TaskRequest{Status: "Done"}), ErrBoardNotConfigured)
}

func TestCreateBuildsColumnValuesAndInvalidates(t *testing.T) {
	client := &fakeClient{}
	mem := cache.NewMemory()
	svc := NewService(cfg, client, mem, time.Minute, nil)
	require.NoError(t, mem.Set(context.Background(), "monday:board:42", []byte(`[]`), time.Minute))

	task, err := svc.Create(context.Background(), models.TaskRequest{
		Name:     "Refresh creatives",
		GroupID:  "topics",
		Status:   "Stuck",
		Owner:    "12345",
		DueDate:  "2024-03-15",
		Priority: "High",
	})
	require.NoError(t, err)
	assert.Equal(t, "101", task.ID)
	assert.Equal(t, "topics", client.groupID)
	assert.Equal(t, map[string]string{"label": "Stuck"}, client.created["status"])
	assert.Equal(t, map[string]string{"date": "2024-03-15"}, client.created["date4"])
	assert.Contains(t, client.created, "person")

	_, ok, _ := mem.Get(context.Background(), "monday:board:42")
	assert.False(t, ok)
}

func TestCreateRejectsInvalidRequests(t *testing.T) {
	svc := NewService(cfg, &fakeClient{}, nil, 0, nil)

	cases := []models.TaskRequest{
		{Name: "  "},
		{Name: "x", DueDate: "15/03/2024"},
		{Name: "x", Owner: "Sam"},
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidTask, "%+v", req)
	}
}

func TestUpdate(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(cfg, client, nil, 0, nil)

	require.NoError(t, svc.Update(context.Background(), "7", models.TaskRequest{Name: "Renamed", Status: "Done"}))
	assert.Equal(t, "Renamed", client.updated["name"])
	assert.Equal(t, map[string]string{"label": "Done"}, client.updated["status"])

	assert.ErrorIs(t, svc.Update(context.Background(), "7", models.TaskRequest{}), ErrInvalidTask)
	assert.ErrorIs(t, svc.Update(context.Background(), "", models.TaskRequest{Status: "Done"}), ErrInvalidTask)
}

func TestUpstreamErrorIsWrapped(t *testing.T) {
	upstream := &monday.APIError{Status: 401, Messages: []string{"Not Authenticated"}}
	svc := NewService(cfg, &fakeClient{err: upstream}, nil, 0, nil)

	_, err := svc.List(context.Background())
	var apiErr *monday.APIError
	require.True(t, errors.As(err, &apiErr))
}
