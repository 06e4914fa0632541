package monday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// pageSize is the largest items_page Monday.com allows.
const pageSize = 500

// Item is a board item with its column values.
type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Group        Group         `json:"group"`
	ColumnValues []ColumnValue `json:"column_values"`
	Subitems     []Item        `json:"subitems"`
}

// Group is the board group an item belongs to.
type Group struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ColumnValue is the rendered text and raw JSON value of one column.
type ColumnValue struct {
	ID    string  `json:"id"`
	Text  *string `json:"text"`
	Value *string `json:"value"`
}

type itemsPage struct {
	Cursor *string `json:"cursor"`
	Items  []Item  `json:"items"`
}

const itemFields = `id name group { id title } column_values { id text value } subitems { id name column_values { id text value } }`

const boardItemsQuery = `query ($boardId: [ID!], $limit: Int!) {
  boards(ids: $boardId) { items_page(limit: $limit) { cursor items { ` + itemFields + ` } } }
}`

const nextItemsQuery = `query ($cursor: String!, $limit: Int!) {
  next_items_page(cursor: $cursor, limit: $limit) { cursor items { ` + itemFields + ` } }
}`

const createItemMutation = `mutation ($boardId: ID!, $groupId: String, $itemName: String!, $columnValues: JSON) {
  create_item(board_id: $boardId, group_id: $groupId, item_name: $itemName, column_values: $columnValues) { id }
}`

const changeValuesMutation = `mutation ($boardId: ID!, $itemId: ID!, $columnValues: JSON!) {
  change_multiple_column_values(board_id: $boardId, item_id: $itemId, column_values: $columnValues) { id }
}`

// ErrBoardNotFound is returned when the board id matches no board visible to the token.
var ErrBoardNotFound = errors.New("monday board not found")

// BoardItems returns every item on the board, following items_page cursors.
func (c *APIClient) BoardItems(ctx context.Context, boardID string) ([]Item, error) {
	var first struct {
		Boards []struct {
			ItemsPage itemsPage `json:"items_page"`
		} `json:"boards"`
	}
	if err := c.Do(ctx, boardItemsQuery, map[string]any{"boardId": []string{boardID}, "limit": pageSize}, &first); err != nil {
		return nil, fmt.Errorf("board %s items: %w", boardID, err)
	}
	if len(first.Boards) == 0 {
		return nil, fmt.Errorf("board %s: %w", boardID, ErrBoardNotFound)
	}

	page := first.Boards[0].ItemsPage
	items := page.Items
	for page.Cursor != nil && *page.Cursor != "" {
		var next struct {
			NextItemsPage itemsPage `json:"next_items_page"`
		}
		if err := c.Do(ctx, nextItemsQuery, map[string]any{"cursor": *page.Cursor, "limit": pageSize}, &next); err != nil {
			return nil, fmt.Errorf("board %s next page: %w", boardID, err)
		}
		page = next.NextItemsPage
		items = append(items, page.Items...)
	}
	return items, nil
}

// CreateItem adds an item to the board and returns its id.
func (c *APIClient) CreateItem(ctx context.Context, boardID, groupID, name string, values map[string]any) (string, error) {
	encoded, err := encodeValues(values)
	if err != nil {
		return "", err
	}
	vars := map[string]any{"boardId": boardID, "itemName": name, "columnValues": encoded}
	if groupID != "" {
		vars["groupId"] = groupID
	}

	var out struct {
		CreateItem struct {
			ID string `json:"id"`
		} `json:"create_item"`
	}
	if err := c.Do(ctx, createItemMutation, vars, &out); err != nil {
		return "", fmt.Errorf("create item on board %s: %w", boardID, err)
	}
	return out.CreateItem.ID, nil
}

// ChangeColumnValues updates several columns of one item.
func (c *APIClient) ChangeColumnValues(ctx context.Context, boardID, itemID string, values map[string]any) error {
	encoded, err := encodeValues(values)
	if err != nil {
		return err
	}
	vars := map[string]any{"boardId": boardID, "itemId": itemID, "columnValues": encoded}
	if err := c.Do(ctx, changeValuesMutation, vars, nil); err != nil {
		return fmt.Errorf("update item %s: %w", itemID, err)
	}
	return nil
}

// encodeValues renders column values as the JSON string the API expects.
func encodeValues(values map[string]any) (string, error) {
	if len(values) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode column values: %w", err)
	}
	return string(raw), nil
}
