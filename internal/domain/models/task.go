package models

// Task is a Monday.com board item flattened for the dashboard.
type Task struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Group    string `json:"group"`
	Status   string `json:"status"`
	Owner    string `json:"owner"`
	DueDate  string `json:"dueDate"`
	Priority string `json:"priority"`
	Subitems []Task `json:"subitems,omitempty"`
}

// TaskRequest creates or updates a board item.
type TaskRequest struct {
	Name     string `json:"name"`
	GroupID  string `json:"group_id"`
	Status   string `json:"status"`
	Owner    string `json:"owner"`
	DueDate  string `json:"due_date"`
	Priority string `json:"priority"`
}

// SlackMessageRequest is the body of POST /api/slack/send.
type SlackMessageRequest struct {
	Message string `json:"message" binding:"required"`
	Channel string `json:"channel" binding:"required"`
}
