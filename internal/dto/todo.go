package dto

import (
	"encoding/json"
	"strings"
	"time"

	"todolist/internal/utils"
)

// Date parses dueDate from JSON as either date-only ("2006-01-02") or RFC3339.
// null and "" leave it unset.
type Date struct{ t *time.Time }

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return utils.ErrInvalidDate
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	parsed, err := utils.ParseDate(*raw)
	if err != nil {
		return err
	}
	d.t = &parsed
	return nil
}

// Ptr returns *time.Time for use in service/domain; nil when unset.
func (d *Date) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	return d.t
}

// Status reads a JSON string; any other JSON value reads as absent.
type Status string

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = ""
	}
	*s = Status(raw)
	return nil
}

// Ptr returns the status as *string; nil when the field was not sent.
func (s *Status) Ptr() *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

type CreateTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     Date    `json:"dueDate" swaggertype:"string" example:"2026-03-01"`
	Status      Status  `json:"status" swaggertype:"string" enums:"TODO,IN_PROGRESS,DONE"`
}

// UpdateTodoRequest: nil fields are left unchanged.
type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *Date   `json:"dueDate" swaggertype:"string" example:"2026-03-01"`
	Status      *Status `json:"status" swaggertype:"string" enums:"TODO,IN_PROGRESS,DONE"`
}

// ListTodosQuery is the query string of GET /todos.
type ListTodosQuery struct {
	Status string `form:"status"`
	Search string `form:"search"`
	SortBy string `form:"sortBy"`
	Order  string `form:"order"`
	From   string `form:"from"`
	To     string `form:"to"`
}

type TodoResponse struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	DueDate     time.Time      `json:"dueDate"`
	Status      string         `json:"status"`
	UserID      int64          `json:"userId"`
	IsDeleted   bool           `json:"isDeleted"`
	DeletedAt   *time.Time     `json:"deletedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	User        *OwnerResponse `json:"user,omitempty"`
}
