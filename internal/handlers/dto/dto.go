package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
	"todoTracker/internal/models/task"
)

// DateTimeLayout - ISO-8601 без смещения, дробная часть секунд только если она есть
const DateTimeLayout = "2006-01-02T15:04:05.999999999"

// DateTime пишется в UTC без смещения. На входе принимается RFC 3339
// со смещением (переводится в UTC) или дата-время без смещения (считается UTC).
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.UTC()}
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.UTC().Format(DateTimeLayout))
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("дата должна быть строкой: %w", err)
	}

	parsed, err := ParseDateTime(value)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

func ParseDateTime(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed.UTC(), nil
	}
	parsed, err := time.Parse(DateTimeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("неверный формат даты %q, ожидается ISO-8601", value)
	}
	return parsed.UTC(), nil
}

// TimePtr возвращает nil для отсутствующей даты
func (d *DateTime) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.UTC()
	return &t
}

// CreateTaskRequest - id и status клиента игнорируются
type CreateTaskRequest struct {
	Name    string    `json:"name"`
	DueDate *DateTime `json:"dueDate"`
}

// UpdateTaskRequest - id и createdAt клиента игнорируются, dueDate: null очищает дедлайн
type UpdateTaskRequest struct {
	Name    *string   `json:"name"`
	DueDate *DateTime `json:"dueDate"`
	Status  *string   `json:"status"`
}

type TaskResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt DateTime  `json:"createdAt"`
	DueDate   *DateTime `json:"dueDate"`
	Status    string    `json:"status"`
}

func FromTask(t *task.Task) TaskResponse {
	response := TaskResponse{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: NewDateTime(t.CreatedAt),
		Status:    string(t.Status),
	}
	if t.DueDate != nil {
		due := NewDateTime(*t.DueDate)
		response.DueDate = &due
	}
	return response
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

type Link struct {
	Href string `json:"href"`
}

type EmbeddedTasks struct {
	Tasks []TaskResponse `json:"tasks"`
}

type PageMetadata struct {
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
}

// PageResponse - страница в формате HAL
type PageResponse struct {
	Embedded EmbeddedTasks   `json:"_embedded"`
	Links    map[string]Link `json:"_links"`
	Page     PageMetadata    `json:"page"`
}

func FromPage(page *task.Page, links map[string]Link) PageResponse {
	return PageResponse{
		Embedded: EmbeddedTasks{Tasks: FromTaskList(page.Content)},
		Links:    links,
		Page: PageMetadata{
			Size:          page.Size,
			TotalElements: page.TotalElements,
			TotalPages:    page.TotalPages(),
			Number:        page.Number,
		},
	}
}
