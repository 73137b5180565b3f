package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Task struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	DueDate   *time.Time `json:"dueDate" db:"due_date"`
	Status    Status     `json:"status" db:"status"`
}

type Status string

const StatusPlanning Status = "PLANNING"
const StatusDoing Status = "DOING"
const StatusCompleted Status = "COMPLETED"

var ErrEmptyName = errors.New("название задачи не может быть пустым")
var ErrInvalidStatus = errors.New("неизвестный статус задачи")

func (s Status) IsValid() bool {
	switch s {
	case StatusPlanning, StatusDoing, StatusCompleted:
		return true
	}
	return false
}

func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
	return status, nil
}

// Equal сравнивает задачи по содержимому: name, createdAt, dueDate, status.
// ID в сравнение не входит, идентичность проверяется только через ID.
func (t *Task) Equal(other *Task) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Name == other.Name &&
		t.CreatedAt.Equal(other.CreatedAt) &&
		equalDueDates(t.DueDate, other.DueDate) &&
		t.Status == other.Status
}

func equalDueDates(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func (t *Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	return nil
}

func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	clone := *t
	if t.DueDate != nil {
		dueDate := *t.DueDate
		clone.DueDate = &dueDate
	}
	return &clone
}

func (t *Task) String() string {
	dueDate := "<nil>"
	if t.DueDate != nil {
		dueDate = t.DueDate.Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("Task[id=%s,name=%s,createdAt=%s,dueDate=%s,status=%s]",
		t.ID, t.Name, t.CreatedAt.Format(time.RFC3339Nano), dueDate, t.Status)
}
