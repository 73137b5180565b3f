package task

import (
	"time"
)

// TaskOption - частичное обновление задачи.
// Через опции меняются только name, dueDate и status, id и createdAt не трогаются.
type TaskOption func(*Task)

func WithName(name string) TaskOption {
	return func(task *Task) {
		task.Name = name
	}
}

// WithDueDate с nil очищает дедлайн
func WithDueDate(dueDate *time.Time) TaskOption {
	return func(task *Task) {
		if dueDate == nil {
			task.DueDate = nil
			return
		}
		value := *dueDate
		task.DueDate = &value
	}
}

func WithStatus(status Status) TaskOption {
	return func(task *Task) {
		task.Status = status
	}
}

func (t *Task) Apply(options ...TaskOption) {
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
}
