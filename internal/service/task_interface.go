package service

import (
	"context"
	"todoTracker/internal/models/task"
)

// TaskRepository - порт хранилища. FindByID и DeleteByID возвращают
// repository.ErrNotFound, если задачи нет.
type TaskRepository interface {
	HealthCheck(context.Context) error
	FindByID(context.Context, string) (*task.Task, error)
	FindAll(context.Context, task.PageRequest) (*task.Page, error)
	Save(context.Context, *task.Task) (*task.Task, error)
	DeleteByID(context.Context, string) error
}
