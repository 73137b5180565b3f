package handlers

import (
	"context"
	"time"
	"todoTracker/internal/models/task"
)

type TaskService interface {
	HealthCheck(context.Context) error
	CreateTask(context.Context, string, *time.Time) (*task.Task, error)
	GetTaskByID(context.Context, string) (*task.Task, error)
	ListTasks(context.Context, task.PageRequest) (*task.Page, error)
	UpdateTask(context.Context, string, ...task.TaskOption) (*task.Task, error)
	DeleteTask(context.Context, string) error
}
