package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	repo "todoTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	repo  TaskRepository
	now   func() time.Time
	newID func() string
}

func NewTaskService(repo TaskRepository, opts ...Option) *TaskService {
	s := &TaskService{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

// CreateTask создаёт задачу в статусе PLANNING. id и createdAt выставляет сервер.
func (s *TaskService) CreateTask(ctx context.Context, name string, dueDate *time.Time) (*task.Task, error) {
	newTask := &task.Task{
		ID:        s.newID(),
		Name:      name,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
		Status:    task.StatusPlanning,
	}
	newTask.Apply(task.WithDueDate(dueDate))

	if err := newTask.Validate(); err != nil {
		return nil, validationError(err)
	}

	saved, err := s.repo.Save(ctx, newTask)
	if err != nil {
		logger.Error("Service: Не удалось создать задачу", err, zap.String("task_id", newTask.ID))
		return nil, NewBusinessError(CodeCreateFailed, "Не удалось создать задачу", err)
	}

	logger.Info("Service: Задача создана", zap.String("task_id", saved.ID))
	return saved, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id string) (*task.Task, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.readError(id, "get", err)
	}
	return found, nil
}

func (s *TaskService) ListTasks(ctx context.Context, req task.PageRequest) (*task.Page, error) {
	if err := req.Validate(); err != nil {
		return nil, NewBusinessError(CodeValidation, "Неверные параметры страницы", err,
			ToDetail("reason", err.Error()))
	}

	page, err := s.repo.FindAll(ctx, req)
	if err != nil {
		logger.Error("Service: Не удалось получить список задач", err)
		return nil, NewStorageError("list", err)
	}
	return page, nil
}

// UpdateTask читает задачу, применяет изменения и сохраняет запись целиком.
// id и createdAt не меняются.
func (s *TaskService) UpdateTask(ctx context.Context, id string, options ...task.TaskOption) (*task.Task, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.readError(id, "update", err)
	}

	createdAt := existing.CreatedAt
	existing.Apply(options...)
	existing.ID = id
	existing.CreatedAt = createdAt

	if err := existing.Validate(); err != nil {
		return nil, validationError(err)
	}

	saved, err := s.repo.Save(ctx, existing)
	if err != nil {
		logger.Error("Service: Не удалось обновить задачу", err, zap.String("task_id", id))
		return nil, NewStorageError("update", err)
	}

	logger.Info("Service: Задача обновлена", zap.String("task_id", id), zap.String("status", string(saved.Status)))
	return saved, nil
}

// DeleteTask - любая ошибка удаления, включая отсутствие задачи, это DELETE_FAILED
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		reason := "storage"
		if errors.Is(err, repo.ErrNotFound) {
			reason = "not_found"
			logger.Info("Service: Задача для удаления не найдена", zap.String("task_id", id))
		} else {
			logger.Error("Service: Не удалось удалить задачу", err, zap.String("task_id", id))
		}
		return NewBusinessError(CodeDeleteFailed, fmt.Sprintf("Не удалось удалить задачу %s", id), err,
			ToDetail("id", id),
			ToDetail("reason", reason))
	}

	logger.Info("Service: Задача удалена", zap.String("task_id", id))
	return nil
}

func (s *TaskService) readError(id, operation string, err error) *BusinessError {
	if errors.Is(err, repo.ErrNotFound) {
		logger.Info("Service: Задача не найдена", zap.String("task_id", id))
		return NewNotFound(id, err)
	}
	logger.Error("Service: Ошибка чтения задачи", err, zap.String("task_id", id))
	return NewStorageError(operation, err)
}

func validationError(err error) *BusinessError {
	switch {
	case errors.Is(err, task.ErrEmptyName):
		return NewValidationError("name", err.Error())
	case errors.Is(err, task.ErrInvalidStatus):
		return NewValidationError("status", err.Error())
	}
	return NewBusinessError(CodeValidation, err.Error(), err)
}
