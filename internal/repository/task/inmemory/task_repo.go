package inmemory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	repo "todoTracker/internal/repository"
)

// TaskStorage хранит копии задач, наружу тоже отдаются копии:
// изменения попадают в хранилище только через Save.
type TaskStorage struct {
	storage map[string]*task.Task
	mtx     *sync.RWMutex
	ids     []string
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[string]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []string{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) FindByID(ctx context.Context, id string) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

// Save - upsert по id, у существующей задачи createdAt не меняется
func (s *TaskStorage) Save(ctx context.Context, taskToSave *task.Task) (*task.Task, error) {
	if taskToSave == nil || taskToSave.ID == "" {
		return nil, fmt.Errorf("сохранение задачи: пустой id")
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	saved := taskToSave.Clone()
	if existing, ok := s.storage[saved.ID]; ok {
		saved.CreatedAt = existing.CreatedAt
	} else {
		s.ids = append(s.ids, saved.ID)
	}
	s.storage[saved.ID] = saved

	return saved.Clone(), nil
}

func (s *TaskStorage) DeleteByID(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	s.ids = slices.DeleteFunc(s.ids, func(val string) bool {
		return val == id
	})
	return nil
}

func (s *TaskStorage) FindAll(ctx context.Context, req task.PageRequest) (*task.Page, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	s.mtx.RLock()
	all := make([]*task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		all = append(all, s.storage[id])
	}
	s.mtx.RUnlock()

	orders := req.Sort
	if len(orders) == 0 {
		orders = defaultOrder
	}
	slices.SortStableFunc(all, func(a, b *task.Task) int {
		return compareTasks(a, b, orders)
	})

	page := &task.Page{
		Content:       []*task.Task{},
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: int64(len(all)),
	}

	offset := req.Offset()
	if offset >= len(all) {
		return page, nil
	}
	end := min(offset+req.Size, len(all))

	for _, t := range all[offset:end] {
		page.Content = append(page.Content, t.Clone())
	}
	return page, nil
}

// без ключей сортировки задачи идут по createdAt, как в SQL-хранилищах
var defaultOrder = []task.SortOrder{{Property: task.PropertyCreatedAt, Direction: task.DirectionAsc}}

// сортировка по ключам запроса, при равенстве - по id.
// Пустой dueDate идёт последним при ASC и первым при DESC, как в PostgreSQL.
func compareTasks(a, b *task.Task, orders []task.SortOrder) int {
	for _, order := range orders {
		c := compareProperty(a, b, order.Property)
		if c == 0 {
			continue
		}
		if order.Descending() {
			return -c
		}
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func compareProperty(a, b *task.Task, property string) int {
	switch property {
	case task.PropertyID:
		return strings.Compare(a.ID, b.ID)
	case task.PropertyName:
		return strings.Compare(a.Name, b.Name)
	case task.PropertyCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case task.PropertyDueDate:
		return compareDueDates(a.DueDate, b.DueDate)
	case task.PropertyStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	}
	return 0
}

func compareDueDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}
