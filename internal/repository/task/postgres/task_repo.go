package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/migrations"
	"todoTracker/internal/models/task"
	repo "todoTracker/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

const selectColumns = `id, name, created_at, due_date, status`

var orderColumns = map[string]string{
	task.PropertyID:        "id",
	task.PropertyName:      "name",
	task.PropertyCreatedAt: "created_at",
	task.PropertyDueDate:   "due_date",
	task.PropertyStatus:    "status",
}

type PoolConfig struct {
	MaxConnections int32
	MinConnections int32
	IdleTimeout    time.Duration
}

type Storage struct {
	pool       *pgxpool.Pool
	connString string
}

func New(ctx context.Context, connString string, poolConfig PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	if poolConfig.MaxConnections > 0 {
		config.MaxConns = poolConfig.MaxConnections
	}
	if poolConfig.MinConnections > 0 {
		config.MinConns = poolConfig.MinConnections
	}
	if poolConfig.IdleTimeout > 0 {
		config.MaxConnIdleTime = poolConfig.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool, connString: connString}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) Migrate(ctx context.Context) error {
	logger.Info("Repository: Применение миграций")
	return migrations.Up(ctx, s.connString)
}

func (s *Storage) Down(ctx context.Context) error {
	logger.Info("Repository: Откат миграций")
	return migrations.Down(ctx, s.connString)
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) FindByID(ctx context.Context, id string) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow(start, "find_by_id")

	query := `SELECT ` + selectColumns + ` FROM tasks WHERE id = $1`

	found, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return found, nil
}

// Save - upsert по id. created_at существующей строки не перезаписывается.
func (s *Storage) Save(ctx context.Context, taskToSave *task.Task) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow(start, "save")

	query := `INSERT INTO tasks (id, name, created_at, due_date, status)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO UPDATE
				SET name = EXCLUDED.name,
					due_date = EXCLUDED.due_date,
					status = EXCLUDED.status
				RETURNING ` + selectColumns

	saved, err := scanTask(s.pool.QueryRow(ctx, query,
		taskToSave.ID,
		taskToSave.Name,
		taskToSave.CreatedAt,
		taskToSave.DueDate,
		string(taskToSave.Status),
	))
	if err != nil {
		logger.Error("Repository: Не удалось сохранить задачу", err,
			zap.String("task_id", taskToSave.ID),
			zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("сохранение задачи: %w", err)
	}
	return saved, nil
}

func (s *Storage) DeleteByID(ctx context.Context, id string) error {
	start := time.Now()
	defer warnIfSlow(start, "delete_by_id")

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) FindAll(ctx context.Context, req task.PageRequest) (*task.Page, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	start := time.Now()
	defer warnIfSlow(start, "find_all")

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&total); err != nil {
		logger.Error("Repository: Не удалось посчитать задачи", err)
		return nil, fmt.Errorf("подсчёт задач: %w", err)
	}

	query := `SELECT ` + selectColumns + ` FROM tasks
				ORDER BY ` + orderBy(req.Sort) + `
				LIMIT $1 OFFSET $2`

	rows, err := s.pool.Query(ctx, query, req.Size, req.Offset())
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	page := &task.Page{
		Content:       []*task.Task{},
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: total,
	}

	for rows.Next() {
		found, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		page.Content = append(page.Content, found)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return page, nil
}

// orderBy собирает ORDER BY только из колонок белого списка
func orderBy(orders []task.SortOrder) string {
	if len(orders) == 0 {
		return "created_at ASC, id ASC"
	}

	parts := make([]string, 0, len(orders)+1)
	for _, order := range orders {
		column, ok := orderColumns[order.Property]
		if !ok {
			continue
		}
		direction := "ASC"
		if order.Descending() {
			direction = "DESC"
		}
		parts = append(parts, column+" "+direction)
	}
	parts = append(parts, "id ASC")
	return strings.Join(parts, ", ")
}

func scanTask(row pgx.Row) (*task.Task, error) {
	var (
		found  task.Task
		status string
	)
	err := row.Scan(
		&found.ID,
		&found.Name,
		&found.CreatedAt,
		&found.DueDate,
		&status,
	)
	if err != nil {
		return nil, err
	}

	found.Status = task.Status(status)
	found.CreatedAt = found.CreatedAt.UTC()
	if found.DueDate != nil {
		due := found.DueDate.UTC()
		found.DueDate = &due
	}
	return &found, nil
}

func warnIfSlow(start time.Time, operation string) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		logger.Warn("Repository: Медленный запрос",
			zap.String("operation", operation),
			zap.Duration("ms", elapsed))
	}
}
