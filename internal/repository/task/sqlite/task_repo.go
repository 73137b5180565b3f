package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	repo "todoTracker/internal/repository"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/clause"
)

var orderColumns = map[string]string{
	task.PropertyID:        "id",
	task.PropertyName:      "name",
	task.PropertyCreatedAt: "created_at",
	task.PropertyDueDate:   "due_date",
	task.PropertyStatus:    "status",
}

type taskRecord struct {
	ID        string     `gorm:"primaryKey"`
	Name      string     `gorm:"not null"`
	CreatedAt time.Time  `gorm:"not null;index"`
	DueDate   *time.Time `gorm:"index"`
	Status    string     `gorm:"size:16;not null;index"`
}

func (taskRecord) TableName() string {
	return "tasks"
}

func toRecord(t *task.Task) *taskRecord {
	record := &taskRecord{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt.UTC(),
		Status:    string(t.Status),
	}
	if t.DueDate != nil {
		due := t.DueDate.UTC()
		record.DueDate = &due
	}
	return record
}

func (r *taskRecord) toTask() *task.Task {
	t := &task.Task{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt.UTC(),
		Status:    task.Status(r.Status),
	}
	if r.DueDate != nil {
		due := r.DueDate.UTC()
		t.DueDate = &due
	}
	return t
}

type Storage struct {
	db *gorm.DB
}

// New открывает файл базы (":memory:" для временной) и создаёт таблицу tasks
func New(path string) (*Storage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("Repository: Не удалось открыть SQLite", err, zap.String("path", path))
		return nil, fmt.Errorf("открытие sqlite: %w", err)
	}

	// in-memory база живёт, пока жив хотя бы один коннект
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("получение соединения sqlite: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&taskRecord{}); err != nil {
		logger.Error("Repository: Не удалось создать таблицу", err)
		return nil, fmt.Errorf("миграция sqlite: %w", err)
	}

	logger.Info("Repository: Успешное подключение к SQLite", zap.String("path", path))
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	logger.Info("Repository: Закрытие соединения SQLite")
	return sqlDB.Close()
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("получение соединения sqlite: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) FindByID(ctx context.Context, id string) (*task.Task, error) {
	var record taskRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.String("task_id", id))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return record.toTask(), nil
}

// Save - upsert по id, created_at существующей строки не перезаписывается
func (s *Storage) Save(ctx context.Context, taskToSave *task.Task) (*task.Task, error) {
	if taskToSave == nil || taskToSave.ID == "" {
		return nil, fmt.Errorf("сохранение задачи: пустой id")
	}

	var saved taskRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "due_date", "status"}),
		}).Create(toRecord(taskToSave)).Error
		if err != nil {
			return err
		}
		return tx.First(&saved, "id = ?", taskToSave.ID).Error
	})
	if err != nil {
		logger.Error("Repository: Не удалось сохранить задачу", err, zap.String("task_id", taskToSave.ID))
		return nil, fmt.Errorf("сохранение задачи: %w", err)
	}
	return saved.toTask(), nil
}

func (s *Storage) DeleteByID(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&taskRecord{}, "id = ?", id)
	if err := result.Error; err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.String("task_id", id))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) FindAll(ctx context.Context, req task.PageRequest) (*task.Page, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&taskRecord{}).Count(&total).Error; err != nil {
		logger.Error("Repository: Не удалось посчитать задачи", err)
		return nil, fmt.Errorf("подсчёт задач: %w", err)
	}

	query := db.Model(&taskRecord{})
	for _, order := range orderBy(req.Sort) {
		query = query.Order(order)
	}

	var records []taskRecord
	if err := query.Limit(req.Size).Offset(req.Offset()).Find(&records).Error; err != nil {
		logger.Error("Repository: Не удалось получить задачи", err)
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	page := &task.Page{
		Content:       make([]*task.Task, 0, len(records)),
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: total,
	}
	for i := range records {
		page.Content = append(page.Content, records[i].toTask())
	}
	return page, nil
}

// orderBy повторяет порядок PostgreSQL: в SQLite NULL меньше любого значения,
// поэтому пустой due_date явно ставится последним при ASC и первым при DESC.
func orderBy(orders []task.SortOrder) []string {
	if len(orders) == 0 {
		return []string{"created_at ASC", "id ASC"}
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
		if column == "due_date" {
			parts = append(parts, "due_date IS NULL "+direction)
		}
		parts = append(parts, column+" "+direction)
	}
	return append(parts, "id ASC")
}
