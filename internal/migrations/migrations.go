package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"todoTracker/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed *.sql
var files embed.FS

func newMigrate(databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(files, ".")
	if err != nil {
		return nil, fmt.Errorf("источник миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, driverURL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("инициализация миграций: %w", err)
	}
	return m, nil
}

// driverURL переводит postgres:// в схему драйвера pgx/v5 для golang-migrate
func driverURL(databaseURL string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}

// stopOnCancel передаёт отмену ctx в GracefulStop: golang-migrate доводит
// текущую миграцию до конца и больше не применяет новые
func stopOnCancel(ctx context.Context, m *migrate.Migrate) (release func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()
	return func() { close(done) }
}

func Up(ctx context.Context, databaseURL string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("применение миграций: %w", err)
	}

	m, err := newMigrate(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	release := stopOnCancel(ctx, m)
	defer release()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("применение миграций: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("применение миграций прервано: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("Migrations: Схема актуальна", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func Down(ctx context.Context, databaseURL string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("откат миграций: %w", err)
	}

	m, err := newMigrate(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	release := stopOnCancel(ctx, m)
	defer release()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("откат миграций: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("откат миграций прерван: %w", err)
	}

	logger.Info("Migrations: Миграции откачены")
	return nil
}
