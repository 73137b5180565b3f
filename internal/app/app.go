package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"todoTracker/internal/config"
	"todoTracker/internal/handlers"
	"todoTracker/internal/logger"
	"todoTracker/internal/middleware"
	"todoTracker/internal/repository/task/inmemory"
	"todoTracker/internal/repository/task/postgres"
	"todoTracker/internal/repository/task/sqlite"
	"todoTracker/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const serviceName = "todo-tracker"

type App struct {
	config     *config.Config
	server     *http.Server
	router     http.Handler
	repository service.TaskRepository // интерфейс!
	service    *service.TaskService
	handler    *handlers.TaskHandler
	shutdowns  []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init собирает зависимости явно: логгер, хранилище, сервис, обработчики, роутер и сервер
func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	repository, err := a.initRepository(ctx)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("инициализация хранилища: %w", err)
	}
	a.repository = repository

	a.service = service.NewTaskService(a.repository)
	a.handler = handlers.NewTaskHandler(a.service, handlers.Paging{
		DefaultSize: a.config.Pagination.DefaultSize,
		MaxSize:     a.config.Pagination.MaxSize,
	})
	a.router = a.buildRouter()

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("App: Приложение собрано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr))

	return a, nil
}

func (a *App) initRepository(ctx context.Context) (service.TaskRepository, error) {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolConfig{
			MaxConnections: a.config.Database.MaxConnections,
			MinConnections: a.config.Database.MinConnections,
			IdleTimeout:    a.config.Database.IdleTimeout,
		})
		if err != nil {
			return nil, err
		}
		a.shutdowns = append(a.shutdowns, storage.Close)

		if err := storage.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("миграции: %w", err)
		}
		return storage, nil

	case config.RepositorySQLite:
		storage, err := sqlite.New(a.config.SQLite.Path)
		if err != nil {
			return nil, err
		}
		a.shutdowns = append(a.shutdowns, func() {
			if err := storage.Close(); err != nil {
				logger.Error("App: Ошибка закрытия SQLite", err)
			}
		})
		return storage, nil

	case config.RepositoryInMemory:
		return inmemory.NewTaskStorage(), nil
	}

	return nil, fmt.Errorf("неизвестный тип репозитория: %q", a.config.Repository.Type)
}

func (a *App) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIdHeader},
		ExposedHeaders: []string{middleware.RequestIdHeader},
		MaxAge:         300,
	}))
	if rpm := a.config.RateLimit.RequestsPerMinute; rpm > 0 {
		r.Use(middleware.RateLimit(rpm))
	}
	if timeout := a.config.Server.RequestTimeout; timeout > 0 {
		r.Use(chimw.Timeout(timeout))
	}

	r.Mount("/", a.handler.Routes())

	return otelhttp.NewHandler(r, serviceName)
}

// Handler - корневой http.Handler со всеми middleware
func (a *App) Handler() http.Handler {
	return a.router
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер и
// выполняет shutdown-функции в обратном порядке
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("App: Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (a *App) shutdownTimeout() time.Duration {
	if a.config.Server.ShutdownTimeout > 0 {
		return a.config.Server.ShutdownTimeout
	}
	return 15 * time.Second
}

func (a *App) close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
