package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	"todoTracker/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
	Paging      Paging
}

func NewTaskHandler(taskService TaskService, paging Paging) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
		Paging:      paging.normalize(),
	}
}

// Routes - маршруты API задач
func (s *TaskHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.HealthCheck)

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", s.GetTasks)  // GET /todos
		r.Post("/", s.PostTask) // POST /todos

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTaskByID)       // GET /todos/{id}
			r.Put("/", s.UpdateTaskByID)    // PUT /todos/{id}
			r.Delete("/", s.DeleteTaskByID) // DELETE /todos/{id}
		})
	})

	return r
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис недоступен", err)
		responseWithError(w, http.StatusServiceUnavailable, codeUnavailable, "Хранилище задач недоступно")
		return
	}

	healthCheck(w)
}

func (s *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	pageRequest, err := parsePageRequest(r.URL.Query(), s.Paging)
	if err != nil {
		logger.Warn("HTTP: Неверные параметры страницы",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	page, err := s.TaskService.ListTasks(r.Context(), pageRequest)
	if err != nil {
		handleError(w, r, err, "list_tasks", http.StatusNotFound)
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(page.Content)),
		zap.Int64("total", page.TotalElements),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromPage(page, pageLinks(r, pageRequest, page)))
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !s.requireJSON(w, r) {
		return
	}

	var request dto.CreateTaskRequest
	if !decodeBody(w, r, &request) {
		return
	}

	if strings.TrimSpace(request.Name) == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "name"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, service.CodeValidation, "название не может быть пустым",
			toPayload("field", "name"))
		return
	}

	created, err := s.TaskService.CreateTask(r.Context(), request.Name, request.DueDate.TimePtr())
	if err != nil {
		handleError(w, r, err, "create_task", http.StatusConflict)
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	writeJSON(w, http.StatusCreated, dto.FromTask(created))
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")

	found, err := s.TaskService.GetTaskByID(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "get_task", http.StatusNotFound)
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", found.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTask(found))
}

func (s *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")

	if !s.requireJSON(w, r) {
		return
	}

	var request dto.UpdateTaskRequest
	if !decodeBody(w, r, &request) {
		return
	}

	if request.Name == nil || strings.TrimSpace(*request.Name) == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "name"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, service.CodeValidation, "название не может быть пустым",
			toPayload("field", "name"))
		return
	}

	if request.Status == nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "status"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, service.CodeValidation, "статус должен быть задан",
			toPayload("field", "status"))
		return
	}

	status, err := task.ParseStatus(*request.Status)
	if err != nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "status"),
			zap.String("error", "wrong_value"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, service.CodeValidation, err.Error(),
			toPayload("field", "status"))
		return
	}

	updated, err := s.TaskService.UpdateTask(r.Context(), id,
		task.WithName(*request.Name),
		task.WithDueDate(request.DueDate.TimePtr()),
		task.WithStatus(status),
	)
	if err != nil {
		handleError(w, r, err, "update_task", http.StatusNotFound)
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", updated.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTask(updated))
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")

	if err := s.TaskService.DeleteTask(r.Context(), id); err != nil {
		handleError(w, r, err, "delete_task", http.StatusBadRequest)
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (s *TaskHandler) requireJSON(w http.ResponseWriter, r *http.Request) bool {
	if checkContentType(r, "application/json") {
		return true
	}

	logger.Warn("HTTP: Неверный тип контента",
		zap.String("expected", "application/json"),
		zap.String("received", r.Header.Get("Content-Type")),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusUnsupportedMediaType, codeUnsupportedMediaType,
		"Content-Type должен быть application/json")
	return false
}

// maxBodyBytes - предел тела запроса для POST и PUT
const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("HTTP: Слишком большое тело запроса",
				zap.Int64("limit", tooLarge.Limit),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge,
				"тело запроса больше допустимого размера")
			return false
		}

		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, codeBadRequest, "неверное тело запроса: "+err.Error())
		return false
	}
	return true
}
