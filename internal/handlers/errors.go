package handlers

import (
	"errors"
	"net/http"
	"todoTracker/internal/logger"
	"todoTracker/internal/service"

	"go.uber.org/zap"
)

// handleError пишет ответ для ошибки сервиса. fallback - статус операции
// для STORAGE_ERROR и неизвестных бизнес-кодов.
func handleError(w http.ResponseWriter, r *http.Request, err error, operation string, fallback int) {
	if handleBusinessError(w, err, operation, fallback) {
		return
	}

	logger.Error("HTTP: Ошибка Service", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusInternalServerError, codeInternal, "Внутренняя ошибка сервера")
}

func handleBusinessError(w http.ResponseWriter, err error, operation string, fallback int) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code, fallback)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("operation", operation),
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	details := businessErr.Details
	if details == nil {
		details = map[string]any{}
	}
	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", details),
	)
	return true
}

func mapBusinessErrorToHTTP(code string, fallback int) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeCreateFailed:
		return http.StatusConflict
	case service.CodeDeleteFailed:
		return http.StatusBadRequest
	default:
		return fallback
	}
}
