package handlers

import (
	"encoding/json"
	"net/http"
	"todoTracker/internal/logger"
)

const (
	codeBadRequest           = "BAD_REQUEST"
	codeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	codeInternal             = "INTERNAL_ERROR"
	codeUnavailable          = "SERVICE_UNAVAILABLE"
	codePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func toJSON(storage map[string]any, payload Payload) {
	storage[payload.Key] = payload.Payload
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("HTTP: Не удалось записать ответ", err)
	}
}

func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	storage := make(map[string]any)
	for _, pl := range payload {
		toJSON(storage, pl)
	}
	writeJSON(w, code, storage)
}

func responseWithError(w http.ResponseWriter, code int, errorCode, message string, details ...Payload) {
	detailsMap := make(map[string]any)
	for _, detail := range details {
		toJSON(detailsMap, detail)
	}
	responseWithJSON(w, code,
		toPayload("error", errorCode),
		toPayload("message", message),
		toPayload("details", detailsMap),
	)
}

func healthCheck(w http.ResponseWriter) {
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}
