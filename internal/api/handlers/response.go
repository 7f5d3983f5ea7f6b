package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Категории ошибок API
// Клиенты различают ошибки по полю kind, не по тексту сообщения
const (
	KindInvalidRequest     = "INVALID_REQUEST"
	KindUnknownService     = "UNKNOWN_SERVICE"
	KindStylistUnavailable = "STYLIST_UNAVAILABLE"
	KindSlotConflict       = "SLOT_CONFLICT"
	KindNotFound           = "NOT_FOUND"
	KindInvalidState       = "INVALID_STATE"
	KindForbidden          = "FORBIDDEN"
	KindUnauthorized       = "UNAUTHORIZED"
	KindInternal           = "INTERNAL"
)

// ErrorResponse стандартное тело ошибки API
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// DecodeJSON декодирует тело запроса в модель
// Неизвестные поля считаются ошибкой клиента
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// RespondJSON отправляет JSON-ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError отправляет ошибку с указанным статусом и категорией
func RespondError(w http.ResponseWriter, status int, kind, message string) {
	RespondJSON(w, status, ErrorResponse{Kind: kind, Message: message})
}

// RespondBadRequest отправляет 400 Bad Request
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, KindInvalidRequest, message)
}

// RespondNotFound отправляет 404 Not Found
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, KindNotFound, message)
}

// RespondConflict отправляет 409 Conflict с категорией занятого слота
func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, KindSlotConflict, message)
}

// RespondInvalidState отправляет 409 Conflict для недопустимого перехода статуса
func RespondInvalidState(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, KindInvalidState, message)
}

// RespondForbidden отправляет 403 Forbidden
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, KindForbidden, message)
}

// RespondUnauthorized отправляет 401 Unauthorized
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, KindUnauthorized, message)
}

// RespondInternalError отправляет 500 Internal Server Error
// Детали внутренней ошибки клиенту не раскрываются
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, KindInternal, "внутренняя ошибка сервиса")
}
