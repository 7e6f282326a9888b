package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound - запрошенная сущность не существует
	ErrNotFound = errors.New("not found")
	// ErrConfigMissing - для учебного года ещё не задана конфигурация дня.
	// Это штатное пустое состояние, а не сбой.
	ErrConfigMissing = errors.New("timetable config missing")
	// ErrConflict - состояние изменилось с момента, когда клиент его прочитал
	ErrConflict = errors.New("conflict")
)

// FieldError - ошибка одного поля запроса
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError - запрос отклонён до записи в БД
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// Add добавляет ошибку поля
func (e *ValidationError) Add(field, msg string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Error: msg})
	return e
}

// HasErrors - есть хотя бы одна ошибка поля
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil возвращает саму ошибку или nil, если полей с ошибками нет
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// FieldMap - ошибки в виде field -> message, при повторе поля остаётся первая
func (e *ValidationError) FieldMap() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, exists := out[f.Field]; !exists {
			out[f.Field] = f.Error
		}
	}
	return out
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "validation failed"
	}
	if len(e.Fields) == 0 {
		return msg
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	sort.Strings(parts)
	return msg + ": " + strings.Join(parts, "; ")
}
