package rest

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/school_timetable/internal/controller/wizard"
	"github.com/Freeeeeet/school_timetable/internal/service"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// errorHandler переводит ошибки сервисов в HTTP ответы
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			verr  *service.ValidationError
			verrs validator.ValidationErrors
			ferr  *fiber.Error
		)

		switch {
		case errors.As(err, &verrs):
			verr = service.FromValidationErrors(verrs)
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: verr.Message, Fields: verr.FieldMap()})
		case errors.As(err, &verr):
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: verr.Message, Fields: verr.FieldMap()})
		case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrConfigMissing):
			return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: err.Error()})
		case errors.Is(err, wizard.ErrInvalidStep), errors.Is(err, service.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(errorResponse{Error: err.Error()})
		case errors.As(err, &ferr):
			return c.Status(ferr.Code).JSON(errorResponse{Error: ferr.Message})
		}

		logger.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "internal server error"})
	}
}

// requestLogger пишет каждый запрос в zap. Ошибку цепочки сразу отдаёт errorHandler,
// чтобы в лог попал итоговый статус.
func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		logger.Info("HTTP request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("user_id", session(c).UserID.String()))
		return nil
	}
}

func badRequest(field, msg string) error {
	return service.NewValidationError("invalid request").Add(field, msg)
}

// paramUUID читает uuid из пути
func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, badRequest(name, "must be a valid UUID")
	}
	return id, nil
}

// queryUUID читает обязательный uuid из строки запроса
func queryUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return uuid.Nil, badRequest(name, name+" is a required field")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest(name, "must be a valid UUID")
	}
	return id, nil
}

// parseBody разбирает JSON тело и проверяет теги validate
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return service.ValidateStruct(dst)
}
