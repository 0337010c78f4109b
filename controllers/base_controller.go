package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"staff-tools-backend/lib/utils/apperrors"
	apimodels "staff-tools-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("request body parsing failed")
		return errors.New("malformed request body")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("id is required")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// kindStatusMap maps the engine failure taxonomy to HTTP statuses. Only
// PERSISTENCE_ERROR surfaces as a 500 and is safe to retry.
var kindStatusMap = map[apperrors.Kind]int{
	apperrors.KindForbidden:         fiber.StatusForbidden,
	apperrors.KindInvalidTransition: fiber.StatusConflict,
	apperrors.KindEditingNotAllowed: fiber.StatusConflict,
	apperrors.KindValidation:        fiber.StatusBadRequest,
	apperrors.KindNotFound:          fiber.StatusNotFound,
	apperrors.KindPersistence:       fiber.StatusInternalServerError,
}

func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, message string) error {
	kind := apperrors.KindOf(err)
	status, known := kindStatusMap[kind]
	if !known {
		status = fiber.StatusInternalServerError
	}
	if status == fiber.StatusInternalServerError {
		logger.WithError(err).Error(message)
		return ctx.Status(status).JSON(apimodels.NewError(message))
	}
	logger.WithError(err).Info(message)
	return ctx.Status(status).JSON(apimodels.NewError(err.Error()))
}
