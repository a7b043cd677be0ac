package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stitchfund/backend/internal/apperr"
	"github.com/stitchfund/backend/internal/http/dto"
)

// respondError maps the error taxonomy onto HTTP status codes. Errors
// without a classification are internal and their detail is not leaked.
func respondError(c *fiber.Ctx, err error) error {
	kind, ok := apperr.KindOf(err)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	var status int
	switch kind {
	case apperr.KindValidation:
		status = fiber.StatusBadRequest
	case apperr.KindNotFound:
		status = fiber.StatusNotFound
	case apperr.KindForbidden:
		status = fiber.StatusForbidden
	case apperr.KindConflict:
		status = fiber.StatusConflict
	case apperr.KindConcurrency:
		status = fiber.StatusServiceUnavailable
	default:
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: err.Error()})
}
