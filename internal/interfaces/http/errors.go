package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-allocator/internal/application/dto"
	"github.com/jhoicas/stock-allocator/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrMalformedRecord):
		status, code = fiber.StatusUnprocessableEntity, "MALFORMED_RECORD"
	case errors.Is(err, domain.ErrNegativeQuantity):
		status, code = fiber.StatusUnprocessableEntity, "NEGATIVE_QUANTITY"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusUnprocessableEntity, "DUPLICATE"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNoAPIKey):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code: "AI_UNAVAILABLE", Message: "el servicio de recomendaciones IA no está configurado",
		})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{
			Code: "TIMEOUT", Message: "el servicio externo tardó demasiado; intenta de nuevo",
		})
	}
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		// El detalle puede incluir rutas o mensajes de la BD.
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
