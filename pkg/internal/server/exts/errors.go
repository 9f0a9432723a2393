package exts

import (
	"errors"

	"git.solsynth.dev/hypernet/collab/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler turns every error reaching fiber into a JSON body with a
// status derived from the service error kind.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	body := fiber.Map{"error": err.Error()}

	var validationErr *services.ValidationError
	var fieldErr *services.FieldError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validationErr):
		status = fiber.StatusBadRequest
		body["field"] = validationErr.Field
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrUnauthenticated):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrConfiguration):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, services.ErrUpstream):
		status = fiber.StatusBadGateway
	}

	if errors.As(err, &fieldErr) {
		body["field"] = fieldErr.Field
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Str("path", c.Path()).Msg("An error occurred when handling request...")
	}

	return c.Status(status).JSON(body)
}
