package controller

import (
	"errors"

	"github.com/benbeisheim/chess-rules/internal/engine"
	"github.com/benbeisheim/chess-rules/internal/model"
	"github.com/benbeisheim/chess-rules/internal/service"
	"github.com/gofiber/fiber/v2"
)

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotInGame), errors.Is(err, model.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrGameExists),
		errors.Is(err, model.ErrAlreadyQueued),
		errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrAwaitingPromotion),
		errors.Is(err, model.ErrNoPendingPromotion):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, engine.ErrNoPieceAtSource),
		errors.Is(err, engine.ErrWrongTurn),
		errors.Is(err, engine.ErrInvalidPromotion):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrInvalidSquare):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal error"
	}
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}
