package controller

import (
	"github.com/benbeisheim/chess-rules/internal/engine"
	"github.com/benbeisheim/chess-rules/internal/middleware"
	"github.com/benbeisheim/chess-rules/internal/model"
	"github.com/benbeisheim/chess-rules/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		log.Errorf("create game: %v", err)
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	color, err := gc.gameService.JoinGame(gameID, middleware.PlayerID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

// LegalMoves selects the square given as ?square=e2 and returns where the
// piece on it may move.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	sq, err := engine.ParseSquare(c.Query("square"))
	if err != nil {
		return sendError(c, err)
	}
	moves, err := gc.gameService.SelectSquare(c.Params("gameId"), middleware.PlayerID(c), sq)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"square":     sq,
		"legalMoves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}
	gameID := c.Params("gameId")
	if err := gc.gameService.HandleMove(gameID, middleware.PlayerID(c), move); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req model.PromotionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid promotion body",
		})
	}
	gameID := c.Params("gameId")
	if err := gc.gameService.HandlePromotion(gameID, middleware.PlayerID(c), req.Piece); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if err := gc.gameService.Resign(gameID, middleware.PlayerID(c)); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}
