package controller

import (
	"errors"

	"github.com/benbeisheim/grandmaster-backend/internal/chess"
	"github.com/benbeisheim/grandmaster-backend/internal/middleware"
	"github.com/benbeisheim/grandmaster-backend/internal/model"
	"github.com/benbeisheim/grandmaster-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// statusFor maps service and rule errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrOutOfBounds),
		errors.Is(err, model.ErrNoPiece),
		errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrTimeExpired),
		errors.Is(err, model.ErrInvalidSettings):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	// The body is optional, an empty one keeps the default settings.
	var settings model.GameSettings
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&settings); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid game settings: " + err.Error(),
			})
		}
	}

	gameID, err := gc.gameService.CreateGame(middleware.PlayerID(c), settings)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req model.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body: " + err.Error(),
		})
	}

	gameID := c.Params("gameId")
	if err := gc.gameService.HandleMove(gameID, middleware.PlayerID(c), req.Move()); err != nil {
		return sendError(c, err)
	}

	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	from, err := chess.ParseSquare(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	targets, err := gc.gameService.LegalMoves(c.Params("gameId"), middleware.PlayerID(c), from)
	if err != nil {
		return sendError(c, err)
	}
	squares := make([]string, 0, len(targets))
	for _, t := range targets {
		squares = append(squares, t.Square())
	}
	return c.JSON(fiber.Map{
		"from":  from.Square(),
		"moves": squares,
	})
}

func (gc *GameController) Surrender(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if err := gc.gameService.Surrender(gameID, middleware.PlayerID(c)); err != nil {
		return sendError(c, err)
	}
	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if err := gc.gameService.Reset(gameID, middleware.PlayerID(c)); err != nil {
		return sendError(c, err)
	}
	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) History(c *fiber.Ctx) error {
	history, err := gc.gameService.History(middleware.PlayerID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(history)
}

func (gc *GameController) Stats(c *fiber.Ctx) error {
	stats, err := gc.gameService.Stats(middleware.PlayerID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"stats":   stats,
		"winRate": stats.WinRate(),
	})
}
