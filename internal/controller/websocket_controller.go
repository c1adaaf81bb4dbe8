package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/grandmaster-backend/internal/chess"
	"github.com/benbeisheim/grandmaster-backend/internal/middleware"
	"github.com/benbeisheim/grandmaster-backend/internal/model"
	"github.com/benbeisheim/grandmaster-backend/internal/service"
	"github.com/benbeisheim/grandmaster-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	// Register this connection with the game
	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnf("game %s: refused connection for player %s: %v", gameID, playerID, err)
		if msg, mErr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()}); mErr == nil {
			c.WriteJSON(msg)
		}
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("game %s: read error for player %s: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(gameID, playerID, fmt.Errorf("parse error: %w", err))
			continue
		}

		reply, err := wsc.handleMessage(gameID, playerID, msg)
		if err != nil {
			wsc.sendError(gameID, playerID, err)
			continue
		}
		if reply != nil {
			if err := wsc.gameService.SendTo(gameID, playerID, *reply); err != nil {
				log.Warnf("game %s: failed to reply to player %s: %v", gameID, playerID, err)
			}
		}
	}
}

// handleMessage applies one incoming message. State changes reach the client
// through the game's broadcast; only queries produce a direct reply.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) (*ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var req model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, fmt.Errorf("invalid move: %w", err)
		}
		return nil, wsc.gameService.HandleMove(gameID, playerID, req.Move())

	case ws.MessageTypeResign:
		return nil, wsc.gameService.Surrender(gameID, playerID)

	case ws.MessageTypeReset:
		return nil, wsc.gameService.Reset(gameID, playerID)

	case ws.MessageTypeLegalMoves:
		var req ws.LegalMovesRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, fmt.Errorf("invalid legal moves request: %w", err)
		}
		from, err := chess.ParseSquare(req.From)
		if err != nil {
			return nil, err
		}
		targets, err := wsc.gameService.LegalMoves(gameID, playerID, from)
		if err != nil {
			return nil, err
		}
		payload := ws.LegalMovesPayload{From: from.Square(), Moves: make([]string, 0, len(targets))}
		for _, t := range targets {
			payload.Moves = append(payload.Moves, t.Square())
		}
		reply, err := ws.NewMessage(ws.MessageTypeLegalMoves, payload)
		if err != nil {
			return nil, err
		}
		return &reply, nil

	default:
		return nil, fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(gameID, playerID string, err error) {
	msg, mErr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if mErr != nil {
		return
	}
	if sErr := wsc.gameService.SendTo(gameID, playerID, msg); sErr != nil {
		log.Warnf("game %s: failed to send error to player %s: %v", gameID, playerID, sErr)
	}
}
