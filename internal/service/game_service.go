package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/grandmaster-backend/internal/ai"
	"github.com/benbeisheim/grandmaster-backend/internal/chess"
	"github.com/benbeisheim/grandmaster-backend/internal/model"
	"github.com/benbeisheim/grandmaster-backend/internal/storage"
	"github.com/benbeisheim/grandmaster-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

// HistoryStore keeps the summaries of finished games per user.
type HistoryStore interface {
	Record(userID string, summary model.GameSummary) error
	List(userID string) ([]model.GameSummary, error)
	Stats(userID string) (*storage.UserStats, error)
}

type GameService struct {
	gameManager   *GameManager
	history       HistoryStore
	computerDelay time.Duration
	selectMove    func(b *chess.Board) (chess.Move, ai.Result, bool)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewGameService(gameManager *GameManager, history HistoryStore, computerDelay time.Duration) *GameService {
	ctx, cancel := context.WithCancel(context.Background())
	return &GameService{
		gameManager:   gameManager,
		history:       history,
		computerDelay: computerDelay,
		selectMove:    ai.SelectComputerMove,
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (gs *GameService) CreateGame(playerID string, settings model.GameSettings) (string, error) {
	if playerID == "" {
		return "", fmt.Errorf("failed to create game: %w", model.ErrNotAuthorized)
	}
	game, err := gs.gameManager.CreateGame(playerID, settings)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return game.ID, nil
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

// HandleMove plays the player's move and hands the turn to the computer.
func (gs *GameService) HandleMove(gameID string, playerID string, move chess.Move) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}

	err = game.MakeMove(playerID, move)
	// a flag fall ends the game even though the move is rejected
	gs.recordIfFinished(game)
	if err != nil {
		return err
	}

	gs.scheduleComputerTurn(game)
	return nil
}

func (gs *GameService) LegalMoves(gameID string, playerID string, from chess.Position) ([]chess.Position, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsPlayerInGame(playerID) {
		return nil, model.ErrNotAuthorized
	}
	return game.LegalMovesFrom(from), nil
}

func (gs *GameService) Surrender(gameID string, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.Surrender(playerID); err != nil {
		return err
	}
	gs.recordIfFinished(game)
	return nil
}

func (gs *GameService) Reset(gameID string, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Reset(playerID)
}

func (gs *GameService) History(playerID string) ([]model.GameSummary, error) {
	if gs.history == nil {
		return []model.GameSummary{}, nil
	}
	return gs.history.List(playerID)
}

func (gs *GameService) Stats(playerID string) (*storage.UserStats, error) {
	if gs.history == nil {
		return storage.NewUserStats(), nil
	}
	return gs.history.Stats(playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

// SendTo writes a message to one player's socket in a game.
func (gs *GameService) SendTo(gameID string, playerID string, msg ws.Message) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(playerID, msg)
}

// Wait blocks until every scheduled computer turn has finished.
func (gs *GameService) Wait() {
	gs.wg.Wait()
}

// Close abandons pending computer turns and waits for them to return.
func (gs *GameService) Close() {
	gs.cancel()
	gs.wg.Wait()
}

func (gs *GameService) scheduleComputerTurn(game *model.Game) {
	gs.wg.Add(1)
	go func() {
		defer gs.wg.Done()
		gs.playComputerTurn(game)
	}()
}

func (gs *GameService) playComputerTurn(game *model.Game) {
	if _, _, toMove := game.Snapshot(); !toMove {
		return
	}
	game.SetThinking(true)

	if gs.computerDelay > 0 {
		timer := time.NewTimer(gs.computerDelay)
		select {
		case <-gs.ctx.Done():
			timer.Stop()
			game.SetThinking(false)
			return
		case <-timer.C:
		}
	}

	board, version, toMove := game.Snapshot()
	if !toMove {
		game.SetThinking(false)
		return
	}

	start := time.Now()
	move, result, ok := gs.selectMove(&board)
	if !ok {
		game.SetThinking(false)
		return
	}
	log.Debugf("game %s: computer chose %s (score %d, %d nodes) in %v",
		game.ID, move, result.Score, result.Nodes, time.Since(start))

	if err := game.ApplyComputerMove(version, move); err != nil {
		if errors.Is(err, model.ErrStaleMove) {
			log.Debugf("game %s: dropped computer move %s, position changed", game.ID, move)
		} else {
			log.Warnf("game %s: computer move %s rejected: %v", game.ID, move, err)
		}
		game.SetThinking(false)
	}
	gs.recordIfFinished(game)
}

// recordIfFinished stores the game's summary the first time it is seen finished.
func (gs *GameService) recordIfFinished(game *model.Game) {
	summary, ok := game.Summary()
	if !ok || gs.history == nil {
		return
	}
	if err := gs.history.Record(summary.UserID, summary); err != nil {
		log.Errorf("game %s: failed to record history: %v", game.ID, err)
		return
	}
	log.Infof("game %s: recorded %s by %s for player %s", game.ID, summary.Winner, summary.Method, summary.UserID)
}
