// service/game_manager.go
package service

import (
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/grandmaster-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var ErrGameNotFound = errors.New("game not found")

// GameManager is the registry of live games.
type GameManager struct {
	games       map[string]*model.Game
	timeControl time.Duration
	mu          sync.RWMutex
}

func NewGameManager(timeControl time.Duration) *GameManager {
	return &GameManager{
		games:       make(map[string]*model.Game),
		timeControl: timeControl,
	}
}

// CreateGame starts a game for ownerID under a fresh id. Settings without a
// time control get the manager's default.
func (gm *GameManager) CreateGame(ownerID string, settings model.GameSettings) (*model.Game, error) {
	timeControl, err := settings.TimeControl(gm.timeControl)
	if err != nil {
		return nil, err
	}

	gameID := uuid.New().String()
	game := model.NewGame(gameID, ownerID, timeControl)

	gm.mu.Lock()
	gm.games[gameID] = game
	gm.mu.Unlock()

	log.Infof("created game %s for player %s with time control %v", gameID, ownerID, timeControl)
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) RemoveGame(gameID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	delete(gm.games, gameID)
}

func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	return len(gm.games)
}
