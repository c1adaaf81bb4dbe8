package service

import (
	"sync"
	"testing"
	"time"

	"github.com/benbeisheim/grandmaster-backend/internal/ai"
	"github.com/benbeisheim/grandmaster-backend/internal/chess"
	"github.com/benbeisheim/grandmaster-backend/internal/model"
	"github.com/benbeisheim/grandmaster-backend/internal/storage"
	"github.com/benbeisheim/grandmaster-backend/internal/testutil"
)

const player = "player-1"

func newTestService(t *testing.T) (*GameService, *storage.Storage) {
	t.Helper()
	store, err := storage.OpenInMemory(storage.DefaultHistoryLimit)
	testutil.AssertNoError(t, err)
	gs := NewGameService(NewGameManager(10*time.Minute), store, 0)
	t.Cleanup(func() {
		gs.Close()
		store.Close()
	})
	return gs, store
}

func sq(t *testing.T, name string) chess.Position {
	t.Helper()
	pos, err := chess.ParseSquare(name)
	testutil.AssertNoError(t, err)
	return pos
}

func TestGameManager(t *testing.T) {
	gm := NewGameManager(time.Minute)
	game, err := gm.CreateGame(player, model.GameSettings{})
	testutil.AssertNoError(t, err)

	got, err := gm.GetGame(game.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, got == game)
	testutil.AssertEqual(t, got.OwnerID(), player)
	testutil.AssertEqual(t, gm.Count(), 1)

	gm.RemoveGame(game.ID)
	_, err = gm.GetGame(game.ID)
	testutil.AssertErrorIs(t, err, ErrGameNotFound)

	other, err := gm.CreateGame(player, model.GameSettings{})
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, other.ID != game.ID, "game ids must be unique")
}

func seconds(n int) *int { return &n }

func TestCreateGameTimeControl(t *testing.T) {
	gm := NewGameManager(10 * time.Minute)

	tests := []struct {
		name      string
		settings  model.GameSettings
		wantLeft  int
		wantError bool
	}{
		{"default", model.GameSettings{}, 6000, false},
		{"custom", model.GameSettings{TimeControlSeconds: seconds(300)}, 3000, false},
		{"untimed", model.GameSettings{TimeControlSeconds: seconds(0)}, 0, false},
		{"negative", model.GameSettings{TimeControlSeconds: seconds(-60)}, 0, true},
		{"too long", model.GameSettings{TimeControlSeconds: seconds(25 * 3600)}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, err := gm.CreateGame(player, tt.settings)
			if tt.wantError {
				testutil.AssertErrorIs(t, err, model.ErrInvalidSettings)
				return
			}
			testutil.AssertNoError(t, err)
			// black's clock does not run on white's turn
			testutil.AssertEqual(t, game.GetState().Players.Black.TimeLeft, tt.wantLeft)
		})
	}
}

func TestCreateGameNeedsPlayer(t *testing.T) {
	gs, _ := newTestService(t)
	_, err := gs.CreateGame("", model.GameSettings{})
	testutil.AssertErrorIs(t, err, model.ErrNotAuthorized)

	_, err = gs.CreateGame(player, model.GameSettings{TimeControlSeconds: seconds(-1)})
	testutil.AssertErrorIs(t, err, model.ErrInvalidSettings)
}

func TestUnknownGame(t *testing.T) {
	gs, _ := newTestService(t)

	_, err := gs.GetGameState("missing")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
	testutil.AssertErrorIs(t, gs.HandleMove("missing", player, chess.Move{}), ErrGameNotFound)
	testutil.AssertErrorIs(t, gs.Surrender("missing", player), ErrGameNotFound)
	testutil.AssertErrorIs(t, gs.Reset("missing", player), ErrGameNotFound)
	_, err = gs.LegalMoves("missing", player, chess.Position{})
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
}

func TestComputerRepliesToMove(t *testing.T) {
	gs, _ := newTestService(t)
	gameID, err := gs.CreateGame(player, model.GameSettings{})
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, gs.HandleMove(gameID, player, chess.Move{From: sq(t, "e2"), To: sq(t, "e4")}))
	gs.Wait()

	state, err := gs.GetGameState(gameID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, state.CurrentPlayer, chess.White)
	testutil.AssertEqual(t, len(state.MoveHistory), 2)
	testutil.AssertFalse(t, state.Thinking)
	testutil.AssertEqual(t, state.Status, model.StatusPlaying)
}

func TestHandleMoveRejectsIllegal(t *testing.T) {
	gs, _ := newTestService(t)
	gameID, _ := gs.CreateGame(player, model.GameSettings{})

	err := gs.HandleMove(gameID, player, chess.Move{From: sq(t, "e2"), To: sq(t, "e5")})
	testutil.AssertErrorIs(t, err, model.ErrIllegalMove)
	err = gs.HandleMove(gameID, "intruder", chess.Move{From: sq(t, "e2"), To: sq(t, "e4")})
	testutil.AssertErrorIs(t, err, model.ErrNotAuthorized)
	gs.Wait()

	state, _ := gs.GetGameState(gameID)
	testutil.AssertEqual(t, len(state.MoveHistory), 0, "computer moved after a rejected move")
}

func TestStaleComputerMoveIsDropped(t *testing.T) {
	gs, _ := newTestService(t)
	gameID, _ := gs.CreateGame(player, model.GameSettings{})

	searching := make(chan struct{})
	release := make(chan struct{})
	gs.selectMove = func(b *chess.Board) (chess.Move, ai.Result, bool) {
		close(searching)
		<-release
		return ai.SelectComputerMove(b)
	}

	testutil.AssertNoError(t, gs.HandleMove(gameID, player, chess.Move{From: sq(t, "e2"), To: sq(t, "e4")}))
	<-searching
	testutil.AssertNoError(t, gs.Reset(gameID, player))
	close(release)
	gs.Wait()

	state, _ := gs.GetGameState(gameID)
	testutil.AssertEqual(t, state.Board, chess.NewBoard(), "move from before the reset was applied")
	testutil.AssertEqual(t, state.CurrentPlayer, chess.White)
	testutil.AssertFalse(t, state.Thinking)
}

func TestSurrenderRecordsHistoryOnce(t *testing.T) {
	gs, _ := newTestService(t)
	gameID, _ := gs.CreateGame(player, model.GameSettings{})

	testutil.AssertNoError(t, gs.Surrender(gameID, player))
	testutil.AssertErrorIs(t, gs.Surrender(gameID, player), model.ErrGameOver)

	history, err := gs.History(player)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(history), 1)
	testutil.AssertEqual(t, history[0].Winner, model.ComputerName)
	testutil.AssertEqual(t, history[0].Method, model.MethodSurrender)
	testutil.AssertEqual(t, history[0].GameID, gameID)

	stats, err := gs.Stats(player)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, stats.Losses, 1)
	testutil.AssertEqual(t, stats.GamesPlayed, 1)
}

func TestResetAllowsASecondRecordedGame(t *testing.T) {
	gs, _ := newTestService(t)
	gameID, _ := gs.CreateGame(player, model.GameSettings{})

	testutil.AssertNoError(t, gs.Surrender(gameID, player))
	testutil.AssertNoError(t, gs.Reset(gameID, player))
	testutil.AssertNoError(t, gs.Surrender(gameID, player))

	history, _ := gs.History(player)
	testutil.AssertEqual(t, len(history), 2)
}

func TestLegalMoves(t *testing.T) {
	gs, _ := newTestService(t)
	gameID, _ := gs.CreateGame(player, model.GameSettings{})

	moves, err := gs.LegalMoves(gameID, player, sq(t, "e2"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, moves, []chess.Position{sq(t, "e4"), sq(t, "e3")})

	_, err = gs.LegalMoves(gameID, "intruder", sq(t, "e2"))
	testutil.AssertErrorIs(t, err, model.ErrNotAuthorized)
}

func TestCloseAbandonsDelayedTurn(t *testing.T) {
	store, err := storage.OpenInMemory(storage.DefaultHistoryLimit)
	testutil.AssertNoError(t, err)
	defer store.Close()

	gs := NewGameService(NewGameManager(10*time.Minute), store, time.Hour)
	gameID, _ := gs.CreateGame(player, model.GameSettings{})
	testutil.AssertNoError(t, gs.HandleMove(gameID, player, chess.Move{From: sq(t, "e2"), To: sq(t, "e4")}))

	done := make(chan struct{})
	go func() {
		gs.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}

	state, _ := gs.GetGameState(gameID)
	testutil.AssertEqual(t, state.CurrentPlayer, chess.Black)
	testutil.AssertFalse(t, state.Thinking)
}

type memoryHistory struct {
	mu      sync.Mutex
	records []model.GameSummary
}

func (m *memoryHistory) Record(userID string, s model.GameSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, s)
	return nil
}

func (m *memoryHistory) List(userID string) ([]model.GameSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.GameSummary(nil), m.records...), nil
}

func (m *memoryHistory) Stats(userID string) (*storage.UserStats, error) {
	return storage.NewUserStats(), nil
}

func TestComputerMateIsRecorded(t *testing.T) {
	history := &memoryHistory{}
	gs := NewGameService(NewGameManager(10*time.Minute), history, 0)
	defer gs.Close()
	gameID, _ := gs.CreateGame(player, model.GameSettings{})

	// fool's mate, with the computer's replies scripted
	replies := []chess.Move{
		{From: sq(t, "e7"), To: sq(t, "e5")},
		{From: sq(t, "d8"), To: sq(t, "h4")},
	}
	var mu sync.Mutex
	gs.selectMove = func(b *chess.Board) (chess.Move, ai.Result, bool) {
		mu.Lock()
		defer mu.Unlock()
		m := replies[0]
		replies = replies[1:]
		return m, ai.Result{}, true
	}

	testutil.AssertNoError(t, gs.HandleMove(gameID, player, chess.Move{From: sq(t, "f2"), To: sq(t, "f3")}))
	gs.Wait()
	testutil.AssertNoError(t, gs.HandleMove(gameID, player, chess.Move{From: sq(t, "g2"), To: sq(t, "g4")}))
	gs.Wait()

	state, _ := gs.GetGameState(gameID)
	testutil.AssertEqual(t, state.Status, model.StatusCheckmate)
	testutil.AssertEqual(t, *state.Result, model.Result{Winner: model.ComputerName, Method: model.MethodCheckmate})

	records, _ := history.List(player)
	testutil.AssertEqual(t, len(records), 1)
	testutil.AssertEqual(t, records[0].TotalMoves, 4)
	testutil.AssertEqual(t, records[0].Outcome(), model.OutcomeLoss)
}
