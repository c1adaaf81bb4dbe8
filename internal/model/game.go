package model

import (
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/grandmaster-backend/internal/chess"
	"github.com/benbeisheim/grandmaster-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type Status string

const (
	StatusPlaying   Status = "playing"
	StatusCheck     Status = "check"
	StatusCheckmate Status = "checkmate"
	StatusDraw      Status = "draw"
)

const (
	MethodCheckmate = "Checkmate"
	MethodSurrender = "Surrender"
	MethodTimeout   = "Timeout"
	MethodStalemate = "Stalemate"

	DrawWinner = "Draw"
)

type Result struct {
	Winner string `json:"winner"`
	Method string `json:"method"`
}

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// The Game struct focuses on a single game's state and its observers
type Game struct {
	ID          string
	ownerID     string
	mu          sync.Mutex
	state       GameState
	version     uint64
	finishedAt  time.Time
	summarized  bool
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
	now         func() time.Time
}

type GameState struct {
	Sound          string         `json:"sound"`
	Board          chess.Board    `json:"board"`
	CurrentPlayer  chess.Color    `json:"currentPlayer"`
	Status         Status         `json:"status"`
	KingInCheck    *KingInCheck   `json:"kingInCheck"`
	MoveHistory    []string       `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	Result         *Result        `json:"result"`
	Players        Players        `json:"players"`
	LastMove       *chess.Move    `json:"lastMove"`
	Thinking       bool           `json:"thinking"`
	StartedAt      time.Time      `json:"startedAt"`
}

func NewGame(id, ownerID string, timeControl time.Duration) *Game {
	g := &Game{
		ID:          id,
		ownerID:     ownerID,
		connections: NewGameConnections(),
		whiteClock:  NewClock(timeControl),
		blackClock:  NewClock(timeControl),
		now:         time.Now,
	}
	g.state = newGameState(ownerID, g.now())
	g.whiteClock.Start()
	return g
}

func newGameState(ownerID string, startedAt time.Time) GameState {
	return GameState{
		Board:          chess.NewBoard(),
		CurrentPlayer:  chess.White,
		Status:         StatusPlaying,
		MoveHistory:    make([]string, 0),
		CapturedPieces: newCapturedPieces(),
		Players:        newPlayers(ownerID),
		StartedAt:      startedAt,
	}
}

func (g *Game) OwnerID() string {
	return g.ownerID
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.clientState()
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	return playerID != "" && playerID == g.ownerID
}

// MakeMove plays the human side's move.
func (g *Game) MakeMove(playerID string, move chess.Move) error {
	g.mu.Lock()
	err := g.makeMove(playerID, move)
	if err != nil && !errors.Is(err, ErrTimeExpired) {
		g.mu.Unlock()
		return err
	}
	g.publishLocked()
	return err
}

func (g *Game) makeMove(playerID string, move chess.Move) error {
	if !g.IsPlayerInGame(playerID) {
		return ErrNotAuthorized
	}
	if g.finished() {
		return ErrGameOver
	}
	if g.state.CurrentPlayer != HumanColor {
		return ErrNotYourTurn
	}
	// An expired clock ends the game whatever the move looks like.
	if g.whiteClock.Expired() {
		g.finish(ComputerName, MethodTimeout)
		return ErrTimeExpired
	}
	if !move.From.InBounds() || !move.To.InBounds() {
		return ErrOutOfBounds
	}
	piece := g.state.Board.At(move.From)
	if piece.IsEmpty() {
		return ErrNoPiece
	}
	if piece.Color != g.state.CurrentPlayer {
		return ErrNotYourTurn
	}
	if !g.state.Board.IsLegalMove(move.From, move.To) {
		return ErrIllegalMove
	}

	g.executeMove(move)
	return nil
}

// Snapshot returns the board, its version and whether the computer is to move.
// The board is a copy and can be searched without holding the game lock.
func (g *Game) Snapshot() (chess.Board, uint64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	computerToMove := !g.finished() && g.state.CurrentPlayer == ComputerColor
	return g.state.Board, g.version, computerToMove
}

// ApplyComputerMove plays a move searched on the position with the given
// version. ErrStaleMove is returned if the game changed since the snapshot.
func (g *Game) ApplyComputerMove(version uint64, move chess.Move) error {
	g.mu.Lock()
	err := g.applyComputerMove(version, move)
	if err != nil && !errors.Is(err, ErrTimeExpired) {
		g.mu.Unlock()
		return err
	}
	g.publishLocked()
	return err
}

func (g *Game) applyComputerMove(version uint64, move chess.Move) error {
	if version != g.version {
		return ErrStaleMove
	}
	if g.finished() {
		return ErrGameOver
	}
	if g.state.CurrentPlayer != ComputerColor {
		return ErrNotYourTurn
	}
	if g.blackClock.Expired() {
		g.state.Thinking = false
		g.finish(HumanName, MethodTimeout)
		return ErrTimeExpired
	}
	if !g.state.Board.IsLegalMove(move.From, move.To) {
		return ErrIllegalMove
	}

	g.state.Thinking = false
	g.executeMove(move)
	return nil
}

func (g *Game) executeMove(move chess.Move) {
	mover := g.state.CurrentPlayer
	piece := g.state.Board.At(move.From)
	notation := chess.Notation(piece, move)

	next, captured := g.state.Board.ApplyMove(move.From, move.To)
	g.state.Board = next
	if captured.IsEmpty() {
		g.state.Sound = "move"
	} else {
		g.state.CapturedPieces.add(mover, captured)
		g.state.Sound = "capture"
	}
	g.state.MoveHistory = append(g.state.MoveHistory, notation)
	g.state.LastMove = &move

	g.clockFor(mover).Stop()
	g.state.CurrentPlayer = mover.Opponent()
	g.updateStatus(mover)
	if !g.finished() {
		g.clockFor(g.state.CurrentPlayer).Start()
	}
	g.version++

	log.Debugf("game %s: %s played %s, status %s", g.ID, mover, notation, g.state.Status)
}

// updateStatus sets the status after mover's move from the opponent's point of view.
func (g *Game) updateStatus(mover chess.Color) {
	opponent := mover.Opponent()
	board := &g.state.Board

	if board.IsKingInCheck(opponent) {
		pos, _ := board.FindKing(opponent)
		g.state.KingInCheck = &KingInCheck{Color: opponent, Position: pos}
		if board.IsCheckmate(opponent) {
			g.state.Sound = "checkmate"
			g.finish(playerName(mover), MethodCheckmate)
			return
		}
		g.state.Status = StatusCheck
		g.state.Sound = "check"
		return
	}

	g.state.KingInCheck = nil
	if !board.HasLegalMoves(opponent) {
		g.finish(DrawWinner, MethodStalemate)
		return
	}
	g.state.Status = StatusPlaying
}

// finish ends the game. Every result except a stalemate is reported as checkmate
// status, surrender and timeout included.
func (g *Game) finish(winner, method string) {
	if method == MethodStalemate {
		g.state.Status = StatusDraw
	} else {
		g.state.Status = StatusCheckmate
	}
	g.state.Result = &Result{Winner: winner, Method: method}
	g.whiteClock.Stop()
	g.blackClock.Stop()
	g.finishedAt = g.now()
}

func (g *Game) finished() bool {
	return g.state.Status == StatusCheckmate || g.state.Status == StatusDraw
}

func (g *Game) clockFor(c chess.Color) *Clock {
	if c == chess.White {
		return g.whiteClock
	}
	return g.blackClock
}

// SetThinking flags that the computer is searching.
func (g *Game) SetThinking(thinking bool) {
	g.mu.Lock()
	if g.state.Thinking == thinking {
		g.mu.Unlock()
		return
	}
	g.state.Thinking = thinking
	g.publishLocked()
}

func (g *Game) Surrender(playerID string) error {
	g.mu.Lock()
	if !g.IsPlayerInGame(playerID) {
		g.mu.Unlock()
		return ErrNotAuthorized
	}
	if g.finished() {
		g.mu.Unlock()
		return ErrGameOver
	}
	g.state.Thinking = false
	g.finish(ComputerName, MethodSurrender)
	g.version++
	log.Infof("game %s: player %s surrendered", g.ID, playerID)
	g.publishLocked()
	return nil
}

// Reset starts the game over on a fresh board.
func (g *Game) Reset(playerID string) error {
	g.mu.Lock()
	if !g.IsPlayerInGame(playerID) {
		g.mu.Unlock()
		return ErrNotAuthorized
	}
	g.state = newGameState(g.ownerID, g.now())
	g.whiteClock.Reset()
	g.blackClock.Reset()
	g.whiteClock.Start()
	g.finishedAt = time.Time{}
	g.summarized = false
	g.version++
	log.Infof("game %s: reset by %s", g.ID, playerID)
	g.publishLocked()
	return nil
}

// LegalMovesFrom returns the destinations of the piece on from if it belongs
// to the side to move.
func (g *Game) LegalMovesFrom(from chess.Position) []chess.Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	targets := make([]chess.Position, 0)
	if g.finished() {
		return targets
	}
	piece := g.state.Board.At(from)
	if piece.IsEmpty() || piece.Color != g.state.CurrentPlayer {
		return targets
	}
	for _, m := range g.state.Board.LegalMovesFrom(from) {
		targets = append(targets, m.To)
	}
	return targets
}

// Summary returns the record of a finished game. It reports true only once per
// finished game so the record is stored a single time.
func (g *Game) Summary() (GameSummary, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.finished() || g.summarized {
		return GameSummary{}, false
	}
	g.summarized = true

	state := g.clientState()
	return GameSummary{
		ID:                  uuid.NewString(),
		GameID:              g.ID,
		UserID:              g.ownerID,
		Date:                g.finishedAt,
		Winner:              state.Result.Winner,
		Method:              state.Result.Method,
		TotalMoves:          len(state.MoveHistory),
		GameDurationMinutes: int(g.finishedAt.Sub(state.StartedAt).Minutes()),
		MoveHistory:         state.MoveHistory,
		FinalPosition:       state.Board,
		FinalFEN:            state.Board.FEN(),
		CapturedPieces:      state.CapturedPieces,
	}, true
}

// clientState copies the state for use outside the lock.
func (g *Game) clientState() GameState {
	s := g.state
	s.MoveHistory = append(make([]string, 0, len(g.state.MoveHistory)), g.state.MoveHistory...)
	s.CapturedPieces = g.state.CapturedPieces.clone()
	if g.state.KingInCheck != nil {
		k := *g.state.KingInCheck
		s.KingInCheck = &k
	}
	if g.state.Result != nil {
		r := *g.state.Result
		s.Result = &r
	}
	if g.state.LastMove != nil {
		m := *g.state.LastMove
		s.LastMove = &m
	}
	s.Players.White.TimeLeft = g.whiteClock.deciseconds()
	s.Players.Black.TimeLeft = g.blackClock.deciseconds()
	return s
}

func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	if !g.IsPlayerInGame(playerID) {
		g.mu.Unlock()
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if old, exists := g.connections.connections[playerID]; exists && old != conn {
		// A reconnect from the same player replaces the previous socket.
		old.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by a new connection"),
		)
		old.Close()
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infof("game %s: registered connection for player %s", g.ID, playerID)

	// Send initial state
	g.publishLocked()
	return nil
}

// UnregisterConnection drops conn if it is still the player's current connection.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		log.Infof("game %s: unregistering connection for player %s", g.ID, playerID)
		delete(g.connections.connections, playerID)
	}
}

// Send writes msg to the player's connection, if any.
func (g *Game) Send(playerID string, msg ws.Message) error {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	conn, ok := g.connections.connections[playerID]
	if !ok {
		return nil
	}
	return conn.WriteJSON(msg)
}

// publishLocked broadcasts the current state. It must be called with g.mu held
// and releases it; the connection lock is taken first so broadcasts go out in
// the order the state changed.
func (g *Game) publishLocked() {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, g.clientState())
	g.connections.mu.Lock()
	g.mu.Unlock()
	defer g.connections.mu.Unlock()

	if err != nil {
		log.Errorf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}

	var failed []string
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			failed = append(failed, playerID)
		}
	}
	for _, playerID := range failed {
		delete(g.connections.connections, playerID)
	}
}
