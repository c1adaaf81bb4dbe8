package model

import (
	"time"

	"github.com/benbeisheim/grandmaster-backend/internal/chess"
)

// GameSummary is the record of a finished game handed to the history store.
type GameSummary struct {
	ID                  string         `json:"id"`
	GameID              string         `json:"gameId"`
	UserID              string         `json:"userId"`
	Date                time.Time      `json:"date"`
	Winner              string         `json:"winner"`
	Method              string         `json:"method"`
	TotalMoves          int            `json:"totalMoves"`
	GameDurationMinutes int            `json:"gameDurationMinutes"`
	MoveHistory         []string       `json:"moveHistory"`
	FinalPosition       chess.Board    `json:"finalPosition"`
	FinalFEN            string         `json:"finalFen"`
	CapturedPieces      CapturedPieces `json:"capturedPieces"`
}

// Outcome classifies the summary from the human player's side.
func (s GameSummary) Outcome() Outcome {
	switch s.Winner {
	case HumanName:
		return OutcomeWin
	case ComputerName:
		return OutcomeLoss
	}
	return OutcomeDraw
}

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)
