package model

import (
	"github.com/benbeisheim/grandmaster-backend/internal/ai"
	"github.com/benbeisheim/grandmaster-backend/internal/chess"
)

const (
	// ComputerID identifies the engine seat in the players block.
	ComputerID = "grandmaster-ai"

	HumanName    = "Player"
	ComputerName = "Grandmaster AI"
)

// The engine's seat is fixed by the search, the human takes the other one.
const (
	ComputerColor = ai.ComputerColor
	HumanColor    = chess.White
)

type ClientPlayer struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Color    chess.Color `json:"color"`
	TimeLeft int         `json:"timeLeft"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func newPlayers(ownerID string) Players {
	return Players{
		White: ClientPlayer{ID: ownerID, Name: HumanName, Color: HumanColor},
		Black: ClientPlayer{ID: ComputerID, Name: ComputerName, Color: ComputerColor},
	}
}

func playerName(c chess.Color) string {
	if c == ComputerColor {
		return ComputerName
	}
	return HumanName
}
