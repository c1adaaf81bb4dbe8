package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages exchanged on a game socket
type MessageType string

const (
	MessageTypeMove       MessageType = "move"
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeLegalMoves MessageType = "legalMoves"
	MessageTypeResign     MessageType = "resign"
	MessageTypeReset      MessageType = "reset"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage marshals payload into a message envelope.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// LegalMovesRequest asks for the destinations of the piece on From.
type LegalMovesRequest struct {
	From string `json:"from"`
}

type LegalMovesPayload struct {
	From  string   `json:"from"`
	Moves []string `json:"moves"`
}
