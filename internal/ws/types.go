package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeSelect     MessageType = "select"
	MessageTypeMove       MessageType = "move"
	MessageTypePromote    MessageType = "promote"
	MessageTypeResign     MessageType = "resign"
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeLegalMoves MessageType = "legalMoves"
	MessageTypeMatchFound MessageType = "matchFound"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage marshals payload into a message of the given type.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}

// ErrorMessage wraps text as an error message. Strings always marshal.
func ErrorMessage(text string) Message {
	raw, _ := json.Marshal(text)
	return Message{Type: MessageTypeError, Payload: raw}
}
