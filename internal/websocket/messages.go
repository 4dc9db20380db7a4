package websocket

import (
	"encoding/json"
	"time"
)

// MessageType defines the type of control message sent by the hub
type MessageType string

const (
	// MessageTypeHello is the first frame a shell receives after connecting
	MessageTypeHello MessageType = "hello"
)

// HelloMessage tells a shell its connection ID and the voices it may request
type HelloMessage struct {
	Type      MessageType `json:"type"`
	ClientID  string      `json:"client_id"`
	Voices    []string    `json:"voices"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewHelloMessage creates a hello frame for clientID
func NewHelloMessage(clientID string, voices []string) ([]byte, error) {
	return json.Marshal(HelloMessage{
		Type:      MessageTypeHello,
		ClientID:  clientID,
		Voices:    voices,
		Timestamp: time.Now(),
	})
}
