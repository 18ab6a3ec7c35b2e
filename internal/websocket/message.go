package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	TypeSyncCompleted   MessageType = "sync_completed"
	TypeConflictPending MessageType = "conflict_pending"
	TypePhraseUpdate    MessageType = "phrase_update"
	TypePhraseDelete    MessageType = "phrase_delete"
	TypeAck             MessageType = "ack"
	TypePing            MessageType = "ping"
	TypePong            MessageType = "pong"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// SyncCompletedPayload tells a user's other devices that a sync cycle was
// applied and their local copy is now behind.
type SyncCompletedPayload struct {
	DeviceID    string `json:"device_id"`
	PhraseCount int    `json:"phrase_count"`
}

// ConflictPendingPayload tells the syncing device that a merge produced
// conflicts awaiting review.
type ConflictPendingPayload struct {
	SessionID     string `json:"session_id"`
	ConflictCount int    `json:"conflict_count"`
}

type PhraseUpdatePayload struct {
	PhraseID  string `json:"phrase_id"`
	UpdatedAt int64  `json:"updated_at"`
	DeviceID  string `json:"device_id"`
}

type PhraseDeletePayload struct {
	PhraseID  string `json:"phrase_id"`
	DeletedAt int64  `json:"deleted_at"`
	DeviceID  string `json:"device_id"`
}

type AckPayload struct {
	MessageID string `json:"message_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}, nil
}

func (m *Message) UnmarshalPayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
