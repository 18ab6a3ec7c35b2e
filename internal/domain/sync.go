package domain

import "time"

// SyncRequest carries a device's full local collection up for
// reconciliation against the server copy.
type SyncRequest struct {
	DeviceID string    `json:"device_id" validate:"required"`
	Phrases  []*Phrase `json:"phrases"`
}

// SyncResponse returns the merged collection. When conflicts exist the
// merged result is not yet persisted; the client reviews the conflicts and
// answers with a ResolveRequest carrying the session id.
type SyncResponse struct {
	SessionID string      `json:"session_id,omitempty"`
	Merged    []*Phrase   `json:"merged"`
	Conflicts []*Conflict `json:"conflicts,omitempty"`
	Stats     MergeStats  `json:"stats"`
	Applied   bool        `json:"applied"`
	SyncTime  time.Time   `json:"sync_time"`
}

// ResolveRequest answers the conflicts of a pending sync session.
// Resolutions are keyed by conflict key; missing entries keep the engine's
// automatic choice.
type ResolveRequest struct {
	SessionID   string                `json:"session_id" validate:"required"`
	DeviceID    string                `json:"device_id" validate:"required"`
	Resolutions map[string]Resolution `json:"resolutions"`
}

// SyncMetadata records the last completed sync per user and device.
type SyncMetadata struct {
	UserID       string    `json:"user_id"`
	DeviceID     string    `json:"device_id"`
	LastSyncTime time.Time `json:"last_sync_time"`
	UpdatedAt    time.Time `json:"updated_at"`
}
