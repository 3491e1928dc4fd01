// Package archive mirrors conversation turns into an optional durable
// store. The live session state stays in memory; the archive is a
// best-effort record that never blocks or fails a turn.
package archive

import (
	"context"
	"time"
)

// TurnRecord stores a single user or agent conversational turn.
type TurnRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	CaseID    string    `json:"case_id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists and retrieves archived turns.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error)
	Close() error
}
