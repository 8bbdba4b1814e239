package dto

import "time"

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
	Token     string `json:"token"`
}

type SessionSnapshotResponse struct {
	SessionId   string           `json:"session_id"`
	Fingerprint string           `json:"fingerprint,omitempty"`
	Documents   []DocumentReport `json:"documents"`
	TurnCount   int              `json:"turn_count"`
	CreatedAt   time.Time        `json:"created_at"`
}
