package models

import "time"

// HistoryEntry records one problem delivered to a chat. Rows are
// append-only.
type HistoryEntry struct {
	ID           int64
	ChatID       int64
	ContestID    int
	ProblemIndex string
	Name         string
	Rating       *int
	CreatedAt    time.Time
}
