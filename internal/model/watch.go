package model

import "time"

// WatchEntry is the last recorded verdict for a watched fund.
type WatchEntry struct {
	Score       int       `json:"score"`
	IsSuitable  bool      `json:"is_suitable"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// WatchState tracks the last verdict of every watched fund across scans.
type WatchState struct {
	Entries   map[string]WatchEntry `json:"entries"`
	UpdatedAt time.Time             `json:"updated_at"`
}
