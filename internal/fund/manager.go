package fund

import (
	"sync"
	"time"

	"GridScout/internal/model"

	"github.com/rs/zerolog"
)

// Tracker records watchlist verdicts with concurrency safety and persists them.
type Tracker struct {
	mu       sync.Mutex
	state    *model.WatchState
	filePath string
	log      zerolog.Logger
}

// NewTracker creates a Tracker, loading state from disk when present.
func NewTracker(filePath string, log zerolog.Logger) (*Tracker, error) {
	state, err := LoadWatchState(filePath)
	if err != nil {
		return nil, err
	}
	return &Tracker{
		state:    state,
		filePath: filePath,
		log:      log.With().Str("component", "watch").Logger(),
	}, nil
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() model.WatchState {
	t.mu.Lock()
	defer t.mu.Unlock()

	cp := model.WatchState{
		Entries:   make(map[string]model.WatchEntry, len(t.state.Entries)),
		UpdatedAt: t.state.UpdatedAt,
	}
	for k, v := range t.state.Entries {
		cp.Entries[k] = v
	}
	return cp
}

// Record stores a verdict for code and reports whether it changed materially
// since the previous one. The state file is rewritten on every call.
func (t *Tracker) Record(code string, v *model.SuitabilityVerdict, at time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	changed := Changed(t.state, code, v)
	t.state.Entries[code] = model.WatchEntry{
		Score:       v.Score,
		IsSuitable:  v.IsSuitable,
		EvaluatedAt: at,
	}

	if err := SaveWatchState(t.filePath, t.state); err != nil {
		t.log.Error().Err(err).Str("code", code).Msg("failed to save watch state")
	}
	return changed
}
