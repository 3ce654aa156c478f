package fund

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"GridScout/internal/model"
)

// scoreChangeThreshold is the score move that counts as a changed verdict.
const scoreChangeThreshold = 10

// LoadWatchState reads the watch state from a JSON file. Returns an empty state if the file doesn't exist.
func LoadWatchState(filePath string) (*model.WatchState, error) {
	state := &model.WatchState{Entries: map[string]model.WatchEntry{}}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	if state.Entries == nil {
		state.Entries = map[string]model.WatchEntry{}
	}
	return state, nil
}

// SaveWatchState writes the watch state to a JSON file, creating its directory.
func SaveWatchState(filePath string, state *model.WatchState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}

// Changed reports whether a verdict differs materially from the last one
// recorded for code: the suitability flipped or the score moved by at least
// scoreChangeThreshold. A fund seen for the first time is not a change.
func Changed(state *model.WatchState, code string, v *model.SuitabilityVerdict) bool {
	if state == nil || v == nil {
		return false
	}
	prev, ok := state.Entries[code]
	if !ok {
		return false
	}
	if prev.IsSuitable != v.IsSuitable {
		return true
	}
	diff := v.Score - prev.Score
	return diff >= scoreChangeThreshold || diff <= -scoreChangeThreshold
}
