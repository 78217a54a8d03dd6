package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DumpedState is the shape written by Dump. It is a diagnostic artifact
// only: nothing reads it back on startup.
type DumpedState struct {
	DumpedAt time.Time     `json:"dumped_at"`
	Sessions []interface{} `json:"sessions"`
}

// Dump writes every live session to a timestamped JSON file under dir.
// Best-effort: it is called once during shutdown and a failure only costs
// the diagnostic snapshot.
func (r *Registry) Dump(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create dump directory: %w", err)
	}

	state := DumpedState{DumpedAt: time.Now()}
	for _, s := range r.List() {
		state.Sessions = append(state.Sessions, s)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal state dump: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("state-%s.json", time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write state dump: %w", err)
	}
	return path, nil
}
