// Package telemetry provides run statistics, performance tracking, and
// state snapshots for the simulation.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/mire/sim"
	"github.com/pthm-cable/mire/vec"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the agent population state for later replay. The canvas
// is deliberately not captured: it re-forms from the agents within a few
// hundred frames of restore.
type Snapshot struct {
	Version int `json:"version"`

	WorldSize float64 `json:"world_size"`
	Frame     int     `json:"frame"`

	Agents []AgentState `json:"agents"`
}

// AgentState holds one agent's complete state.
type AgentState struct {
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	VelX float32 `json:"vel_x"`
	VelY float32 `json:"vel_y"`
}

// CaptureSnapshot builds a snapshot from the running simulation.
func CaptureSnapshot(s *sim.Sim) *Snapshot {
	agents := s.Snapshot(nil)
	snap := &Snapshot{
		Version:   SnapshotVersion,
		WorldSize: s.WorldSize(),
		Frame:     s.Frame(),
		Agents:    make([]AgentState, len(agents)),
	}
	for i, a := range agents {
		snap.Agents[i] = AgentState{X: a.Pos.X, Y: a.Pos.Y, VelX: a.Vel.X, VelY: a.Vel.Y}
	}
	return snap
}

// AgentSlice converts the stored states back into simulation agents.
func (s *Snapshot) AgentSlice() []sim.Agent {
	agents := make([]sim.Agent, len(s.Agents))
	for i, a := range s.Agents {
		agents[i] = sim.Agent{
			Pos: vec.Vec2{X: a.X, Y: a.Y},
			Vel: vec.Vec2{X: a.VelX, Y: a.VelY},
		}
	}
	return agents
}

// Save writes the snapshot as JSON. A .json extension is appended when
// missing.
func (s *Snapshot) Save(path string) error {
	if !strings.HasSuffix(path, ".json") {
		path += ".json"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot from a JSON file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d not supported (want %d)", snap.Version, SnapshotVersion)
	}
	return snap, nil
}
