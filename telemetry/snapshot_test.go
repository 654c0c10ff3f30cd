package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/mire/sim"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:   SnapshotVersion,
		WorldSize: 0.1,
		Frame:     1000,
		Agents: []AgentState{
			{X: 0.15, Y: -0.25, VelX: 0.005, VelY: -0.003},
			{X: -0.8, Y: 0.4, VelX: 0.001, VelY: 0.002},
		},
	}

	path := filepath.Join(tmpDir, "snapshot_1000")
	if err := snapshot.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A .json extension is appended when missing
	wantPath := path + ".json"
	if _, err := os.Stat(wantPath); os.IsNotExist(err) {
		t.Fatalf("snapshot file not created at %s", wantPath)
	}

	loaded, err := LoadSnapshot(wantPath)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Version != snapshot.Version {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, snapshot.Version)
	}
	if loaded.Frame != snapshot.Frame {
		t.Errorf("Frame mismatch: got %d, want %d", loaded.Frame, snapshot.Frame)
	}
	if loaded.WorldSize != snapshot.WorldSize {
		t.Errorf("WorldSize mismatch: got %f, want %f", loaded.WorldSize, snapshot.WorldSize)
	}
	if len(loaded.Agents) != len(snapshot.Agents) {
		t.Fatalf("Agents count mismatch: got %d, want %d", len(loaded.Agents), len(snapshot.Agents))
	}
	if loaded.Agents[0] != snapshot.Agents[0] {
		t.Errorf("Agent state mismatch: got %+v, want %+v", loaded.Agents[0], snapshot.Agents[0])
	}
}

func TestSnapshotRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("LoadSnapshot accepted an unknown version")
	}
}

func TestSnapshotRoundTripThroughSim(t *testing.T) {
	s, err := sim.NewWithPopulation(nil, 64, 0.01)
	if err != nil {
		t.Fatalf("NewWithPopulation: %v", err)
	}
	defer s.Close()

	for i := 0; i < 3; i++ {
		s.Advance()
	}

	snap := CaptureSnapshot(s)
	if snap.Frame != s.Frame() {
		t.Errorf("captured frame %d, want %d", snap.Frame, s.Frame())
	}
	if len(snap.Agents) != s.Count() {
		t.Fatalf("captured %d agents, want %d", len(snap.Agents), s.Count())
	}

	restored, err := sim.NewWithPopulation(nil, 64, 0.01)
	if err != nil {
		t.Fatalf("NewWithPopulation: %v", err)
	}
	defer restored.Close()

	if err := restored.Restore(snap.AgentSlice(), snap.Frame); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	want := s.Snapshot(nil)
	got := restored.Snapshot(nil)
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("agent %d differs after restore: %+v vs %+v", i, want[i], got[i])
		}
	}
}
