// Package sim owns the simulation core: the agent population, the trail
// canvas, and the driver that sequences one tick. Every tick runs three
// phases in a fixed order — splat the *current* agents into the staging
// field, update agents against the *current* canvas, update the canvas —
// and then swaps both double-buffers. The ordering is part of the
// contract: splat sees agent(t), not agent(t+1).
package sim

import (
	"fmt"
	"math"

	"github.com/pthm-cable/mire/field"
	"github.com/pthm-cable/mire/rule"
	"github.com/pthm-cable/mire/vec"
)

// World scaling inherited from saved-configuration compatibility:
// population and canvas resolution both derive from a single world-size
// knob.
const (
	EntitiesPerUnit = 600000
	CanvasBaseDim   = 1024
	maxPopulation   = 4 << 20
)

// Agent is one simulated point mass. Agents live in a flat, order-stable
// array; the index is the agent's identity and its cohort is recomputed
// from it every step, never stored.
type Agent struct {
	Pos vec.Vec2
	Vel vec.Vec2
}

// Stroke is an external deposition event in world space, applied to the
// staging field on the next tick.
type Stroke struct {
	From, To vec.Vec2
	Radius   float32
	Power    float32
}

// Sim is the simulation driver.
type Sim struct {
	settings *Settings
	pending  *Settings

	agents [2][]Agent
	cur    int

	canvas    *field.Field
	worldSize float32

	// Per-tick scale constants; see recomputeScales.
	senseScale  float32
	forceScale  float32
	strafeScale float32

	effRules []rule.Rule
	strokes  []Stroke

	frame     int
	pool      *workerPool
	phaseHook func(phase string)
}

// New creates a simulation with population and canvas resolution derived
// from worldSize (population = 600000*worldSize, canvas dimension =
// 1024*sqrt(worldSize)).
func New(settings *Settings, worldSize float64) (*Sim, error) {
	pop := int(EntitiesPerUnit * worldSize)
	return NewWithPopulation(settings, pop, worldSize)
}

// NewWithPopulation creates a simulation with an explicit population,
// decoupled from the canvas scaling.
func NewWithPopulation(settings *Settings, population int, worldSize float64) (*Sim, error) {
	if settings == nil {
		settings = DefaultSettings()
	}
	s := &Sim{pool: newWorkerPool()}
	if err := s.allocate(settings, population, worldSize); err != nil {
		return nil, err
	}
	return s, nil
}

// allocate builds both double buffers from scratch.
func (s *Sim) allocate(settings *Settings, population int, worldSize float64) error {
	if population <= 0 || population > maxPopulation {
		return fmt.Errorf("sim: invalid population %d", population)
	}
	if worldSize <= 0 {
		return fmt.Errorf("sim: invalid world size %g", worldSize)
	}
	dim := int(CanvasBaseDim * math.Sqrt(worldSize))
	if dim < 1 {
		dim = 1
	}
	canvas, err := field.New(dim)
	if err != nil {
		return fmt.Errorf("sim: allocating canvas: %w", err)
	}

	s.settings = settings
	s.pending = nil
	s.agents[0] = make([]Agent, population)
	s.agents[1] = make([]Agent, population)
	s.cur = 0
	s.canvas = canvas
	s.worldSize = float32(worldSize)
	s.frame = 0
	s.effRules = nil
	s.strokes = s.strokes[:0]
	s.canvas.SetWrap(settings.Boundary == BoundaryWrap)
	s.recomputeScales()
	return nil
}

// recomputeScales derives the fixed signal and force scale constants.
// The literal values (38.855, divisors 400 and 20) are load-bearing for
// saved-configuration compatibility; sqrt(worldSize) tracks the canvas
// texel density so behavior stays roughly invariant as world size and
// population scale together.
func (s *Sim) recomputeScales() {
	sq := float32(math.Sqrt(float64(s.worldSize)))
	s.senseScale = 38.855 / sq
	s.forceScale = sq / 400
	s.strafeScale = sq / 20
}

// SetPhaseHook installs a callback invoked at the start of each tick
// phase ("splat", "agents", "field"), used for timing instrumentation.
func (s *Sim) SetPhaseHook(hook func(phase string)) {
	s.phaseHook = hook
}

func (s *Sim) phase(name string) {
	if s.phaseHook != nil {
		s.phaseHook(name)
	}
}

// Advance runs one tick.
func (s *Sim) Advance() {
	if s.pending != nil {
		s.settings = s.pending
		s.pending = nil
		s.canvas.SetWrap(s.settings.Boundary == BoundaryWrap)
	}
	st := s.settings

	s.rebuildEffectiveRules(st)

	// Phase 1: splat agent(t) into the staging field. Sequential on
	// purpose: deposits overlap, and a fixed summation order keeps the
	// result bit-reproducible.
	src := s.agents[s.cur]
	dst := s.agents[1-s.cur]
	s.phase("splat")
	s.canvas.ClearBrush()
	for i := range src {
		s.canvas.Splat(src[i].Pos, src[i].Vel)
	}

	// External draw events land in the same staging buffer.
	for _, stroke := range s.strokes {
		s.canvas.Stroke(stroke.From, stroke.To, stroke.Radius, stroke.Power, st.TrailPersistence)
	}
	s.strokes = s.strokes[:0]

	// Phase 2: agent(t) + canvas(t) -> agent(t+1). Each agent writes
	// only its own slot in the write buffer.
	frame := s.frame
	s.phase("agents")
	s.pool.Run(len(src), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			s.updateAgent(i, src, dst, st, frame)
		}
	})

	// Phase 3: canvas(t) + staged -> canvas(t+1), then swap both
	// buffers and count the frame.
	s.phase("field")
	s.canvas.Step(st.TrailPersistence, st.TrailDiffusion, s.pool.Run)
	s.cur = 1 - s.cur
	s.frame++
}

// rebuildEffectiveRules recomputes the per-cohort rule for this tick.
// The mutation is keyed on the rule contents and cohort, so recomputing
// it every tick is stable across frames while staying unpersisted.
func (s *Sim) rebuildEffectiveRules(st *Settings) {
	cohorts := st.Cohorts
	if cohorts < 1 {
		cohorts = 1
	}
	if cap(s.effRules) < cohorts {
		s.effRules = make([]rule.Rule, cohorts)
	}
	s.effRules = s.effRules[:cohorts]
	for c := 0; c < cohorts; c++ {
		amount := st.MutationScale.Resolve(vec.Vec2{}, cohortNorm(c, cohorts))
		s.effRules[c] = rule.Effective(st.Rule, st.RuleSeed, float32(c), amount)
	}
}

// Reset zeroes the frame counter. Agents reinitialize on the next tick's
// reset-frame branch; the canvas decays naturally under the blend.
func (s *Sim) Reset() {
	s.frame = 0
}

// SetConfig swaps the configuration snapshot, effective next tick.
func (s *Sim) SetConfig(settings *Settings) {
	if settings == nil {
		return
	}
	s.pending = settings
}

// Resize tears down and recreates both double buffers at a new
// population and world size. Partial resizes are not supported.
func (s *Sim) Resize(population int, worldSize float64) error {
	settings := s.settings
	if s.pending != nil {
		settings = s.pending
	}
	return s.allocate(settings, population, worldSize)
}

// Restore replaces the live population with a saved one, resizing the
// buffers when the counts differ. The canvas is left alone; it re-forms
// from the restored agents.
func (s *Sim) Restore(agents []Agent, frame int) error {
	if len(agents) != s.Count() {
		if err := s.allocate(s.Settings(), len(agents), float64(s.worldSize)); err != nil {
			return err
		}
	}
	copy(s.agents[s.cur], agents)
	if frame < 1 {
		frame = 1 // frame 0 would trigger the placement branch and discard the restore
	}
	s.frame = frame
	return nil
}

// Close stops the worker pool.
func (s *Sim) Close() {
	s.pool.stop()
}

// QueueStroke schedules an external deposition event for the next tick.
func (s *Sim) QueueStroke(st Stroke) {
	s.strokes = append(s.strokes, st)
}

// Frame returns the current frame counter.
func (s *Sim) Frame() int {
	return s.frame
}

// Count returns the population size.
func (s *Sim) Count() int {
	return len(s.agents[s.cur])
}

// WorldSize returns the current world-size knob.
func (s *Sim) WorldSize() float64 {
	return float64(s.worldSize)
}

// Settings returns the configuration the next tick will run against.
func (s *Sim) Settings() *Settings {
	if s.pending != nil {
		return s.pending
	}
	return s.settings
}

// Snapshot copies the current agent buffer into dst, growing it as
// needed, and returns it. The copy never aliases live simulation state.
func (s *Sim) Snapshot(dst []Agent) []Agent {
	src := s.agents[s.cur]
	if cap(dst) < len(src) {
		dst = make([]Agent, len(src))
	}
	dst = dst[:len(src)]
	copy(dst, src)
	return dst
}

// SampleField reads the current canvas at a world position. Used by
// renderers; never mutates.
func (s *Sim) SampleField(p vec.Vec2) vec.Vec4 {
	return s.canvas.Sample(p)
}

// Canvas exposes the trail canvas for read-only consumers (renderers,
// telemetry).
func (s *Sim) Canvas() *field.Field {
	return s.canvas
}

// cohortOf maps an agent index to its cohort bucket.
func cohortOf(i, n, cohorts int) int {
	if cohorts < 1 {
		return 0
	}
	c := cohorts * i / n
	if c >= cohorts {
		c = cohorts - 1
	}
	return c
}

// cohortNorm maps a cohort bucket to [0, 1] for sweeps and seeds.
func cohortNorm(c, cohorts int) float32 {
	if cohorts <= 1 {
		return 0
	}
	return float32(c) / float32(cohorts-1)
}
