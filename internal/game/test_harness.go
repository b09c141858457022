package game

import (
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Garsondee/Arena/internal/level"
)

// TestSim is a headless harness around Simulation used by tests and the
// headless report. It owns a synthetic clock, a held input state, and a
// recording sink.
type TestSim struct {
	Sim    *Simulation
	SimLog *SimLog
	Now    time.Time

	// Input is the held input applied on every step. One-shot edges queued
	// by Jump and Fire are merged into the next step only.
	Input InputState

	Frames []Frame
	Scenes []Scene

	lvl        *level.Level
	tuning     Tuning
	clock      *Clock
	placeAt    *mgl64.Vec3
	queued     InputState
	keepFrames bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // tuning, clock, verbose, level: applied before the Simulation exists
	simOptPlayer                      // player placement: applied after the level is installed
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithLevel installs lvl at construction.
func WithLevel(lvl *level.Level) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.lvl = lvl }}
}

// WithTestTuning overrides the physical constants.
func WithTestTuning(t Tuning) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.tuning = t }}
}

// WithStepMode selects the clock mode. Measured mode advances by the
// harness's synthetic clock.
func WithStepMode(m StepMode) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.clock = NewClock(m) }}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.SimLog = NewSimLog(v) }}
}

// WithFrameRecording keeps every published frame in TestSim.Frames.
func WithFrameRecording() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.keepFrames = true }}
}

// WithPlayerAt moves the player after the level is installed.
func WithPlayerAt(x, y, z float64) SimOption {
	return SimOption{simOptPlayer, func(ts *TestSim) {
		p := mgl64.Vec3{x, y, z}
		ts.placeAt = &p
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (tuning, clock, verbose, level)
//  2. Build the Simulation and install the level
//  3. Player placement
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		SimLog: NewSimLog(false),
		Now:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Input:  InputState{Captured: true},
		tuning: DefaultTuning(),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	if ts.clock == nil {
		ts.clock = NewClock(StepFixed)
	}
	ts.Sim = New(
		WithTuning(ts.tuning),
		WithClock(ts.clock),
		WithSink(recordingSink{ts}),
		WithSimLog(ts.SimLog),
		WithLogger(discardLogger()),
	)
	if ts.lvl != nil {
		ts.Sim.Install(ts.lvl)
	}
	for _, o := range opts {
		if o.kind == simOptPlayer {
			o.fn(ts)
		}
	}
	if ts.placeAt != nil {
		ts.Sim.Teleport(*ts.placeAt)
	}
	return ts
}

// Hold sets the held movement inputs to exactly dirs.
func (ts *TestSim) Hold(dirs ...Direction) {
	ts.Input.Forward, ts.Input.Back, ts.Input.Left, ts.Input.Right = false, false, false, false
	for _, d := range dirs {
		switch d {
		case DirForward:
			ts.Input.Forward = true
		case DirBack:
			ts.Input.Back = true
		case DirLeft:
			ts.Input.Left = true
		case DirRight:
			ts.Input.Right = true
		}
	}
}

// Look sets the held camera orientation.
func (ts *TestSim) Look(yaw, pitch float64) {
	ts.Input.Yaw = yaw
	ts.Input.Pitch = pitch
}

// Jump queues a jump edge for the next step.
func (ts *TestSim) Jump() { ts.queued.Jump = true }

// PressFire queues a fire press at the current synthetic time.
func (ts *TestSim) PressFire() {
	ts.queued.FirePressed = true
	ts.queued.FirePressedAt = ts.Now
}

// ReleaseFire queues a fire release at the current synthetic time.
func (ts *TestSim) ReleaseFire() {
	ts.queued.FireReleased = true
	ts.queued.FireReleasedAt = ts.Now
}

// Fire queues a press and release separated by charge into the next step.
func (ts *TestSim) Fire(charge time.Duration) {
	ts.queued.FirePressed = true
	ts.queued.FirePressedAt = ts.Now.Add(-charge)
	ts.queued.FireReleased = true
	ts.queued.FireReleasedAt = ts.Now
}

// Step runs one simulation step and advances the synthetic clock by the
// nominal delta.
func (ts *TestSim) Step() StepResult {
	in := ts.Input
	in.Jump = ts.queued.Jump
	in.FirePressed, in.FirePressedAt = ts.queued.FirePressed, ts.queued.FirePressedAt
	in.FireReleased, in.FireReleasedAt = ts.queued.FireReleased, ts.queued.FireReleasedAt
	ts.queued = InputState{}

	res := ts.Sim.Step(in, ts.Now)
	ts.Now = ts.Now.Add(ts.clock.Nominal)
	return res
}

// RunTicks advances the simulation n steps.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Step()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.Step()
		if predicate(ts) {
			return ts.Sim.Tick()
		}
	}
	return -1
}

// LastFrame returns the most recent published frame.
func (ts *TestSim) LastFrame() (Frame, bool) {
	if len(ts.Frames) == 0 {
		return Frame{}, false
	}
	return ts.Frames[len(ts.Frames)-1], true
}

// recordingSink appends published output to its TestSim. Only the last frame
// is kept unless frame recording was requested.
type recordingSink struct{ ts *TestSim }

func (r recordingSink) ReplaceScene(scene Scene) {
	r.ts.Scenes = append(r.ts.Scenes, scene)
}

func (r recordingSink) Publish(frame Frame) {
	if !r.ts.keepFrames {
		r.ts.Frames = r.ts.Frames[:0]
	}
	r.ts.Frames = append(r.ts.Frames, frame)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
