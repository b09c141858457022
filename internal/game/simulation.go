package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Garsondee/Arena/internal/level"
)

// LevelLoader resolves a level by name. *level.Source implements it.
type LevelLoader interface {
	Load(ctx context.Context, name string) (*level.Level, error)
}

// Simulation owns the active World, the player, and the projectile set, and
// advances them one step at a time. It is not safe for concurrent use; only
// the goroutine started by RequestLoad runs alongside it, and that goroutine
// touches nothing but its result channel.
type Simulation struct {
	tuning      Tuning
	clock       *Clock
	sink        Sink
	logger      *slog.Logger
	simLog      *SimLog
	controller  PlayerController
	projectiles *Projectiles

	world      *World
	generation uint64
	player     PlayerState
	charge     ChargeSession
	tick       int

	pending       chan loadResult
	pendingName   string
	cancelPending context.CancelFunc

	stats SimStats
}

// SimStats counts gameplay events since the last install.
type SimStats struct {
	Shots     int
	Kills     int
	Occluded  int
	Misses    int
	Jumps     int
	Despawned int
}

type loadResult struct {
	name string
	lvl  *level.Level
	err  error
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithTuning replaces the default physical constants.
func WithTuning(t Tuning) Option {
	return func(s *Simulation) { s.tuning = t }
}

// WithClock sets the step clock.
func WithClock(c *Clock) Option {
	return func(s *Simulation) { s.clock = c }
}

// WithSink sets the presentation collaborator.
func WithSink(sink Sink) Option {
	return func(s *Simulation) { s.sink = sink }
}

// WithLogger sets the structured runtime logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithSimLog records gameplay events into sl.
func WithSimLog(sl *SimLog) Option {
	return func(s *Simulation) { s.simLog = sl }
}

// New returns a Simulation with no World installed. Step does nothing until
// a level is installed.
func New(opts ...Option) *Simulation {
	s := &Simulation{
		tuning: DefaultTuning(),
		sink:   nopSink{},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.clock == nil {
		s.clock = NewClock(StepFixed)
	}
	s.controller = PlayerController{Tuning: s.tuning}
	s.projectiles = NewProjectiles(s.tuning)
	return s
}

// Install atomically replaces the active World with one built from lvl. Any
// projectiles in flight and any charge in progress are discarded and the
// player is placed at the level's spawn.
func (s *Simulation) Install(lvl *level.Level) {
	w, scene := BuildWorld(lvl)
	s.generation++
	scene.Generation = s.generation

	s.world = w
	s.projectiles.Clear()
	s.charge.Reset()
	s.clock.Reset()
	s.controller.Spawn(&s.player, w.Spawn)
	s.stats = SimStats{}

	s.sink.ReplaceScene(scene)

	_, hasEnemy := w.Enemy()
	s.logger.Info("level installed",
		"level", w.Name,
		"generation", s.generation,
		"walls", len(w.Walls()),
		"enemy", hasEnemy,
		"skipped", lvl.Skipped)
	s.simLog.Add(s.tick, "--", "level", "install",
		fmt.Sprintf("%s walls=%d enemy=%t", w.Name, len(w.Walls()), hasEnemy), float64(s.generation))
}

// Load fetches, parses and installs a level synchronously, dropping any
// background request. On failure the current World stays active and the
// *level.LoadError is returned.
func (s *Simulation) Load(ctx context.Context, src LevelLoader, name string) error {
	s.clearPending()
	lvl, err := src.Load(ctx, name)
	return s.finishLoad(ctx, loadResult{name: name, lvl: lvl, err: err})
}

// RequestLoad starts fetching a level in the background. Step installs it
// once it arrives. A newer request supersedes and cancels an older one.
func (s *Simulation) RequestLoad(ctx context.Context, src LevelLoader, name string) {
	if s.cancelPending != nil {
		s.cancelPending()
	}
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan loadResult, 1)
	s.pending = ch
	s.pendingName = name
	s.cancelPending = cancel

	go func() {
		lvl, err := src.Load(ctx, name)
		ch <- loadResult{name: name, lvl: lvl, err: err}
	}()
}

// Loading reports whether a background load is outstanding, and for which
// level.
func (s *Simulation) Loading() (string, bool) {
	return s.pendingName, s.pending != nil
}

// AwaitLoad blocks until the outstanding background load resolves and
// handles it as Step would. It returns nil immediately if none is pending.
func (s *Simulation) AwaitLoad(ctx context.Context) error {
	if s.pending == nil {
		return nil
	}
	select {
	case r := <-s.pending:
		s.clearPending()
		return s.finishLoad(ctx, r)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Simulation) pollLoad(ctx context.Context) {
	if s.pending == nil {
		return
	}
	select {
	case r := <-s.pending:
		s.clearPending()
		_ = s.finishLoad(ctx, r)
	default:
	}
}

func (s *Simulation) clearPending() {
	if s.cancelPending != nil {
		s.cancelPending()
	}
	s.pending = nil
	s.pendingName = ""
	s.cancelPending = nil
}

func (s *Simulation) finishLoad(ctx context.Context, r loadResult) error {
	if r.err != nil {
		s.logger.ErrorContext(ctx, "level load failed", "level", r.name, "err", r.err)
		s.simLog.Add(s.tick, "--", "level", "load_failed", r.err.Error(), 0)
		return r.err
	}
	s.Install(r.lvl)
	return nil
}

// Teleport moves the player to pos at rest. It is a no-op before the first
// install.
func (s *Simulation) Teleport(pos mgl64.Vec3) {
	if s.world == nil {
		return
	}
	s.controller.Spawn(&s.player, pos)
}

// Respawn returns the player to the level's spawn point.
func (s *Simulation) Respawn() {
	if s.world == nil {
		return
	}
	s.Teleport(s.world.Spawn)
}

// StepResult summarises one call to Step.
type StepResult struct {
	Ran       bool
	Tick      int
	Dt        float64
	Player    PlayerEvents
	Fired     bool
	Hit       HitResult
	Despawned []uint64
}

// Step advances the simulation by one clock step using the input snapshot.
// Without an installed World it only checks for a finished background load.
func (s *Simulation) Step(in InputState, now time.Time) StepResult {
	ctx := context.Background()
	s.pollLoad(ctx)
	if s.world == nil {
		return StepResult{}
	}

	s.tick++
	dt := s.clock.Next(now)
	res := StepResult{Ran: true, Tick: s.tick, Dt: dt}

	if !in.Captured {
		in = InputState{Yaw: in.Yaw, Pitch: in.Pitch}
	}

	res.Player = s.controller.Update(&s.player, in, s.world.Walls(), dt)
	s.logPlayer(res.Player)

	var removed []EntityID
	if in.FirePressed {
		s.charge.Press(in.FirePressedAt)
	}
	if in.FireReleased {
		if charge, ok := s.charge.Release(in.FireReleasedAt); ok {
			res.Fired = true
			res.Hit = s.fire(ctx, charge)
			if res.Hit.Outcome == HitKill {
				removed = append(removed, res.Hit.Hit.ID)
			}
		}
	}

	res.Despawned = s.projectiles.Update(dt, s.player.Position)
	for _, id := range res.Despawned {
		s.stats.Despawned++
		s.simLog.Add(s.tick, fmt.Sprintf("P%d", id), "projectile", "despawn", "out of range", 0)
	}

	s.simLog.AddVerbose(s.tick, "player", "player", "position",
		fmt.Sprintf("(%.2f,%.2f,%.2f)", s.player.Position.X(), s.player.Position.Y(), s.player.Position.Z()), s.player.Position.Y())

	s.sink.Publish(s.frame(now, removed, res.Despawned))
	return res
}

// fire launches a projectile and resolves the hit-scan for one release.
func (s *Simulation) fire(ctx context.Context, charge time.Duration) HitResult {
	eye := s.player.Eye()
	aim := s.player.Aim()

	muzzle := muzzlePosition(eye, aim, s.player.Yaw, s.tuning.MuzzleOffset)
	p := s.projectiles.Fire(muzzle, aim, charge)
	speed := p.Velocity.Len()
	s.stats.Shots++
	s.simLog.Add(s.tick, "player", "fire", "launch",
		fmt.Sprintf("P%d charge=%dms speed=%.1f", p.ID, charge.Milliseconds(), speed), speed)

	hit := ResolveHitScan(s.world, eye, aim, s.tuning.HitScanRange)
	switch hit.Outcome {
	case HitKill:
		s.stats.Kills++
		s.logger.InfoContext(ctx, "enemy hit", "level", s.world.Name, "distance", hit.Hit.Distance)
		s.simLog.Add(s.tick, "enemy", "hit", "kill", fmt.Sprintf("at %.1f", hit.Hit.Distance), hit.Hit.Distance)
	case HitOccluded:
		s.stats.Occluded++
		s.simLog.Add(s.tick, "player", "hit", "occluded", hit.Hit.Role.String(), hit.Hit.Distance)
	default:
		s.stats.Misses++
		s.simLog.Add(s.tick, "player", "hit", "miss", "", 0)
	}
	return hit
}

func (s *Simulation) logPlayer(ev PlayerEvents) {
	if ev.Jumped {
		s.stats.Jumps++
		s.simLog.Add(s.tick, "player", "player", "jump", "", s.player.Velocity.Y())
	}
	if ev.Landed {
		s.simLog.Add(s.tick, "player", "player", "land",
			fmt.Sprintf("y=%.1f", s.player.Position.Y()), s.player.Position.Y())
	}
	for _, d := range ev.Blocked {
		s.simLog.AddVerbose(s.tick, "player", "player", "blocked", d.String(), 0)
	}
}

func (s *Simulation) frame(now time.Time, removed []EntityID, despawned []uint64) Frame {
	active := s.projectiles.Active()
	transforms := make([]ProjectileTransform, len(active))
	for i, p := range active {
		transforms[i] = ProjectileTransform{ID: p.ID, Position: p.Position}
	}
	return Frame{
		Tick:       s.tick,
		Generation: s.generation,
		Camera: Camera{
			Position: s.player.Eye(),
			Yaw:      s.player.Yaw,
			Pitch:    s.player.Pitch,
		},
		Projectiles: transforms,
		Removed:     removed,
		Despawned:   despawned,
		Charge:      s.ChargeFraction(now),
	}
}

// ChargeFraction returns how far the current charge has ramped, in [0, 1].
func (s *Simulation) ChargeFraction(now time.Time) float64 {
	if !s.charge.Active() || s.tuning.MaxCharge <= 0 {
		return 0
	}
	return mgl64.Clamp(float64(s.charge.Elapsed(now))/float64(s.tuning.MaxCharge), 0, 1)
}

// World returns the active World, or nil before the first install.
func (s *Simulation) World() *World { return s.world }

// Player returns a copy of the player state.
func (s *Simulation) Player() PlayerState { return s.player }

// Projectiles returns the active projectile set.
func (s *Simulation) Projectiles() *Projectiles { return s.projectiles }

// Tick returns the number of steps run so far.
func (s *Simulation) Tick() int { return s.tick }

// Generation returns how many levels have been installed.
func (s *Simulation) Generation() uint64 { return s.generation }

// Stats returns gameplay counters since the last install.
func (s *Simulation) Stats() SimStats { return s.stats }

// Tuning returns the physical constants in use.
func (s *Simulation) Tuning() Tuning { return s.tuning }
