// Package config loads the arena's runtime settings from a TOML file layered
// over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Garsondee/Arena/internal/game"
)

// Config is the full settings tree. Zero-valued fields in a file keep the
// default because Load decodes over Default().
type Config struct {
	Physics Physics `toml:"physics"`
	Clock   Clock   `toml:"clock"`
	Level   Level   `toml:"level"`
	Window  Window  `toml:"window"`
	Log     Log     `toml:"log"`
}

// Physics mirrors game.Tuning in file-friendly units.
type Physics struct {
	FloorHeight       float64    `toml:"floor_height"`
	Damping           float64    `toml:"damping"`
	Gravity           float64    `toml:"gravity"`
	MoveAccel         float64    `toml:"move_accel"`
	JumpImpulse       float64    `toml:"jump_impulse"`
	ProbeDistance     float64    `toml:"probe_distance"`
	ProjectileGravity float64    `toml:"projectile_gravity"`
	DespawnDistance   float64    `toml:"despawn_distance"`
	MinLaunchSpeed    float64    `toml:"min_launch_speed"`
	MaxLaunchSpeed    float64    `toml:"max_launch_speed"`
	MaxChargeMS       int        `toml:"max_charge_ms"`
	MuzzleOffset      [3]float64 `toml:"muzzle_offset"`
	HitScanRange      float64    `toml:"hit_scan_range"`
}

// Clock selects the step mode.
type Clock struct {
	Mode       string `toml:"mode"`
	NominalHz  int    `toml:"nominal_hz"`
	MaxDeltaMS int    `toml:"max_delta_ms"`
}

// Level names the level to start in and where to look for it. Dir and URL
// are searched before the built-in levels.
type Level struct {
	Name string `toml:"name"`
	Dir  string `toml:"dir"`
	URL  string `toml:"url"`
}

// Window configures the host window.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	// MouseSensitivity is radians of look per pixel of cursor travel.
	MouseSensitivity float64 `toml:"mouse_sensitivity"`
}

// Log configures the runtime logger.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text or json
}

// Default returns the stock settings.
func Default() Config {
	t := game.DefaultTuning()
	return Config{
		Physics: Physics{
			FloorHeight:       t.FloorHeight,
			Damping:           t.Damping,
			Gravity:           t.Gravity,
			MoveAccel:         t.MoveAccel,
			JumpImpulse:       t.JumpImpulse,
			ProbeDistance:     t.ProbeDistance,
			ProjectileGravity: t.ProjectileGravity,
			DespawnDistance:   t.DespawnDistance,
			MinLaunchSpeed:    t.MinLaunchSpeed,
			MaxLaunchSpeed:    t.MaxLaunchSpeed,
			MaxChargeMS:       int(t.MaxCharge / time.Millisecond),
			MuzzleOffset:      [3]float64(t.MuzzleOffset),
			HitScanRange:      t.HitScanRange,
		},
		Clock: Clock{
			Mode:       game.StepFixed.String(),
			NominalHz:  60,
			MaxDeltaMS: int(game.DefaultMaxDelta / time.Millisecond),
		},
		Level: Level{
			Name: "level1",
			Dir:  "game_levels",
		},
		Window: Window{
			Title:            "Arena",
			Width:            1280,
			Height:           720,
			MouseSensitivity: 0.002,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the TOML file at path over Default(). A missing file is not an
// error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate reports settings the simulation cannot run with.
func (c Config) Validate() error {
	var errs []error
	if _, err := game.ParseStepMode(c.Clock.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.Clock.NominalHz <= 0 {
		errs = append(errs, fmt.Errorf("clock.nominal_hz must be > 0, got %d", c.Clock.NominalHz))
	}
	if c.Physics.MinLaunchSpeed > c.Physics.MaxLaunchSpeed {
		errs = append(errs, fmt.Errorf("physics.min_launch_speed %.1f exceeds max_launch_speed %.1f",
			c.Physics.MinLaunchSpeed, c.Physics.MaxLaunchSpeed))
	}
	if c.Physics.ProbeDistance <= 0 {
		errs = append(errs, errors.New("physics.probe_distance must be > 0"))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Tuning converts the physics section to simulation constants.
func (c Config) Tuning() game.Tuning {
	p := c.Physics
	return game.Tuning{
		FloorHeight:       p.FloorHeight,
		Damping:           p.Damping,
		Gravity:           p.Gravity,
		MoveAccel:         p.MoveAccel,
		JumpImpulse:       p.JumpImpulse,
		ProbeDistance:     p.ProbeDistance,
		ProjectileGravity: p.ProjectileGravity,
		DespawnDistance:   p.DespawnDistance,
		MinLaunchSpeed:    p.MinLaunchSpeed,
		MaxLaunchSpeed:    p.MaxLaunchSpeed,
		MaxCharge:         time.Duration(p.MaxChargeMS) * time.Millisecond,
		MuzzleOffset:      mgl64.Vec3(p.MuzzleOffset),
		HitScanRange:      p.HitScanRange,
	}
}

// NewClock builds the step clock described by the clock section. Call
// Validate first; an invalid mode falls back to fixed stepping.
func (c Config) NewClock() *game.Clock {
	mode, _ := game.ParseStepMode(c.Clock.Mode)
	clk := game.NewClock(mode)
	if c.Clock.NominalHz > 0 {
		clk.Nominal = time.Second / time.Duration(c.Clock.NominalHz)
	}
	if c.Clock.MaxDeltaMS > 0 {
		clk.MaxDelta = time.Duration(c.Clock.MaxDeltaMS) * time.Millisecond
	}
	return clk
}

// Logger builds a slog.Logger writing to w per the log section.
func (c Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := parseLevel(c.Log.Level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
