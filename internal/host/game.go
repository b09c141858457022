// Package host runs the simulation inside an Ebitengine window: it polls
// input, steps the simulation once per frame and draws a top-down view with
// a HUD.
package host

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/atotto/clipboard"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Arena/internal/config"
	"github.com/Garsondee/Arena/internal/game"
)

// statusDuration is how long a HUD status message stays visible.
const statusDuration = 3 * time.Second

// Game implements ebiten.Game and game.Sink.
type Game struct {
	sim    *game.Simulation
	src    game.LevelLoader
	win    config.Window
	logger *slog.Logger
	ctx    context.Context

	levels   []string
	levelIdx int

	captured   bool
	yaw, pitch float64
	cursor     cursorTracker

	scene   game.Scene
	frame   game.Frame
	removed map[game.EntityID]bool
	view    projection

	feed     *eventFeed
	showFeed bool

	status      string
	statusUntil time.Time

	now         func() time.Time
	copyToClip  func(string) error
	setCaptured func(bool)
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the runtime logger.
func WithLogger(l *slog.Logger) Option { return func(g *Game) { g.logger = l } }

// WithLevels sets the level rotation cycled by the N key. The first entry is
// the one loaded at start.
func WithLevels(names ...string) Option { return func(g *Game) { g.levels = names } }

// WithEvents shows entries recorded in sl in a side panel.
func WithEvents(sl *game.SimLog) Option {
	return func(g *Game) {
		g.feed = newEventFeed(sl)
		g.showFeed = true
	}
}

// WithContext bounds background level loads.
func WithContext(ctx context.Context) Option { return func(g *Game) { g.ctx = ctx } }

// New creates a Game. Register it as the simulation's sink with
// game.WithSink before the first level is installed.
func New(src game.LevelLoader, win config.Window, opts ...Option) *Game {
	g := &Game{
		src:        src,
		win:        win,
		logger:     slog.Default(),
		ctx:        context.Background(),
		removed:    make(map[game.EntityID]bool),
		now:        time.Now,
		copyToClip: clipboard.WriteAll,
		setCaptured: func(on bool) {
			if on {
				ebiten.SetCursorMode(ebiten.CursorModeCaptured)
			} else {
				ebiten.SetCursorMode(ebiten.CursorModeVisible)
			}
		},
	}
	for _, o := range opts {
		o(g)
	}
	g.view = fitProjection(bounds{-50, -50, 50, 50}, g.mapWidth(), win.Height)
	return g
}

// mapWidth is the screen width left for the map beside the event panel.
func (g *Game) mapWidth() int {
	if g.feed != nil && g.showFeed {
		return g.win.Width - feedPanelWidth
	}
	return g.win.Width
}

// Attach binds the simulation the Game drives and starts loading the first
// level in the rotation.
func (g *Game) Attach(sim *game.Simulation) {
	g.sim = sim
	if len(g.levels) > 0 {
		g.sim.RequestLoad(g.ctx, g.src, g.levels[0])
	}
}

// ReplaceScene implements game.Sink.
func (g *Game) ReplaceScene(scene game.Scene) {
	g.scene = scene
	g.removed = make(map[game.EntityID]bool)
	g.frame = game.Frame{Generation: scene.Generation}
	g.view = fitProjection(sceneBounds(scene), g.mapWidth(), g.win.Height)
	g.setStatus(fmt.Sprintf("loaded %s", scene.Name))
}

// Publish implements game.Sink.
func (g *Game) Publish(frame game.Frame) {
	if frame.Generation != g.scene.Generation {
		return
	}
	for _, id := range frame.Removed {
		g.removed[id] = true
	}
	g.frame = frame
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.sim == nil {
		return nil
	}
	now := g.now()
	in := g.pollInput(now)
	g.sim.Step(in, now)
	if g.feed != nil {
		g.feed.pull()
	}
	g.handleHotkeys()
	return nil
}

// pollInput samples the devices into a snapshot. The click that captures the
// pointer is consumed by the capture and never reaches the simulation.
func (g *Game) pollInput(now time.Time) game.InputState {
	if g.captured && ebiten.CursorMode() != ebiten.CursorModeCaptured {
		// The platform released the pointer behind our back.
		g.release()
	}
	if g.captured && inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.release()
	}

	in := game.InputState{Captured: g.captured}
	if g.captured {
		dx, dy := g.cursor.delta(ebiten.CursorPosition())
		g.yaw, g.pitch = mouseLook(g.yaw, g.pitch, dx, dy, g.win.MouseSensitivity)

		in.Forward, in.Back, in.Left, in.Right = movement(ebiten.IsKeyPressed)
		in.Jump = inpututil.IsKeyJustPressed(ebiten.KeySpace)
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			in.FirePressed, in.FirePressedAt = true, now
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			in.FireReleased, in.FireReleasedAt = true, now
		}
	} else if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.capture()
	}
	in.Yaw, in.Pitch = g.yaw, g.pitch
	return in
}

func (g *Game) capture() {
	g.captured = true
	g.cursor.reset()
	g.setCaptured(true)
}

func (g *Game) release() {
	g.captured = false
	g.cursor.reset()
	g.setCaptured(false)
}

// handleHotkeys processes the edge-triggered utility keys.
func (g *Game) handleHotkeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		g.copyReport()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.sim.Respawn()
		g.setStatus("respawned")
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.reload()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.nextLevel()
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.toggleFeed()
	}
}

func (g *Game) copyReport() {
	if err := g.copyToClip(g.sim.DebugReport()); err != nil {
		g.logger.Warn("copy debug report", "err", err)
		g.setStatus("clipboard unavailable")
		return
	}
	g.setStatus("debug report copied")
}

func (g *Game) reload() {
	if len(g.levels) == 0 {
		return
	}
	g.sim.RequestLoad(g.ctx, g.src, g.levels[g.levelIdx])
}

func (g *Game) nextLevel() {
	if len(g.levels) == 0 {
		return
	}
	g.levelIdx = (g.levelIdx + 1) % len(g.levels)
	g.sim.RequestLoad(g.ctx, g.src, g.levels[g.levelIdx])
}

func (g *Game) toggleFeed() {
	if g.feed == nil {
		return
	}
	g.showFeed = !g.showFeed
	g.view = fitProjection(sceneBounds(g.scene), g.mapWidth(), g.win.Height)
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusUntil = g.now().Add(statusDuration)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.win.Width, g.win.Height
}

var (
	backgroundColor = color.RGBA{R: 18, G: 20, B: 24, A: 255}
	playerColor     = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	projectileColor = color.RGBA{R: 255, G: 200, B: 60, A: 255}
	hudPanelColor   = color.RGBA{R: 6, G: 10, B: 6, A: 210}
	hudEdgeColor    = color.RGBA{R: 60, G: 100, B: 60, A: 180}
	hudTextColor    = color.RGBA{R: 200, G: 230, B: 200, A: 255}
	chargeColor     = color.RGBA{R: 255, G: 120, B: 40, A: 255}
)

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.drawScene(screen)
	g.drawPlayer(screen)
	g.drawHUD(screen)
	if g.feed != nil && g.showFeed {
		g.feed.draw(screen, g.win.Width-feedPanelWidth, g.win.Height)
	}
}

func (g *Game) drawScene(screen *ebiten.Image) {
	eyeY := g.frame.Camera.Position.Y()
	// Floors first so boxes sit on top of them.
	for pass := 0; pass < 2; pass++ {
		for _, r := range g.scene.Renderables {
			isFloor := r.Role == game.RoleFloor
			if (pass == 0) != isFloor || g.removed[r.ID] {
				continue
			}
			hx, hz := footprint(r)
			x, y := g.view.toScreen(r.Position.Sub(mgl64.Vec3{hx, 0, hz}))
			w, h := g.view.length(2*hx), g.view.length(2*hz)
			c := rgb(r.Color)
			if !isFloor && r.Position.Y()+r.Size.Y()/2 < eyeY {
				c = shade(c, 0.7)
			}
			vector.FillRect(screen, x, y, w, h, c, false)
			if r.Role == game.RoleEnemy {
				vector.StrokeRect(screen, x-2, y-2, w+4, h+4, 1.5, color.RGBA{R: 255, G: 60, B: 60, A: 255}, false)
			}
		}
	}
	for _, p := range g.frame.Projectiles {
		x, y := g.view.toScreen(p.Position)
		vector.FillCircle(screen, x, y, 2.5, projectileColor, true)
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image) {
	cam := g.frame.Camera
	x, y := g.view.toScreen(cam.Position)
	vector.FillCircle(screen, x, y, 4, playerColor, true)

	// Facing ray, shortened as the view pitches away from horizontal.
	reach := 30 * math.Cos(cam.Pitch)
	fx := x + float32(-math.Sin(cam.Yaw)*reach)
	fy := y + float32(-math.Cos(cam.Yaw)*reach)
	vector.StrokeLine(screen, x, y, fx, fy, 1.5, playerColor, true)
}

// hudGlyph is the fixed-width bitmap font used for every on-screen label.
var (
	hudGlyph = basicfont.Face7x13
	hudFace  = text.NewGoXFace(hudGlyph)
)

// drawText draws s with its baseline at y.
func drawText(dst *ebiten.Image, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y-hudGlyph.Ascent))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, hudFace, op)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := g.hudLines()

	const lineH = 15
	const padX, padY = 6, 4
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*hudGlyph.Advance + padX*2)
	boxH := float32(len(lines)*lineH + padY*2 + 10)
	bx, by := float32(8), float32(8)

	vector.FillRect(screen, bx, by, boxW, boxH, hudPanelColor, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1, hudEdgeColor, false)
	for i, line := range lines {
		drawText(screen, line, int(bx)+padX, int(by)+padY+(i+1)*lineH-3, hudTextColor)
	}

	// Charge bar along the panel's bottom edge.
	barY := by + boxH - 8
	vector.StrokeRect(screen, bx+padX, barY, boxW-2*padX, 4, 1, hudEdgeColor, false)
	if c := g.frame.Charge; c > 0 {
		vector.FillRect(screen, bx+padX, barY, (boxW-2*padX)*float32(c), 4, chargeColor, false)
	}
}

// hudLines returns the HUD text for the current state.
func (g *Game) hudLines() []string {
	name := g.scene.Name
	if name == "" {
		name = "-"
	}
	lines := []string{fmt.Sprintf("level: %s  tick %d", name, g.frame.Tick)}
	if g.sim == nil {
		return lines
	}
	if pending, ok := g.sim.Loading(); ok {
		lines = append(lines, fmt.Sprintf("loading %s...", pending))
	}
	if w := g.sim.World(); w != nil {
		enemy := "none"
		if _, ok := w.Enemy(); ok {
			enemy = "alive"
			if !w.EnemyAlive() {
				enemy = "down"
			}
		}
		st := g.sim.Stats()
		lines = append(lines, fmt.Sprintf("enemy: %s  shots %d  kills %d", enemy, st.Shots, st.Kills))
	}
	if g.captured {
		lines = append(lines, "WASD move  space jump  hold click to charge  Esc release")
	} else {
		lines = append(lines, "click to capture the mouse")
	}
	lines = append(lines, "R respawn  L reload  N next level  H events  F2 copy report")
	if g.status != "" && g.now().Before(g.statusUntil) {
		lines = append(lines, g.status)
	}
	return lines
}
