package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Arena/internal/config"
	"github.com/Garsondee/Arena/internal/game"
	"github.com/Garsondee/Arena/internal/host"
	"github.com/Garsondee/Arena/internal/level"
)

func main() {
	var cfgPath string
	var levelName string
	var levelDir string
	var levelURL string
	var stepMode string
	var rotation string

	flag.StringVar(&cfgPath, "config", "arena.toml", "path to a TOML config file (optional)")
	flag.StringVar(&levelName, "level", "", "level to start in (overrides config)")
	flag.StringVar(&levelDir, "level-dir", "", "directory searched for <name>.json levels (overrides config)")
	flag.StringVar(&levelURL, "level-url", "", "base URL searched for <name>.json levels (overrides config)")
	flag.StringVar(&stepMode, "step", "", "step mode: fixed or measured (overrides config)")
	flag.StringVar(&rotation, "levels", "level1,courtyard", "comma-separated level rotation for the N key")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if levelName != "" {
		cfg.Level.Name = levelName
	}
	if levelDir != "" {
		cfg.Level.Dir = levelDir
	}
	if levelURL != "" {
		cfg.Level.URL = levelURL
	}
	if stepMode != "" {
		cfg.Clock.Mode = stepMode
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	src := level.NewSource(fetchers(cfg.Level))
	levels := levelRotation(cfg.Level.Name, rotation)

	ctx := context.Background()
	events := game.NewSimLog(false)
	g := host.New(src, cfg.Window,
		host.WithLogger(logger),
		host.WithLevels(levels...),
		host.WithEvents(events),
		host.WithContext(ctx))
	sim := game.New(
		game.WithTuning(cfg.Tuning()),
		game.WithClock(cfg.NewClock()),
		game.WithSink(g),
		game.WithLogger(logger),
		game.WithSimLog(events),
	)
	g.Attach(sim)

	slog.Info("starting arena", "level", levels[0], "step", cfg.Clock.Mode, "level_dir", cfg.Level.Dir, "level_url", cfg.Level.URL)

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

// fetchers searches the level directory, then the level server, then the
// levels built into the binary.
func fetchers(cfg config.Level) level.Chain {
	var chain level.Chain
	if cfg.Dir != "" {
		chain = append(chain, &level.FSFetcher{FS: os.DirFS(cfg.Dir), Dir: "."})
	}
	if cfg.URL != "" {
		chain = append(chain, &level.HTTPFetcher{BaseURL: cfg.URL})
	}
	return append(chain, level.Builtin())
}

// levelRotation puts start first, followed by the rest of the comma list
// without duplicates.
func levelRotation(start, list string) []string {
	out := []string{start}
	seen := map[string]bool{start: true}
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
