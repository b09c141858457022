package host

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Arena/internal/game"
)

const (
	feedPanelWidth = 320
	feedMaxEntries = 60
	feedLineHeight = 14
)

// feedEntry is a single line in the event feed.
type feedEntry struct {
	Tick     int
	Category string
	Message  string
}

// eventFeed is a ring buffer of recent gameplay events rendered on-screen.
type eventFeed struct {
	entries []feedEntry
	head    int
	count   int

	source   *game.SimLog
	consumed int
}

func newEventFeed(source *game.SimLog) *eventFeed {
	return &eventFeed{
		entries: make([]feedEntry, feedMaxEntries),
		source:  source,
	}
}

// add appends an entry, overwriting the oldest once full.
func (f *eventFeed) add(e feedEntry) {
	f.entries[f.head] = e
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// pull copies SimLog entries recorded since the last call. Verbose
// per-tick samples are skipped.
func (f *eventFeed) pull() {
	if f.source == nil {
		return
	}
	all := f.source.Entries()
	for _, e := range all[f.consumed:] {
		if e.Key == "position" || e.Key == "blocked" {
			continue
		}
		msg := e.Key
		if e.Value != "" {
			msg += " " + e.Value
		}
		f.add(feedEntry{Tick: e.Tick, Category: e.Category, Message: msg})
	}
	f.consumed = len(all)
}

// recent returns entries in chronological order (oldest first).
func (f *eventFeed) recent() []feedEntry {
	result := make([]feedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = f.entries[idx]
	}
	return result
}

func categoryColor(category string) color.RGBA {
	switch category {
	case "hit":
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	case "fire":
		return color.RGBA{R: 230, G: 160, B: 50, A: 255}
	case "level":
		return color.RGBA{R: 70, G: 110, B: 210, A: 255}
	case "projectile":
		return color.RGBA{R: 150, G: 150, B: 90, A: 255}
	default:
		return color.RGBA{R: 120, G: 160, B: 120, A: 255}
	}
}

// draw renders the feed panel at panelX, newest entry at the bottom.
func (f *eventFeed) draw(screen *ebiten.Image, panelX, panelH int) {
	px := float32(panelX)

	vector.FillRect(screen, px, 0, feedPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 235}, false)
	vector.StrokeLine(screen, px, 0, px, float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)
	vector.FillRect(screen, px, 0, feedPanelWidth, 18, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	drawText(screen, "EVENTS", panelX+8, 13, hudTextColor)

	entries := f.recent()
	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	const highlighted = 3

	y := 22
	for i, e := range entries {
		if i >= len(entries)-highlighted {
			vector.FillRect(screen, px+2, float32(y), feedPanelWidth-4, feedLineHeight, color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(screen, px+5, float32(y+4), 3, 6, categoryColor(e.Category), false)
		line := fmt.Sprintf("%5d %s", e.Tick, e.Message)
		if limit := (feedPanelWidth - 16) / hudGlyph.Advance; len(line) > limit {
			line = line[:limit]
		}
		drawText(screen, line, panelX+12, y+11, hudTextColor)
		y += feedLineHeight
	}
}
