package game

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// reportTailTicks is how much recent SimLog history a debug report includes.
const reportTailTicks = 120

// DebugReport renders a plain-text snapshot of the simulation suitable for
// pasting into a bug report.
func (s *Simulation) DebugReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Arena debug report ---\n")
	fmt.Fprintf(&b, "tick=%d generation=%d clock=%s\n", s.tick, s.generation, s.clock.Mode)

	if s.world == nil {
		b.WriteString("world: (none installed)\n")
		if name, ok := s.Loading(); ok {
			fmt.Fprintf(&b, "loading: %s\n", name)
		}
		return b.String()
	}

	w := s.world
	fmt.Fprintf(&b, "level=%q walls=%d entities=%d spawn=%s\n",
		w.Name, len(w.Walls()), w.EntityCount(), fmtVec(w.Spawn))
	if e, ok := w.Enemy(); ok {
		fmt.Fprintf(&b, "enemy: alive=%t center=%s half=%s\n",
			e.Alive, fmtVec(e.Collider.Center), fmtVec(e.Collider.HalfExtents))
	} else {
		b.WriteString("enemy: (none)\n")
	}

	p := s.player
	fmt.Fprintf(&b, "player: pos=%s vel=%s yaw=%.3f pitch=%.3f grounded=%t\n",
		fmtVec(p.Position), fmtVec(p.Velocity), p.Yaw, p.Pitch, p.Grounded)
	fmt.Fprintf(&b, "projectiles: %d in flight\n", s.projectiles.Len())

	st := s.stats
	fmt.Fprintf(&b, "stats: shots=%d kills=%d occluded=%d misses=%d jumps=%d despawned=%d\n",
		st.Shots, st.Kills, st.Occluded, st.Misses, st.Jumps, st.Despawned)

	if s.simLog != nil {
		from := s.tick - reportTailTicks + 1
		if from < 0 {
			from = 0
		}
		fmt.Fprintf(&b, "\n== events T=%d..%d ==\n", from, s.tick)
		tail := s.simLog.FormatRange(from, s.tick)
		if tail == "" {
			tail = "(none)\n"
		}
		b.WriteString(tail)
	}
	return b.String()
}

func fmtVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.2f,%.2f,%.2f)", v.X(), v.Y(), v.Z())
}
