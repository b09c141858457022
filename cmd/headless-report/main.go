package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Garsondee/Arena/internal/game"
	"github.com/Garsondee/Arena/internal/level"
)

var scenarios = map[string]func(ts *game.TestSim, run, ticks int, charge time.Duration){
	"patrol": runPatrol,
	"shoot":  runShoot,
	"sweep":  runSweep,
}

type runStats struct {
	runIndex int
	scenario string
	ticks    int

	shots     int
	kills     int
	occluded  int
	misses    int
	jumps     int
	lands     int
	blocked   int
	despawned int

	firstKillTick    int
	firstBlockedTick int
	firstDespawnTick int
	maxLaunchSpeed   float64

	finalPos   mgl64.Vec3
	enemyAlive bool
	blockedBy  map[string]int
}

func main() {
	var runs int
	var ticks int
	var scenario string
	var levelName string
	var levelDir string
	var chargeMS int
	var dumpLog bool

	flag.IntVar(&runs, "runs", 3, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 600, "ticks per run")
	flag.StringVar(&scenario, "scenario", "shoot", "scenario name ("+strings.Join(scenarioNames(), ", ")+")")
	flag.StringVar(&levelName, "level", "level1", "level to run in")
	flag.StringVar(&levelDir, "level-dir", "game_levels", "directory searched before the built-in levels")
	flag.IntVar(&chargeMS, "charge-ms", 1000, "charge held before each shot, in milliseconds")
	flag.BoolVar(&dumpLog, "log", false, "print the full event log of each run")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	run, ok := scenarios[scenario]
	if !ok {
		fmt.Printf("error: unsupported scenario %q (supported: %s)\n", scenario, strings.Join(scenarioNames(), ", "))
		return
	}

	src := level.NewSource(level.Chain{
		&level.FSFetcher{FS: os.DirFS(levelDir), Dir: "."},
		level.Builtin(),
	})
	lvl, err := src.Load(context.Background(), levelName)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Printf("=== Headless Arena Report ===\n")
	fmt.Printf("scenario=%s level=%q runs=%d ticks=%d charge=%dms\n\n", scenario, lvl.Name, runs, ticks, chargeMS)

	charge := time.Duration(chargeMS) * time.Millisecond
	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		ts := game.NewTestSim(game.WithLevel(lvl), game.WithVerbose(true))
		run(ts, i, ticks, charge)
		stats := collect(i+1, scenario, ts)
		all = append(all, stats)
		printRun(stats)
		if dumpLog {
			fmt.Print(nonVerbose(ts.SimLog))
		}
	}

	printAggregate(all)
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for n := range scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// runPatrol walks a square, jumping at each corner. Each run starts facing a
// different quarter turn.
func runPatrol(ts *game.TestSim, run, ticks int, _ time.Duration) {
	leg := max(ticks/4, 1)
	yaw := float64(run) * math.Pi / 2
	for i := 0; i < ticks; i++ {
		if i%leg == 0 {
			ts.Look(yaw+float64(i/leg)*math.Pi/2, 0)
			ts.Jump()
		}
		ts.Hold(game.DirForward)
		ts.Step()
	}
}

// runShoot aims at the enemy and fires charged shots until it goes down.
func runShoot(ts *game.TestSim, run, ticks int, charge time.Duration) {
	// Each run strafes a little further before the first shot.
	ts.Hold(game.DirLeft)
	ts.RunTicks(min(run*10, ticks))
	ts.Hold()

	chargeTicks := max(int(charge/game.DefaultNominalDelta), 1)
	for ts.Sim.Tick() < ticks {
		e, ok := ts.Sim.World().Enemy()
		if !ok || !e.Alive {
			ts.Step()
			continue
		}
		yaw, pitch := aimAt(ts.Sim.Player().Eye(), e.Collider.Center)
		ts.Look(yaw, pitch)
		ts.PressFire()
		ts.RunTicks(chargeTicks)
		ts.ReleaseFire()
		ts.Step()
	}
}

// runSweep stands at the spawn and fires a ring of shots.
func runSweep(ts *game.TestSim, run, ticks int, charge time.Duration) {
	const shots = 24
	interval := max(ticks/shots, 1)
	offset := float64(run) * (2 * math.Pi / shots) / 3
	for i := 0; ts.Sim.Tick() < ticks; i++ {
		if i%interval == 0 {
			n := i / interval
			ts.Look(offset+float64(n)*2*math.Pi/shots, -0.25)
			ts.Fire(charge)
		}
		ts.Step()
	}
}

// aimAt returns the yaw and pitch that look from eye toward target.
func aimAt(eye, target mgl64.Vec3) (yaw, pitch float64) {
	d := target.Sub(eye)
	l := d.Len()
	if l == 0 {
		return 0, 0
	}
	return math.Atan2(-d.X(), -d.Z()), math.Asin(d.Y() / l)
}

func collect(runIndex int, scenario string, ts *game.TestSim) runStats {
	rs := runStats{
		runIndex:         runIndex,
		scenario:         scenario,
		ticks:            ts.Sim.Tick(),
		firstKillTick:    -1,
		firstBlockedTick: -1,
		firstDespawnTick: -1,
		finalPos:         ts.Sim.Player().Position,
		enemyAlive:       ts.Sim.World().EnemyAlive(),
		blockedBy:        map[string]int{},
	}
	for _, e := range ts.SimLog.Entries() {
		switch e.Category + "/" + e.Key {
		case "fire/launch":
			rs.shots++
			rs.maxLaunchSpeed = math.Max(rs.maxLaunchSpeed, e.NumVal)
		case "hit/kill":
			rs.kills++
			if rs.firstKillTick < 0 {
				rs.firstKillTick = e.Tick
			}
		case "hit/occluded":
			rs.occluded++
		case "hit/miss":
			rs.misses++
		case "player/jump":
			rs.jumps++
		case "player/land":
			rs.lands++
		case "player/blocked":
			rs.blocked++
			rs.blockedBy[e.Value]++
			if rs.firstBlockedTick < 0 {
				rs.firstBlockedTick = e.Tick
			}
		case "projectile/despawn":
			rs.despawned++
			if rs.firstDespawnTick < 0 {
				rs.firstDespawnTick = e.Tick
			}
		}
	}
	return rs
}

// nonVerbose formats the log without per-tick position samples.
func nonVerbose(sl *game.SimLog) string {
	var b strings.Builder
	for _, e := range sl.Entries() {
		if e.Key == "position" {
			continue
		}
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (%s) ---\n", rs.runIndex, rs.scenario)
	fmt.Printf("phase_markers: first_kill=%d first_blocked=%d first_despawn=%d\n",
		rs.firstKillTick, rs.firstBlockedTick, rs.firstDespawnTick)
	fmt.Printf("fire: shots=%d kills=%d occluded=%d misses=%d max_speed=%.1f\n",
		rs.shots, rs.kills, rs.occluded, rs.misses, rs.maxLaunchSpeed)
	fmt.Printf("movement: jumps=%d lands=%d blocked=%d [%s] despawned=%d\n",
		rs.jumps, rs.lands, rs.blocked, joinCounts(rs.blockedBy), rs.despawned)
	fmt.Printf("final: pos=(%.2f,%.2f,%.2f) enemy_alive=%t ticks=%d\n\n",
		rs.finalPos.X(), rs.finalPos.Y(), rs.finalPos.Z(), rs.enemyAlive, rs.ticks)
}

func printAggregate(all []runStats) {
	if len(all) == 0 {
		return
	}
	var shots, kills, occluded, misses, blocked, despawned int
	var killTicks []int
	for _, rs := range all {
		shots += rs.shots
		kills += rs.kills
		occluded += rs.occluded
		misses += rs.misses
		blocked += rs.blocked
		despawned += rs.despawned
		if rs.firstKillTick >= 0 {
			killTicks = append(killTicks, rs.firstKillTick)
		}
	}
	n := len(all)
	fmt.Printf("=== Aggregate ===\n")
	fmt.Printf("runs=%d\n", n)
	fmt.Printf("avg_per_run: shots=%.1f kills=%.1f occluded=%.1f misses=%.1f blocked=%.1f despawned=%.1f\n",
		avg(shots, n), avg(kills, n), avg(occluded, n), avg(misses, n), avg(blocked, n), avg(despawned, n))
	fmt.Printf("hit_rate=%s runs_with_kill=%d/%d first_kill_avg=%s\n",
		hitRate(kills, shots), len(killTicks), n, avgTickString(killTicks))
}

func avg(sum int, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func hitRate(kills, shots int) string {
	if shots == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", 100*float64(kills)/float64(shots))
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, " ")
}
