package game

import "github.com/go-gl/mathgl/mgl64"

// HitOutcome classifies a hit-scan.
type HitOutcome int

const (
	HitNothing  HitOutcome = iota // the aim ray struck nothing in range
	HitOccluded                   // something other than the enemy was nearer
	HitKill                       // the enemy was nearest and alive
)

func (h HitOutcome) String() string {
	switch h {
	case HitNothing:
		return "nothing"
	case HitOccluded:
		return "occluded"
	case HitKill:
		return "kill"
	default:
		return "unknown"
	}
}

// HitResult is the outcome of one hit-scan.
type HitResult struct {
	Outcome HitOutcome
	Hit     SceneHit
}

// ResolveHitScan casts the aim ray against every live object in w. If the
// nearest is the enemy it is killed and removed from w. A dead enemy is no
// longer in the scene, so it can never be killed twice.
func ResolveHitScan(w *World, origin, aim mgl64.Vec3, maxDistance float64) HitResult {
	hit, ok := w.CastScene(origin, aim, maxDistance)
	if !ok {
		return HitResult{Outcome: HitNothing}
	}
	if hit.Role != RoleEnemy || !w.killEnemy() {
		return HitResult{Outcome: HitOccluded, Hit: hit}
	}
	return HitResult{Outcome: HitKill, Hit: hit}
}
