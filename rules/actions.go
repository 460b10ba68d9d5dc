package rules

import (
	"errors"
	"log/slog"

	"github.com/nstehr/ironbot/geometry"
	"github.com/nstehr/ironbot/model"
	"github.com/nstehr/ironbot/navigation"
)

// ErrNoLegalMove means the agent is boxed in. The board is required to be
// connected, so the session cannot continue.
var ErrNoLegalMove = errors.New("no legal move from current position")

func ActionConnect(env TurnEnv) (*model.Action, error) {
	cands := env.ConnectCandidates()
	if len(cands) == 0 {
		return nil, nil
	}
	for _, c := range cands {
		if env.ClosesTriangle(env.Turn.Position, c) {
			slog.Debug("connect closes triangle", "from", env.Turn.Position, "to", c)
			a := model.Connect(c)
			return &a, nil
		}
	}
	c := cands[env.Rand.Intn(len(cands))]
	slog.Debug("connect random", "from", env.Turn.Position, "to", c, "candidates", len(cands))
	a := model.Connect(c)
	return &a, nil
}

// ActionAttack spends all available energy on the lighthouse underfoot.
func ActionAttack(env TurnEnv) (*model.Action, error) {
	slog.Debug("attack", "at", env.Turn.Position, "energy", env.Turn.Energy)
	a := model.Attack(env.Turn.Energy)
	return &a, nil
}

// ActionHarvest steps onto the richest visible neighbor.
func ActionHarvest(env TurnEnv) (*model.Action, error) {
	moves := env.LegalMoves()
	if len(moves) == 0 {
		return nil, nil
	}
	var best model.Direction
	bestScore := 0.0
	for i, d := range moves {
		score := float64(env.Turn.ViewAt(d)) + env.jitter()
		if i == 0 || score > bestScore {
			best, bestScore = d, score
		}
	}
	slog.Debug("move to harvest", "move", best, "gain", env.Turn.ViewAt(best))
	a := model.Move(best)
	return &a, nil
}

// ActionSeekScored walks toward the best-scoring lighthouse.
func ActionSeekScored(env TurnEnv) (*model.Action, error) {
	target, ok := ScoredTarget(env)
	return seek(env, target, ok)
}

// ActionSeekNearest walks toward the closest lighthouse we do not own.
func ActionSeekNearest(env TurnEnv) (*model.Action, error) {
	target, ok := NearestTarget(env)
	return seek(env, target, ok)
}

func seek(env TurnEnv, target model.Cell, haveTarget bool) (*model.Action, error) {
	moves := env.LegalMoves()
	if len(moves) == 0 {
		return nil, ErrNoLegalMove
	}

	var dm *navigation.DistanceMap
	if haveTarget {
		dm, haveTarget = env.World.Maps.Map(target)
	}
	if !haveTarget {
		d := moves[env.Rand.Intn(len(moves))]
		slog.Warn("no lighthouse to seek, moving at random", "move", d)
		a := model.Move(d)
		return &a, nil
	}

	d, _ := navigation.StepToward(dm, env.Turn.Position, moves, env.jitter)
	slog.Debug("move to lighthouse", "target", target, "move", d)
	a := model.Move(d)
	return &a, nil
}

// TargetScore is one lighthouse's seek score for the current turn.
type TargetScore struct {
	Pos   model.Cell
	Score float64
}

// ScoreLighthouses rates every reachable lighthouse. The scores are
// turn-scoped and never stored.
func ScoreLighthouses(env TurnEnv) []TargetScore {
	reachable := env.State.Reachable()
	out := make([]TargetScore, 0, len(reachable))
	for _, lh := range reachable {
		pts := env.Rand.Float64() - float64(lh.CurDist)
		if env.State.Owns(lh) {
			if !lh.HaveKey {
				pts += 1000
			}
			if lh.Energy < 20 {
				pts += 100
			}
		} else {
			pc := env.PossibleConnections(lh.Pos)
			pts += 100 * float64(len(pc))
			pts += 1e6 * float64(triangleArea(env, lh.Pos, pc))
			if lh.Energy < env.Turn.Energy {
				pts += 100
			}
		}
		out = append(out, TargetScore{Pos: lh.Pos, Score: pts})
	}
	return out
}

// triangleArea sums the bounding-box area of every triangle lh would close
// by linking to two of its candidates that are already linked to each other.
func triangleArea(env TurnEnv, lh model.Cell, pc []model.Cell) int {
	area := 0
	for i := 0; i < len(pc); i++ {
		for j := i + 1; j < len(pc); j++ {
			if env.State.Connected(pc[i], pc[j]) {
				area += geometry.BoundingBoxArea(lh, pc[i], pc[j])
			}
		}
	}
	return area
}

// ScoredTarget returns the highest-scoring reachable lighthouse, or a
// random known one when nothing is reachable.
func ScoredTarget(env TurnEnv) (model.Cell, bool) {
	scores := ScoreLighthouses(env)
	if len(scores) == 0 {
		return randomLighthouse(env)
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Pos, true
}

// NearestTarget returns the closest reachable lighthouse we do not own,
// or a random known one when we own them all.
func NearestTarget(env TurnEnv) (model.Cell, bool) {
	var best model.Cell
	bestDist := 0.0
	found := false
	for _, lh := range env.State.Reachable() {
		if env.State.Owns(lh) {
			continue
		}
		d := float64(lh.CurDist) - env.jitter()
		if !found || d < bestDist {
			best, bestDist, found = lh.Pos, d, true
		}
	}
	if !found {
		return randomLighthouse(env)
	}
	return best, true
}

func randomLighthouse(env TurnEnv) (model.Cell, bool) {
	all := env.World.Maps.Lighthouses()
	if len(all) == 0 {
		return model.Cell{}, false
	}
	return all[env.Rand.Intn(len(all))], true
}
