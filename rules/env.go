package rules

import (
	"math/rand"

	"github.com/nstehr/ironbot/geometry"
	"github.com/nstehr/ironbot/model"
	"github.com/nstehr/ironbot/navigation"
)

// World is the session-scoped context shared by every turn. Nothing in it
// changes after the handshake.
type World struct {
	Player int
	Grid   *model.GridMap
	Maps   *navigation.Maps
}

// TurnEnv wraps one turn's state and exposes helper methods callable from
// expr conditions. It lives for a single Decide call.
type TurnEnv struct {
	World   World
	Profile Profile
	Turn    model.Turn
	State   *model.LighthouseState
	Rand    *rand.Rand
}

// Energy is the agent's current energy.
func (e TurnEnv) Energy() int {
	return e.Turn.Energy
}

// OnLighthouse reports whether the agent stands on a known lighthouse.
func (e TurnEnv) OnLighthouse() bool {
	_, ok := e.State.Current()
	return ok
}

// OwnsCurrent reports whether the lighthouse under the agent is ours.
func (e TurnEnv) OwnsCurrent() bool {
	l, ok := e.State.Current()
	return ok && e.State.Owns(l)
}

// ConnectCandidates lists the lighthouses we could connect to from here.
func (e TurnEnv) ConnectCandidates() []model.Cell {
	return e.PossibleConnections(e.Turn.Position)
}

// PossibleConnections lists every reachable destination a connection from
// orig could legally reach: ours, holding its key, not yet linked to orig,
// not blocked by a third lighthouse and not crossing a formed link.
func (e TurnEnv) PossibleConnections(orig model.Cell) []model.Cell {
	var out []model.Cell
	for _, dest := range e.State.Reachable() {
		if dest.Pos == orig || !dest.HaveKey || !e.State.Owns(dest) {
			continue
		}
		if e.State.Connected(orig, dest.Pos) {
			continue
		}
		if geometry.BlocksConnection(orig, dest.Pos, e.State.Positions()) {
			continue
		}
		if geometry.CrossesExistingConnection(e.State.Segments(), orig, dest.Pos) {
			continue
		}
		out = append(out, dest.Pos)
	}
	return out
}

// ClosesTriangle reports whether linking a and b would complete a triangle
// with some lighthouse already connected to both.
func (e TurnEnv) ClosesTriangle(a, b model.Cell) bool {
	for _, l := range e.State.All() {
		if l.Pos == a || l.Pos == b {
			continue
		}
		if e.State.Connected(l.Pos, a) && e.State.Connected(l.Pos, b) {
			return true
		}
	}
	return false
}

// LegalMoves returns the passable neighbor steps from the agent.
func (e TurnEnv) LegalMoves() []model.Direction {
	return e.World.Grid.LegalMoves(e.Turn.Position)
}

// CanMove reports whether at least one neighbor is passable.
func (e TurnEnv) CanMove() bool {
	return len(e.LegalMoves()) > 0
}

// HarvestGain is the most energy visible on any passable neighbor.
func (e TurnEnv) HarvestGain() int {
	best := 0
	for i, d := range e.LegalMoves() {
		v := e.Turn.ViewAt(d)
		if i == 0 || v > best {
			best = v
		}
	}
	return best
}

// jitter is the tie-breaking perturbation: always within [0.1, 0.5) so it
// never outweighs a one-unit difference.
func (e TurnEnv) jitter() float64 {
	return 0.1 + 0.4*e.Rand.Float64()
}
