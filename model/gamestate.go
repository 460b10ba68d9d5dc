package model

// NoOwner marks a lighthouse nobody controls.
const NoOwner = -1

// Unreachable is the distance-map sentinel for cells a lighthouse cannot reach.
const Unreachable = 999999

// Lighthouse is one entry of the per-turn lighthouse list. Identity is Pos.
type Lighthouse struct {
	Pos         Cell
	Owner       int
	Energy      int
	HaveKey     bool
	Connections []Cell
	CurDist     int // hops from the agent this turn; set by NewLighthouseState
}

// Lists reports whether c appears in this lighthouse's own connection list.
func (l *Lighthouse) Lists(c Cell) bool {
	for _, p := range l.Connections {
		if p == c {
			return true
		}
	}
	return false
}

// Turn is a server snapshot converted to domain types.
type Turn struct {
	Position    Cell
	Score       int
	Energy      int
	View        [][]int
	Lighthouses []Lighthouse
}

// ViewAt returns the visible energy one step d away from the agent.
// The view is centered on the agent; offsets outside it read as 0.
func (t Turn) ViewAt(d Direction) int {
	if len(t.View) == 0 {
		return 0
	}
	cy := len(t.View) / 2
	cx := len(t.View[0]) / 2
	y, x := cy+d.DY, cx+d.DX
	if y < 0 || y >= len(t.View) || x < 0 || x >= len(t.View[y]) {
		return 0
	}
	return t.View[y][x]
}

// Segment is a formed connection between two lighthouses.
type Segment struct {
	A Cell
	B Cell
}

// DistanceLookup answers "how many hops from `from` to lighthouse lh".
// Implementations return Unreachable for unknown lighthouses.
type DistanceLookup interface {
	Distance(lh, from Cell) int
}

// LighthouseState is the turn-scoped view of every lighthouse. It is
// rebuilt from scratch each turn and owns copies of all server data, so
// nothing in it aliases a previous turn.
type LighthouseState struct {
	Player   int
	Position Cell
	Energy   int

	all       []*Lighthouse
	allByPos  map[Cell]*Lighthouse
	positions []Cell
	reachable []*Lighthouse
	byPos     map[Cell]*Lighthouse
	segments  []Segment
}

// NewLighthouseState annotates every lighthouse with its distance from the
// agent and drops the unreachable ones from the candidate set.
func NewLighthouseState(player int, turn Turn, dist DistanceLookup) *LighthouseState {
	s := &LighthouseState{
		Player:   player,
		Position: turn.Position,
		Energy:   turn.Energy,
		allByPos: make(map[Cell]*Lighthouse, len(turn.Lighthouses)),
		byPos:    make(map[Cell]*Lighthouse, len(turn.Lighthouses)),
	}
	seen := make(map[Segment]bool)
	for _, src := range turn.Lighthouses {
		lh := src
		lh.Connections = append([]Cell(nil), src.Connections...)
		lh.CurDist = dist.Distance(lh.Pos, turn.Position)
		l := &lh

		s.all = append(s.all, l)
		s.allByPos[l.Pos] = l
		s.positions = append(s.positions, l.Pos)
		if l.CurDist < Unreachable {
			s.reachable = append(s.reachable, l)
			s.byPos[l.Pos] = l
		}

		for _, c := range l.Connections {
			seg := Segment{A: l.Pos, B: c}
			rev := Segment{A: c, B: l.Pos}
			if seen[seg] || seen[rev] {
				continue
			}
			seen[seg] = true
			s.segments = append(s.segments, seg)
		}
	}
	return s
}

// Reachable returns the candidate lighthouses in server order.
func (s *LighthouseState) Reachable() []*Lighthouse {
	return s.reachable
}

// Get looks up a reachable lighthouse.
func (s *LighthouseState) Get(c Cell) (*Lighthouse, bool) {
	l, ok := s.byPos[c]
	return l, ok
}

// Known looks up any lighthouse in the snapshot, reachable or not.
func (s *LighthouseState) Known(c Cell) (*Lighthouse, bool) {
	l, ok := s.allByPos[c]
	return l, ok
}

// All returns every lighthouse in the snapshot in server order.
func (s *LighthouseState) All() []*Lighthouse {
	return s.all
}

// Positions returns the position of every known lighthouse.
func (s *LighthouseState) Positions() []Cell {
	return s.positions
}

// Segments returns each formed connection once.
func (s *LighthouseState) Segments() []Segment {
	return s.segments
}

// Connected checks both endpoints' lists; the server is not trusted to
// report a connection symmetrically.
func (s *LighthouseState) Connected(a, b Cell) bool {
	if l, ok := s.allByPos[a]; ok && l.Lists(b) {
		return true
	}
	if l, ok := s.allByPos[b]; ok && l.Lists(a) {
		return true
	}
	return false
}

// Owns reports whether the agent's player controls l.
func (s *LighthouseState) Owns(l *Lighthouse) bool {
	return l.Owner == s.Player
}

// Current returns the lighthouse the agent stands on, if any.
func (s *LighthouseState) Current() (*Lighthouse, bool) {
	return s.Known(s.Position)
}
