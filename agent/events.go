package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nstehr/ironbot/model"
)

// EventKind identifies a change between two consecutive turns worth
// surfacing in the session log.
type EventKind string

const (
	EventLighthouseCaptured EventKind = "lighthouse_captured"
	EventLighthouseLost     EventKind = "lighthouse_lost"
	EventKeyAcquired        EventKind = "key_acquired"
	EventLinkFormed         EventKind = "link_formed"
	EventLinkBroken         EventKind = "link_broken"
	EventScored             EventKind = "scored"
)

// Event is one detected change. Detail is human-readable.
type Event struct {
	Kind   EventKind
	Turn   int
	Detail string
}

// snapshot captures the diffable fields of a turn.
type snapshot struct {
	owned map[model.Cell]bool
	keys  map[model.Cell]bool
	links map[model.Segment]bool
	score int
}

func takeSnapshot(player int, t model.Turn) snapshot {
	s := snapshot{
		owned: make(map[model.Cell]bool),
		keys:  make(map[model.Cell]bool),
		links: make(map[model.Segment]bool),
		score: t.Score,
	}
	for _, lh := range t.Lighthouses {
		if lh.Owner == player {
			s.owned[lh.Pos] = true
		}
		if lh.HaveKey {
			s.keys[lh.Pos] = true
		}
		for _, c := range lh.Connections {
			s.links[canonical(lh.Pos, c)] = true
		}
	}
	return s
}

// canonical orders a segment's endpoints so A-B and B-A compare equal.
func canonical(a, b model.Cell) model.Segment {
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		a, b = b, a
	}
	return model.Segment{A: a, B: b}
}

// detectEvents diffs cur against prev. A nil prev yields no events.
func detectEvents(turn int, prev *snapshot, cur snapshot) []Event {
	if prev == nil {
		return nil
	}
	var events []Event
	add := func(kind EventKind, format string, args ...any) {
		events = append(events, Event{Kind: kind, Turn: turn, Detail: fmt.Sprintf(format, args...)})
	}

	for _, c := range sortedCells(cur.owned) {
		if !prev.owned[c] {
			add(EventLighthouseCaptured, "captured lighthouse at %d,%d", c.X, c.Y)
		}
	}
	for _, c := range sortedCells(prev.owned) {
		if !cur.owned[c] {
			add(EventLighthouseLost, "lost lighthouse at %d,%d", c.X, c.Y)
		}
	}
	for _, c := range sortedCells(cur.keys) {
		if !prev.keys[c] {
			add(EventKeyAcquired, "holding key for %d,%d", c.X, c.Y)
		}
	}
	for _, s := range sortedSegments(cur.links) {
		if !prev.links[s] {
			add(EventLinkFormed, "link %d,%d-%d,%d formed", s.A.X, s.A.Y, s.B.X, s.B.Y)
		}
	}
	for _, s := range sortedSegments(prev.links) {
		if !cur.links[s] {
			add(EventLinkBroken, "link %d,%d-%d,%d broken", s.A.X, s.A.Y, s.B.X, s.B.Y)
		}
	}
	if cur.score > prev.score {
		add(EventScored, "score %d -> %d", prev.score, cur.score)
	}
	return events
}

func less(a, b model.Cell) bool {
	return a.X < b.X || (a.X == b.X && a.Y < b.Y)
}

func sortedCells(set map[model.Cell]bool) []model.Cell {
	out := make([]model.Cell, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func sortedSegments(set map[model.Segment]bool) []model.Segment {
	out := make([]model.Segment, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return segmentLess(out[i], out[j]) })
	return out
}

func segmentLess(a, b model.Segment) bool {
	if a.A != b.A {
		return less(a.A, b.A)
	}
	return less(a.B, b.B)
}

// formatEvents renders events on a single log line.
func formatEvents(events []Event) string {
	if len(events) == 0 {
		return "none"
	}
	var b strings.Builder
	for i, e := range events {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "[%s] %s", e.Kind, e.Detail)
	}
	return b.String()
}
