// Package navigation precomputes hop distances from every lighthouse so
// movement each turn is a table lookup.
package navigation

import (
	"log/slog"
	"time"

	"github.com/nstehr/ironbot/model"
)

// DistanceMap holds the 8-connected hop count from one lighthouse to every
// cell, row-major. Cells the flood never reached hold model.Unreachable.
type DistanceMap struct {
	origin model.Cell
	width  int
	height int
	dist   []int
}

// At returns the distance at (x, y); out-of-bounds reads as unreachable.
func (m *DistanceMap) At(x, y int) int {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return model.Unreachable
	}
	return m.dist[y*m.width+x]
}

// Origin is the lighthouse this map measures from.
func (m *DistanceMap) Origin() model.Cell { return m.origin }

// Build floods outward from lh in waves. Every cell discovered in a wave
// gets that wave's distance before any of them is expanded, and the next
// frontier is deduplicated since two diagonal neighbors can find the same
// cell. The origin is seeded even when its own cell is impassable.
func Build(lh model.Cell, grid *model.GridMap) *DistanceMap {
	w, h := grid.Width(), grid.Height()
	m := &DistanceMap{origin: lh, width: w, height: h, dist: make([]int, w*h)}
	for i := range m.dist {
		m.dist[i] = model.Unreachable
	}

	assigned := make([]bool, w*h)
	frontier := []model.Cell{lh}
	if grid.InBounds(lh.X, lh.Y) {
		assigned[lh.Y*w+lh.X] = true
	}

	for dist := 0; len(frontier) > 0; dist++ {
		for _, c := range frontier {
			if grid.InBounds(c.X, c.Y) {
				m.dist[c.Y*w+c.X] = dist
			}
		}

		var next []model.Cell
		for _, c := range frontier {
			for _, d := range model.Directions {
				n := c.Add(d)
				if !grid.Passable(n.X, n.Y) {
					continue
				}
				idx := n.Y*w + n.X
				if assigned[idx] {
					continue
				}
				assigned[idx] = true
				next = append(next, n)
			}
		}
		frontier = next
	}
	return m
}

// Maps is the session cache: one DistanceMap per lighthouse, built once
// and read-only afterwards.
type Maps struct {
	order []model.Cell
	maps  map[model.Cell]*DistanceMap
}

// BuildAll floods from every lighthouse. Duplicate positions are built once.
func BuildAll(grid *model.GridMap, lighthouses []model.Cell) *Maps {
	start := time.Now()
	m := &Maps{maps: make(map[model.Cell]*DistanceMap, len(lighthouses))}
	for _, lh := range lighthouses {
		if _, ok := m.maps[lh]; ok {
			continue
		}
		m.order = append(m.order, lh)
		m.maps[lh] = Build(lh, grid)
	}
	slog.Info("distance maps built",
		"lighthouses", len(m.order),
		"width", grid.Width(),
		"height", grid.Height(),
		"elapsed", time.Since(start),
	)
	return m
}

// Distance implements model.DistanceLookup.
func (m *Maps) Distance(lh, from model.Cell) int {
	dm, ok := m.maps[lh]
	if !ok {
		return model.Unreachable
	}
	return dm.At(from.X, from.Y)
}

// Map returns the distance map for lh.
func (m *Maps) Map(lh model.Cell) (*DistanceMap, bool) {
	dm, ok := m.maps[lh]
	return dm, ok
}

// Lighthouses returns the lighthouse positions in handshake order.
func (m *Maps) Lighthouses() []model.Cell {
	return m.order
}

// Len is the number of distinct lighthouses.
func (m *Maps) Len() int { return len(m.order) }

// StepToward picks, among moves, the step that lands on the smallest
// distance in dm. jitter, when non-nil, is subtracted from each candidate
// so equal distances are broken at random; it must stay below 1 so it
// never overrides a real difference. ok is false when moves is empty.
func StepToward(dm *DistanceMap, from model.Cell, moves []model.Direction, jitter func() float64) (best model.Direction, ok bool) {
	bestScore := 0.0
	for _, d := range moves {
		n := from.Add(d)
		score := float64(dm.At(n.X, n.Y))
		if jitter != nil {
			score -= jitter()
		}
		if !ok || score < bestScore {
			best, bestScore, ok = d, score, true
		}
	}
	return best, ok
}
