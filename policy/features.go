// Package policy adapts turn snapshots to a fixed-width numeric encoding
// and a fixed action menu so a learned network can play.
package policy

import (
	"github.com/nstehr/ironbot/model"
	"github.com/nstehr/ironbot/navigation"
)

// ViewSide is the side of the square view the server sends each turn.
const ViewSide = 7

// lighthouseFeatures is the number of values encoded per lighthouse.
const lighthouseFeatures = 5

// Layout pins the feature and menu ordering for a session. Lighthouses
// keep the handshake order so index i means the same lighthouse every turn.
type Layout struct {
	Player int
	Grid   *model.GridMap
	Maps   *navigation.Maps
}

// NewLayout builds the session layout from the handshake data.
func NewLayout(player int, grid *model.GridMap, maps *navigation.Maps) Layout {
	return Layout{Player: player, Grid: grid, Maps: maps}
}

// Lighthouses returns the lighthouse positions in handshake order.
func (l Layout) Lighthouses() []model.Cell {
	return l.Maps.Lighthouses()
}

// FeatureLen is the encoding width for a view of side viewSide and n
// lighthouses.
func FeatureLen(viewSide, n int) int {
	return viewSide*viewSide + 1 + lighthouseFeatures*n
}

// FeatureLen is the encoding width for this layout.
func (l Layout) FeatureLen() int {
	return FeatureLen(ViewSide, l.Maps.Len())
}

// Features encodes a turn: the view row by row, the agent's energy, then
// [energy, have_key, owned, connections, distance] per lighthouse. View
// cells outside the received grid and lighthouses absent from the
// snapshot are encoded as zero.
func Features(turn model.Turn, layout Layout) []float64 {
	out := make([]float64, 0, layout.FeatureLen())
	for y := 0; y < ViewSide; y++ {
		for x := 0; x < ViewSide; x++ {
			v := 0
			if y < len(turn.View) && x < len(turn.View[y]) {
				v = turn.View[y][x]
			}
			out = append(out, float64(v))
		}
	}
	out = append(out, float64(turn.Energy))

	byPos := make(map[model.Cell]model.Lighthouse, len(turn.Lighthouses))
	for _, lh := range turn.Lighthouses {
		byPos[lh.Pos] = lh
	}
	for _, pos := range layout.Lighthouses() {
		lh, ok := byPos[pos]
		if !ok {
			out = append(out, 0, 0, 0, 0, 0)
			continue
		}
		out = append(out,
			float64(lh.Energy),
			boolFeature(lh.HaveKey),
			boolFeature(lh.Owner == layout.Player),
			float64(len(lh.Connections)),
			float64(layout.Maps.Distance(pos, turn.Position)),
		)
	}
	return out
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
