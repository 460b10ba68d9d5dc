// Package geometry holds the integer predicates used to validate
// lighthouse connections. Everything is exact: the board is discrete and
// no value here ever goes through floating point.
package geometry

import "github.com/nstehr/ironbot/model"

// Orientation returns twice the signed area of triangle a, b, c:
// the cross product of (b-a) and (c-a). Positive is counter-clockwise,
// zero means collinear.
func Orientation(a, b, c model.Cell) int {
	return (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
}

// Collinear reports whether a, b and c lie on one line.
func Collinear(a, b, c model.Cell) bool {
	return Orientation(a, b, c) == 0
}

// SegmentsIntersect is true only for a proper crossing: each segment's
// endpoints lie strictly on opposite sides of the other. Touching or
// shared endpoints do not count.
func SegmentsIntersect(s1, s2 model.Segment) bool {
	return Orientation(s2.A, s2.B, s1.A)*Orientation(s2.A, s2.B, s1.B) < 0 &&
		Orientation(s1.A, s1.B, s2.A)*Orientation(s1.A, s1.B, s2.B) < 0
}

// BlocksConnection reports whether some lighthouse other than orig and
// dest sits on the segment between them.
func BlocksConnection(orig, dest model.Cell, lighthouses []model.Cell) bool {
	x0, x1 := minMax(orig.X, dest.X)
	y0, y1 := minMax(orig.Y, dest.Y)
	for _, lh := range lighthouses {
		if lh == orig || lh == dest {
			continue
		}
		if lh.X < x0 || lh.X > x1 || lh.Y < y0 || lh.Y > y1 {
			continue
		}
		if Collinear(orig, dest, lh) {
			return true
		}
	}
	return false
}

// CrossesExistingConnection reports whether orig-dest properly crosses any
// formed connection. A lighthouse lying on the candidate's interior is
// not a crossing here; BlocksConnection covers that case.
func CrossesExistingConnection(existing []model.Segment, orig, dest model.Cell) bool {
	candidate := model.Segment{A: orig, B: dest}
	for _, seg := range existing {
		if SegmentsIntersect(seg, candidate) {
			return true
		}
	}
	return false
}

// BoundingBoxArea is the area of the axis-aligned box around three cells.
func BoundingBoxArea(a, b, c model.Cell) int {
	minX, maxX := minMax(a.X, b.X)
	minX, maxX = min(minX, c.X), max(maxX, c.X)
	minY, maxY := minMax(a.Y, b.Y)
	minY, maxY = min(minY, c.Y), max(maxY, c.Y)
	return (maxX - minX) * (maxY - minY)
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}
