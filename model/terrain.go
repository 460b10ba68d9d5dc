package model

// Cell is a board coordinate. X is the column, Y the row.
type Cell struct {
	X int
	Y int
}

// Add returns the cell reached by moving d from c.
func (c Cell) Add(d Direction) Cell {
	return Cell{X: c.X + d.DX, Y: c.Y + d.DY}
}

// Direction is a single-step king move. DX and DY are in {-1,0,1}, never both zero.
type Direction struct {
	DX int
	DY int
}

// Directions lists the eight neighbor steps in the fixed order every
// component iterates them (column-major, matching the server's move menu).
var Directions = [8]Direction{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// GridMap is the passability grid sent in the handshake. Row-major:
// cells[y][x]. It is never mutated after NewGridMap returns.
type GridMap struct {
	width  int
	height int
	cells  [][]bool
}

// NewGridMap copies rows into an immutable grid. Ragged rows are padded
// with impassable cells up to the widest row.
func NewGridMap(rows [][]bool) *GridMap {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	cells := make([][]bool, len(rows))
	for y, r := range rows {
		cells[y] = make([]bool, width)
		copy(cells[y], r)
	}
	return &GridMap{width: width, height: len(rows), cells: cells}
}

// GridFromInts builds a grid from the wire encoding where non-zero means passable.
func GridFromInts(rows [][]int) *GridMap {
	b := make([][]bool, len(rows))
	for y, r := range rows {
		b[y] = make([]bool, len(r))
		for x, v := range r {
			b[y][x] = v != 0
		}
	}
	return NewGridMap(b)
}

func (g *GridMap) Width() int  { return g.width }
func (g *GridMap) Height() int { return g.height }

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *GridMap) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Passable returns false for out-of-bounds coordinates.
func (g *GridMap) Passable(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.cells[y][x]
}

// LegalMoves returns the directions from c that land on a passable cell,
// in Directions order.
func (g *GridMap) LegalMoves(c Cell) []Direction {
	var out []Direction
	for _, d := range Directions {
		n := c.Add(d)
		if g.Passable(n.X, n.Y) {
			out = append(out, d)
		}
	}
	return out
}

// PassableCount returns the number of passable cells.
func (g *GridMap) PassableCount() int {
	n := 0
	for _, row := range g.cells {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}
