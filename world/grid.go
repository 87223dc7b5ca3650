package world

import (
	"math"
	"sort"

	"github.com/pthm-cable/impulse/collision"
)

// Grid is a uniform-cell broadphase index. Bodies are recorded in every
// cell their AABB touches; queries visit the cells the query box covers.
type Grid struct {
	cellSize float64
	cells    map[[2]int][]BodyID
	spans    map[BodyID][4]int // cell range per body: minCol, minRow, maxCol, maxRow
	scratch  []BodyID
}

// NewGrid creates a grid index with the given cell size.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[[2]int][]BodyID),
		spans:    make(map[BodyID][4]int),
	}
}

// Update re-inserts a body under its current bounds.
func (g *Grid) Update(id BodyID, bounds collision.AABB) {
	g.Remove(id)

	span := g.span(bounds)
	g.spans[id] = span
	for col := span[0]; col <= span[2]; col++ {
		for row := span[1]; row <= span[3]; row++ {
			key := [2]int{col, row}
			g.cells[key] = append(g.cells[key], id)
		}
	}
}

// Remove forgets a body.
func (g *Grid) Remove(id BodyID) {
	span, ok := g.spans[id]
	if !ok {
		return
	}
	delete(g.spans, id)

	for col := span[0]; col <= span[2]; col++ {
		for row := span[1]; row <= span[3]; row++ {
			key := [2]int{col, row}
			ids := g.cells[key]
			for i, other := range ids {
				if other == id {
					g.cells[key] = append(ids[:i], ids[i+1:]...)
					break
				}
			}
			if len(g.cells[key]) == 0 {
				delete(g.cells, key)
			}
		}
	}
}

// QueryOverlaps visits each body recorded in a cell the query box covers,
// once, in ascending id order.
func (g *Grid) QueryOverlaps(bounds collision.AABB, visit func(BodyID)) {
	span := g.span(bounds)

	g.scratch = g.scratch[:0]
	for col := span[0]; col <= span[2]; col++ {
		for row := span[1]; row <= span[3]; row++ {
			g.scratch = append(g.scratch, g.cells[[2]int{col, row}]...)
		}
	}

	sort.Slice(g.scratch, func(i, j int) bool { return g.scratch[i] < g.scratch[j] })

	var last BodyID = -1
	for _, id := range g.scratch {
		if id == last {
			continue
		}
		last = id
		visit(id)
	}
}

func (g *Grid) span(bounds collision.AABB) [4]int {
	return [4]int{
		int(math.Floor(bounds.MinX / g.cellSize)),
		int(math.Floor(bounds.MinY / g.cellSize)),
		int(math.Floor(bounds.MaxX / g.cellSize)),
		int(math.Floor(bounds.MaxY / g.cellSize)),
	}
}
