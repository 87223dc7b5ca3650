package collision

import (
	"math"

	"github.com/pthm-cable/impulse/shape"
	"github.com/pthm-cable/impulse/vec"
)

// Contact point tolerances. Two candidate projections whose squared
// distances differ by less than tieWindow count as ties; a tie only becomes
// a second contact when it is a distinct point.
const (
	tieWindow  = 1e-6
	pointEpsSq = 1e-8
)

// Manifold holds the one or two world-space contact points shared by a
// colliding pair. Instances are reused as per-world scratch.
type Manifold struct {
	X, Y  [2]float64
	Count int
}

// Reset clears the manifold for reuse.
func (m *Manifold) Reset() {
	m.Count = 0
}

// ContactCircles fills m with the single contact point between two
// intersecting circles: on the first circle's rim toward the second center.
func ContactCircles(x1, y1, r1, x2, y2 float64, m *Manifold) {
	nx, ny := vec.Normalize(x2-x1, y2-y1)
	m.X[0] = x1 + nx*r1
	m.Y[0] = y1 + ny*r1
	m.Count = 1
}

// ContactPolygonCircle fills m with the closest point on any polygon edge
// to the circle center.
func ContactPolygonCircle(poly []shape.Vertex, cx, cy float64, m *Manifold) {
	best := math.MaxFloat64
	for i := range poly {
		j := i + 1
		if j == len(poly) {
			j = 0
		}
		px, py, d := vec.ClosestPointOnSegment(cx, cy, poly[i].X, poly[i].Y, poly[j].X, poly[j].Y)
		if d < best {
			best = d
			m.X[0] = px
			m.Y[0] = py
		}
	}
	m.Count = 1
}

// ContactPolygons fills m with one or two contact points between two
// intersecting polygons. Every vertex of each polygon is projected onto
// every edge of the other; the overall closest projection is the first
// contact, and a distinct projection within the tie window becomes the
// second.
func ContactPolygons(a, b []shape.Vertex, m *Manifold) {
	m.Count = 0
	best := math.MaxFloat64

	scan := func(points, edges []shape.Vertex) {
		for _, p := range points {
			for i := range edges {
				j := i + 1
				if j == len(edges) {
					j = 0
				}
				cx, cy, d := vec.ClosestPointOnSegment(p.X, p.Y, edges[i].X, edges[i].Y, edges[j].X, edges[j].Y)

				if math.Abs(d-best) < tieWindow {
					if vec.DistanceSq(cx, cy, m.X[0], m.Y[0]) > pointEpsSq {
						m.X[1] = cx
						m.Y[1] = cy
						m.Count = 2
					}
				} else if d < best {
					best = d
					m.X[0] = cx
					m.Y[0] = cy
					m.Count = 1
				}
			}
		}
	}

	scan(a, b)
	scan(b, a)
}
