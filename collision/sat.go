package collision

import (
	"math"

	"github.com/pthm-cable/impulse/shape"
	"github.com/pthm-cable/impulse/vec"
)

// Hit describes an intersection found by the narrowphase: the outward
// normal pointing from the first shape toward the second, and the
// penetration depth along it.
type Hit struct {
	NormalX, NormalY float64
	Depth            float64
}

// Circles tests two circles. Touching circles do not intersect.
// The normal points from the first circle toward the second; coincident
// centers fall back to (1, 0).
func Circles(x1, y1, r1, x2, y2, r2 float64) (Hit, bool) {
	dist := vec.Distance(x1, y1, x2, y2)
	radii := r1 + r2
	if dist >= radii {
		return Hit{}, false
	}

	nx, ny := vec.Normalize(x2-x1, y2-y1)
	return Hit{NormalX: nx, NormalY: ny, Depth: radii - dist}, true
}

// Polygons runs a SAT test over the edge normals of both polygons, given
// world-space vertices and the body positions (ax, ay) and (bx, by). The
// resulting normal points from the first body toward the second.
func Polygons(a, b []shape.Vertex, ax, ay, bx, by float64) (Hit, bool) {
	hit := Hit{Depth: math.MaxFloat64}

	if !satAxes(a, a, b, &hit) {
		return Hit{}, false
	}
	if !satAxes(b, a, b, &hit) {
		return Hit{}, false
	}

	// Point the normal from body A toward body B.
	if vec.Dot(bx-ax, by-ay, hit.NormalX, hit.NormalY) < 0 {
		hit.NormalX = -hit.NormalX
		hit.NormalY = -hit.NormalY
	}
	return hit, true
}

// satAxes projects both polygons onto every edge normal of src, updating
// hit with the smallest overlap seen. It returns false on a separating axis.
func satAxes(src, a, b []shape.Vertex, hit *Hit) bool {
	for i := range src {
		j := i + 1
		if j == len(src) {
			j = 0
		}
		ex := src[j].X - src[i].X
		ey := src[j].Y - src[i].Y
		axisX, axisY := vec.Normalize(-ey, ex)

		minA, maxA := projectPolygon(a, axisX, axisY)
		minB, maxB := projectPolygon(b, axisX, axisY)
		if minA >= maxB || minB >= maxA {
			return false
		}

		overlap := math.Min(maxB-minA, maxA-minB)
		if overlap < hit.Depth {
			hit.Depth = overlap
			hit.NormalX = axisX
			hit.NormalY = axisY
		}
	}
	return true
}

// PolygonCircle tests a polygon against a circle. Polygon edge normals are
// tried first, then the axis through the polygon vertex closest to the
// circle center, which covers the corner Voronoi regions. The resulting
// normal points from the polygon body toward the circle body.
func PolygonCircle(poly []shape.Vertex, px, py, cx, cy, r float64) (Hit, bool) {
	hit := Hit{Depth: math.MaxFloat64}

	for i := range poly {
		j := i + 1
		if j == len(poly) {
			j = 0
		}
		ex := poly[j].X - poly[i].X
		ey := poly[j].Y - poly[i].Y
		axisX, axisY := vec.Normalize(-ey, ex)

		if !satCircleAxis(poly, cx, cy, r, axisX, axisY, &hit) {
			return Hit{}, false
		}
	}

	// Corner region: the axis from the circle center through the closest
	// polygon vertex.
	vx, vy := closestVertex(poly, cx, cy)
	axisX, axisY := vec.Normalize(vx-cx, vy-cy)
	if !satCircleAxis(poly, cx, cy, r, axisX, axisY, &hit) {
		return Hit{}, false
	}

	if vec.Dot(cx-px, cy-py, hit.NormalX, hit.NormalY) < 0 {
		hit.NormalX = -hit.NormalX
		hit.NormalY = -hit.NormalY
	}
	return hit, true
}

func satCircleAxis(poly []shape.Vertex, cx, cy, r, axisX, axisY float64, hit *Hit) bool {
	minP, maxP := projectPolygon(poly, axisX, axisY)
	minC, maxC := projectCircle(cx, cy, r, axisX, axisY)
	if minP >= maxC || minC >= maxP {
		return false
	}

	overlap := math.Min(maxC-minP, maxP-minC)
	if overlap < hit.Depth {
		hit.Depth = overlap
		hit.NormalX = axisX
		hit.NormalY = axisY
	}
	return true
}

func projectPolygon(verts []shape.Vertex, axisX, axisY float64) (min, max float64) {
	min = math.MaxFloat64
	max = -math.MaxFloat64
	for _, v := range verts {
		p := vec.Dot(v.X, v.Y, axisX, axisY)
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return min, max
}

func projectCircle(cx, cy, r, axisX, axisY float64) (min, max float64) {
	center := vec.Dot(cx, cy, axisX, axisY)
	return center - r, center + r
}

func closestVertex(verts []shape.Vertex, x, y float64) (float64, float64) {
	best := math.MaxFloat64
	var bx, by float64
	for _, v := range verts {
		d := vec.DistanceSq(v.X, v.Y, x, y)
		if d < best {
			best = d
			bx = v.X
			by = v.Y
		}
	}
	return bx, by
}
