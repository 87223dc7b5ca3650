package world

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pthm-cable/impulse/collision"
	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/dynamics"
	"github.com/pthm-cable/impulse/shape"
	"github.com/pthm-cable/impulse/solver"
)

// TickStats summarizes the work done by the most recent tick.
type TickStats struct {
	Bodies      int
	PairsTested int
	NarrowHits  int
	Contacts    int
	MaxDepth    float64

	Integrate  time.Duration
	Broadphase time.Duration
	Resolve    time.Duration
	Boundary   time.Duration
}

// Stats returns the counters of the last completed tick.
func (w *World) Stats() TickStats {
	return w.stats
}

// Tick advances the world by dt, split into the configured number of
// substeps. A non-positive dt returns without advancing time.
func (w *World) Tick(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("bad argument to #2 'deltaTime': finite number expected")
	}
	if dt <= 0 {
		return nil
	}

	w.stats = TickStats{Bodies: len(w.order)}
	sub := dt / float64(w.iterations)
	for i := 0; i < w.iterations; i++ {
		w.substep(sub)
	}
	return nil
}

func (w *World) substep(dt float64) {
	start := time.Now()
	for _, id := range w.order {
		b := w.refsOf(w.entities[id])
		dynamics.Integrate(b.pos, b.vel, b.rot, b.def, b.der, materialOf(b.def), dt)
	}
	w.stats.Integrate += time.Since(start)

	start = time.Now()
	w.collectPairs()
	w.stats.Broadphase += time.Since(start)

	start = time.Now()
	for _, pair := range w.pairs {
		w.resolvePair(pair[0], pair[1])
	}
	w.stats.Resolve += time.Since(start)

	if w.boundary != nil {
		start = time.Now()
		w.clampToBoundary()
		w.stats.Boundary += time.Since(start)
	}
}

// collectPairs fills the scratch pair list with candidate body pairs in
// ascending id order, via the installed index or the O(n^2) AABB loop.
func (w *World) collectPairs() {
	w.pairs = w.pairs[:0]

	// Refresh every transform up front so overlap tests see current
	// bounds regardless of enumeration order.
	for _, id := range w.order {
		b := w.refsOf(w.entities[id])
		dynamics.RefreshTransform(b.pos, b.rot, b.geom, b.der)
	}

	if w.index != nil {
		for _, id := range w.order {
			b := w.refsOf(w.entities[id])
			w.index.Update(id, b.der.Bounds)
		}
		for _, id := range w.order {
			b := w.refsOf(w.entities[id])
			w.index.QueryOverlaps(b.der.Bounds, func(other BodyID) {
				if other <= id {
					return
				}
				w.addPairIfOverlapping(id, other)
			})
		}
		// Resolve in ascending id-pair order whatever order the index visits.
		sort.Slice(w.pairs, func(i, j int) bool {
			if w.pairs[i][0] != w.pairs[j][0] {
				return w.pairs[i][0] < w.pairs[j][0]
			}
			return w.pairs[i][1] < w.pairs[j][1]
		})
		return
	}

	for i, id := range w.order {
		for _, other := range w.order[i+1:] {
			w.addPairIfOverlapping(id, other)
		}
	}
}

func (w *World) addPairIfOverlapping(a, b BodyID) {
	ra := w.refsOf(w.entities[a])
	rb := w.refsOf(w.entities[b])

	if ra.def.Type == components.Static && rb.def.Type == components.Static {
		return
	}
	if ra.geom.Shape.Kind == shape.None || rb.geom.Shape.Kind == shape.None {
		return
	}

	w.stats.PairsTested++
	if ra.der.Bounds.Overlaps(rb.der.Bounds) {
		w.pairs = append(w.pairs, [2]BodyID{a, b})
	}
}

// resolvePair runs narrowphase and, on intersection, position correction
// followed by the velocity impulses.
func (w *World) resolvePair(a, b BodyID) {
	ra := w.refsOf(w.entities[a])
	rb := w.refsOf(w.entities[b])

	hit, ok := w.narrowphase(ra, rb)
	if !ok {
		return
	}
	w.stats.NarrowHits++
	if hit.Depth > w.stats.MaxDepth {
		w.stats.MaxDepth = hit.Depth
	}

	matA := materialOf(ra.def)
	matB := materialOf(rb.def)
	dynamics.RefreshAngularMass(ra.geom, ra.def, ra.der, matA.Density)
	dynamics.RefreshAngularMass(rb.geom, rb.def, rb.der, matB.Density)

	sa := solver.Body{Pos: ra.pos, Vel: ra.vel, Rot: ra.rot, Der: ra.der, Typ: ra.def.Type, Mat: matA}
	sb := solver.Body{Pos: rb.pos, Vel: rb.vel, Rot: rb.rot, Der: rb.der, Typ: rb.def.Type, Mat: matB}

	solver.CorrectPositions(sa, sb, hit, w.massProportionalCorrection)

	// Contacts come from the corrected poses.
	dynamics.RefreshTransform(ra.pos, ra.rot, ra.geom, ra.der)
	dynamics.RefreshTransform(rb.pos, rb.rot, rb.geom, rb.der)
	w.buildManifold(ra, rb)
	w.stats.Contacts += w.manifold.Count

	solver.ResolveVelocity(sa, sb, hit, &w.manifold)
}

// narrowphase dispatches the SAT test on the pair's shape kinds. The
// returned normal points from a toward b; for circle-with-polygon pairs
// the canonical normal runs from the polygon body toward the circle body
// and is flipped here as needed.
func (w *World) narrowphase(ra, rb refs) (collision.Hit, bool) {
	ka := ra.geom.Shape.Kind
	kb := rb.geom.Shape.Kind

	switch {
	case ka == shape.CircleKind && kb == shape.CircleKind:
		return collision.Circles(
			ra.pos.X, ra.pos.Y, ra.geom.Shape.Radius,
			rb.pos.X, rb.pos.Y, rb.geom.Shape.Radius)

	case ka == shape.CircleKind:
		hit, ok := collision.PolygonCircle(rb.der.Verts, rb.pos.X, rb.pos.Y,
			ra.pos.X, ra.pos.Y, ra.geom.Shape.Radius)
		if ok {
			hit.NormalX = -hit.NormalX
			hit.NormalY = -hit.NormalY
		}
		return hit, ok

	case kb == shape.CircleKind:
		return collision.PolygonCircle(ra.der.Verts, ra.pos.X, ra.pos.Y,
			rb.pos.X, rb.pos.Y, rb.geom.Shape.Radius)

	default:
		return collision.Polygons(ra.der.Verts, rb.der.Verts,
			ra.pos.X, ra.pos.Y, rb.pos.X, rb.pos.Y)
	}
}

func (w *World) buildManifold(ra, rb refs) {
	w.manifold.Reset()
	ka := ra.geom.Shape.Kind
	kb := rb.geom.Shape.Kind

	switch {
	case ka == shape.CircleKind && kb == shape.CircleKind:
		collision.ContactCircles(
			ra.pos.X, ra.pos.Y, ra.geom.Shape.Radius,
			rb.pos.X, rb.pos.Y, &w.manifold)

	case ka == shape.CircleKind:
		collision.ContactPolygonCircle(rb.der.Verts, ra.pos.X, ra.pos.Y, &w.manifold)

	case kb == shape.CircleKind:
		collision.ContactPolygonCircle(ra.der.Verts, rb.pos.X, rb.pos.Y, &w.manifold)

	default:
		collision.ContactPolygons(ra.der.Verts, rb.der.Verts, &w.manifold)
	}
}

// clampToBoundary pushes every non-static body's AABB inside the world
// boundary, zeroing the velocity component on each clamped axis. Bodies
// larger than the boundary are centered on the oversized axis.
func (w *World) clampToBoundary() {
	bound := *w.boundary

	for _, id := range w.order {
		b := w.refsOf(w.entities[id])
		if b.def.Type == components.Static {
			continue
		}

		dynamics.RefreshTransform(b.pos, b.rot, b.geom, b.der)
		box := b.der.Bounds
		moved := false

		if box.Width() > bound.Width() {
			b.pos.X += (bound.MinX+bound.MaxX)/2 - (box.MinX+box.MaxX)/2
			b.vel.X = 0
			moved = true
		} else if box.MinX < bound.MinX {
			b.pos.X += bound.MinX - box.MinX
			b.vel.X = 0
			moved = true
		} else if box.MaxX > bound.MaxX {
			b.pos.X -= box.MaxX - bound.MaxX
			b.vel.X = 0
			moved = true
		}

		if box.Height() > bound.Height() {
			b.pos.Y += (bound.MinY+bound.MaxY)/2 - (box.MinY+box.MaxY)/2
			b.vel.Y = 0
			moved = true
		} else if box.MinY < bound.MinY {
			b.pos.Y += bound.MinY - box.MinY
			b.vel.Y = 0
			moved = true
		} else if box.MaxY > bound.MaxY {
			b.pos.Y -= box.MaxY - bound.MaxY
			b.vel.Y = 0
			moved = true
		}

		if moved {
			b.der.MarkTransformDirty()
		}
	}
}
