package world

import "github.com/pthm-cable/impulse/collision"

// Broadphase is the pluggable pair-enumeration seam. The default world
// uses a plain O(n^2) AABB loop; an index narrows the candidate set.
// Implementations must enumerate deterministically; the tick loop orders
// the resulting pairs by ascending id regardless.
type Broadphase interface {
	// Update records the current bounds of a body.
	Update(id BodyID, bounds collision.AABB)
	// Remove forgets a body.
	Remove(id BodyID)
	// QueryOverlaps visits every known body whose recorded bounds could
	// overlap the query box. Visits may include false positives; the
	// caller re-checks exact overlap.
	QueryOverlaps(bounds collision.AABB, visit func(BodyID))
}
