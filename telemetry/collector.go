package telemetry

// Collector accumulates per-tick counters within time windows and
// produces WindowStats.
type Collector struct {
	windowTicks int64
	dt          float64

	windowStartTick int64

	pairsTested int
	narrowHits  int
	contacts    int
	depths      []float64
}

// NewCollector creates a stats collector.
// windowSec: how long each stats window lasts in simulation seconds.
// dt: seconds per tick.
func NewCollector(windowSec, dt float64) *Collector {
	ticks := int64(windowSec / dt)
	if ticks < 1 {
		ticks = 1
	}
	return &Collector{windowTicks: ticks, dt: dt}
}

// RecordTick accumulates one tick's counters.
func (c *Collector) RecordTick(pairsTested, narrowHits, contacts int, maxDepth float64) {
	c.pairsTested += pairsTested
	c.narrowHits += narrowHits
	c.contacts += contacts
	c.depths = append(c.depths, maxDepth)
}

// WindowDone reports whether the window ending at tick is complete.
func (c *Collector) WindowDone(tick int64) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// Flush produces the window's stats and starts the next window.
func (c *Collector) Flush(tick int64, bodies int) WindowStats {
	var maxDepth float64
	for _, d := range c.depths {
		if d > maxDepth {
			maxDepth = d
		}
	}
	mean, p50, p90 := summarize(c.depths)

	out := WindowStats{
		WindowEndTick: tick,
		SimTimeSec:    float64(tick) * c.dt,
		Bodies:        bodies,
		PairsTested:   c.pairsTested,
		NarrowHits:    c.narrowHits,
		Contacts:      c.contacts,
		DepthMax:      maxDepth,
		DepthMean:     mean,
		DepthP50:      p50,
		DepthP90:      p90,
	}

	c.windowStartTick = tick
	c.pairsTested = 0
	c.narrowHits = 0
	c.contacts = 0
	c.depths = c.depths[:0]
	return out
}
