package steering

import "github.com/go-gl/mathgl/mgl64"

// Threat is a moving object an agent should avoid.
type Threat interface {
	Position() mgl64.Vec3
	Velocity() mgl64.Vec3
	// Valid is false once the object has been destroyed.
	Valid() bool
}

// ThreatSource finds the nearest object carrying tag, or nil.
type ThreatSource interface {
	Nearest(pos mgl64.Vec3, tag string) Threat
}

// ThreatCache holds the nearest threat between periodic re-scans.
type ThreatCache struct {
	Interval float64

	timer  float64
	cached Threat
	scans  int
}

// Update counts down dt and re-scans src when the interval has elapsed. It
// returns the cached threat, or nil when there is none or it went stale.
func (c *ThreatCache) Update(dt float64, src ThreatSource, pos mgl64.Vec3, tag string) Threat {
	if c == nil {
		return nil
	}
	c.timer -= dt
	if c.timer > 0 {
		return c.Current()
	}
	c.timer = c.Interval
	c.cached = nil
	if src == nil || tag == "" {
		return nil
	}
	c.scans++
	c.cached = src.Nearest(pos, tag)
	return c.Current()
}

// Current returns the cached threat without re-scanning.
func (c *ThreatCache) Current() Threat {
	if c == nil || c.cached == nil || !c.cached.Valid() {
		return nil
	}
	return c.cached
}

// Scans reports how many times the source has been queried.
func (c *ThreatCache) Scans() int {
	if c == nil {
		return 0
	}
	return c.scans
}

// Reset drops the cached reference and forces a scan on the next Update.
func (c *ThreatCache) Reset() {
	if c == nil {
		return
	}
	c.timer = 0
	c.cached = nil
}
