// Package drive holds the pending drive command and republishes it at the
// control loop's cadence.
package drive

import "sync"

// Default clamp bounds, matching the car's physical limits.
const (
	DefaultMaxSpeed = 5
	DefaultMaxAngle = 20
)

// Command is one speed/steering pair. Positive speed is forward, positive
// angle is a right turn (degrees).
type Command struct {
	Speed         float64
	SteeringAngle float64
}

// Publisher is the fire-and-forget sink the pending command is flushed to.
// At most one command is outstanding; there is no acknowledgment.
type Publisher interface {
	Publish(cmd Command) error
}

// Drive clamps and stores the most recent command. Nothing is sent until
// Flush; intermediate commands set between flushes are intentionally
// dropped so stale commands can never queue up.
type Drive struct {
	mu       sync.Mutex
	pub      Publisher
	maxSpeed float64
	maxAngle float64
	pending  Command
}

// New creates a Drive with the default clamp bounds.
func New(pub Publisher) *Drive {
	return NewWithLimits(pub, DefaultMaxSpeed, DefaultMaxAngle)
}

// NewWithLimits creates a Drive clamping speed to [-maxSpeed, maxSpeed] and
// angle to [-maxAngle, maxAngle].
func NewWithLimits(pub Publisher, maxSpeed, maxAngle float64) *Drive {
	return &Drive{
		pub:      pub,
		maxSpeed: maxSpeed,
		maxAngle: maxAngle,
	}
}

// SetSpeedAngle stores the clamped command as pending. No I/O happens here.
func (d *Drive) SetSpeedAngle(speed, angle float64) {
	d.mu.Lock()
	d.pending = Command{
		Speed:         clamp(speed, -d.maxSpeed, d.maxSpeed),
		SteeringAngle: clamp(angle, -d.maxAngle, d.maxAngle),
	}
	d.mu.Unlock()
}

// Stop points the wheels forward and brings the car to a halt.
func (d *Drive) Stop() {
	d.SetSpeedAngle(0, 0)
}

// Pending returns the command the next Flush will publish.
func (d *Drive) Pending() Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Flush publishes the pending command, unconditionally: even if it hasn't
// changed since the last flush, and even if it was never set (the zero
// command). The publish happens outside the lock so a slow sink can't
// block SetSpeedAngle callers.
func (d *Drive) Flush() error {
	d.mu.Lock()
	cmd := d.pending
	d.mu.Unlock()
	return d.pub.Publish(cmd)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
