// Package controller turns the gamepad's asynchronous raw events into a
// snapshot that is stable for one control-loop tick.
//
// Raw values land in an accumulator as callbacks fire, at whatever rate the
// pad delivers them. Once per tick the loop calls Commit, which promotes the
// accumulator into the committed snapshot and shifts the previous snapshot
// into the "was" slot. Edge queries (WasPressed/WasReleased) compare the two
// committed snapshots only, so a button held across many raw events still
// reports exactly one press.
package controller

import "sync"

// Button identifies one of the pad's discrete buttons.
type Button int

const (
	ButtonA Button = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonLB
	ButtonRB
	ButtonLJoy
	ButtonRJoy

	numButtons
)

// Trigger identifies one of the two analog triggers.
type Trigger int

const (
	TriggerLeft Trigger = iota
	TriggerRight

	numTriggers
)

// Joystick identifies one of the two sticks.
type Joystick int

const (
	JoystickLeft Joystick = iota
	JoystickRight

	numJoysticks
)

// Controller holds the raw accumulator and the two committed snapshots.
// Callbacks are the only writers of the accumulator; Commit is the only
// writer of the snapshots.
type Controller struct {
	mu sync.Mutex

	// Raw accumulator, overwritten by callbacks between ticks. The last
	// value written before a commit wins. Never cleared: it is the
	// current physical truth and becomes the base for the next commit.
	curDown    [numButtons]bool
	curTrigger [numTriggers]float64
	curJoy     [numJoysticks][2]float64
	curStart   bool
	curBack    bool

	// Committed snapshots, only written by Commit.
	wasDown     [numButtons]bool
	isDown      [numButtons]bool
	lastTrigger [numTriggers]float64
	lastJoy     [numJoysticks][2]float64
}

func New() *Controller {
	return &Controller{}
}

// IsDown reports whether the button was down at the last commit.
func (c *Controller) IsDown(b Button) bool {
	if b < 0 || b >= numButtons {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isDown[b]
}

// WasPressed reports a rising edge: down at the last commit, up at the one
// before.
func (c *Controller) WasPressed(b Button) bool {
	if b < 0 || b >= numButtons {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isDown[b] && !c.wasDown[b]
}

// WasReleased reports a falling edge.
func (c *Controller) WasReleased(b Button) bool {
	if b < 0 || b >= numButtons {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.isDown[b] && c.wasDown[b]
}

// TriggerValue returns the committed trigger position in [0,1].
func (c *Controller) TriggerValue(t Trigger) float64 {
	if t < 0 || t >= numTriggers {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastTrigger[t]
}

// JoystickValue returns the committed stick position, each axis in [-1,1].
func (c *Controller) JoystickValue(j Joystick) (x, y float64) {
	if j < 0 || j >= numJoysticks {
		return 0, 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastJoy[j][0], c.lastJoy[j][1]
}

// ModeFlags returns the raw start/back states. Unlike the button accessors
// these read the accumulator, not the committed snapshot: the control loop
// treats them as level-triggered mode requests.
func (c *Controller) ModeFlags() (start, back bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.curStart, c.curBack
}

// Commit promotes the raw accumulator into the committed snapshot and
// shifts the previous snapshot into the "was" slot. Called once per tick by
// the control loop. The single mutex hold makes the promotion atomic with
// respect to in-flight callbacks: an event lands either before this commit
// or in the accumulator for the next one, never half-applied.
func (c *Controller) Commit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wasDown = c.isDown
	c.isDown = c.curDown
	c.lastTrigger = c.curTrigger
	c.lastJoy = c.curJoy
}

// Raw-event entry points; these are the callbacks Bind registers.

func (c *Controller) setButton(b Button, down bool) {
	c.mu.Lock()
	c.curDown[b] = down
	c.mu.Unlock()
}

func (c *Controller) setTrigger(t Trigger, value float64) {
	c.mu.Lock()
	c.curTrigger[t] = value
	c.mu.Unlock()
}

func (c *Controller) setJoystickAxis(j Joystick, axis int, value float64) {
	c.mu.Lock()
	c.curJoy[j][axis] = value
	c.mu.Unlock()
}

func (c *Controller) setStart(down bool) {
	c.mu.Lock()
	c.curStart = down
	c.mu.Unlock()
}

func (c *Controller) setBack(down bool) {
	c.mu.Lock()
	c.curBack = down
	c.mu.Unlock()
}
