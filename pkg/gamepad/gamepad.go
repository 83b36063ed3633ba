// Package gamepad reads a Linux joystick device (/dev/input/js*) and
// delivers normalised control events through per-control callbacks.
//
// Raw kernel mapping for an Xbox-style pad (xpad driver):
//
//	Buttons
//
//	   A       = 0
//	   B       = 1
//	   X       = 2
//	   Y       = 3
//	   LB      = 4
//	   RB      = 5
//	   Back    = 6
//	   Start   = 7
//	   Guide   = 8
//	   L stick = 9
//	   R stick = 10
//
//	Axes
//
//	   L stick l/r = 0 (left = -32767; right = +32767)
//	           u/d = 1 (up = -32767; down = +32767)
//	   L trigger   = 2 (unpressed = -32767; fully-pressed = +32767)
//	   R stick l/r = 3
//	           u/d = 4
//	   R trigger   = 5
//	   D-pad       = 6, 7 (unused here)
package gamepad

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Control identifies one physical control on the pad. The set is closed;
// callers switch on these values rather than raw kernel numbers.
type Control uint8

const (
	ButtonA Control = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonLB
	ButtonRB
	ButtonLStick
	ButtonRStick
	TriggerLeft
	TriggerRight
	AxisLeftX
	AxisLeftY
	AxisRightX
	AxisRightY
	Start
	Back

	NumControls
)

var controlNames = [NumControls]string{
	"A", "B", "X", "Y", "LB", "RB", "LStick", "RStick",
	"LT", "RT", "LX", "LY", "RX", "RY", "Start", "Back",
}

func (c Control) String() string {
	if c < NumControls {
		return controlNames[c]
	}
	return fmt.Sprintf("unknown(%d)", uint8(c))
}

const (
	eventTypeButton = 1
	eventTypeAxis   = 2

	// Kernel js button/axis numbers (xpad).
	btnA      = 0
	btnB      = 1
	btnX      = 2
	btnY      = 3
	btnLB     = 4
	btnRB     = 5
	btnBack   = 6
	btnStart  = 7
	btnLStick = 9
	btnRStick = 10

	axisLX = 0
	axisLY = 1
	axisLT = 2
	axisRX = 3
	axisRY = 4
	axisRT = 5

	axisMax = 32767.0
)

// DefaultDeadzone is applied to stick axes when none is configured.
const DefaultDeadzone = 0.15

// rawEvent is the 8-byte record the kernel joystick driver emits.
type rawEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

// Pad owns an open joystick device. Register callbacks with OnControl, then
// call Run to start decoding events; callbacks fire on Run's goroutine.
type Pad struct {
	device   *os.File
	deadzone float64

	mu        sync.Mutex
	callbacks [NumControls]func(float64)
}

// Open opens the joystick device. Deadzone is the fraction of stick travel
// treated as centred; values <= 0 select DefaultDeadzone.
func Open(device string, deadzone float64) (*Pad, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, errors.Wrapf(err, "opening joystick device %s", device)
	}
	if deadzone <= 0 {
		deadzone = DefaultDeadzone
	}
	return &Pad{device: f, deadzone: deadzone}, nil
}

// OnControl registers fn as the callback for control c, replacing any
// previous registration. One callback per distinct control.
func (p *Pad) OnControl(c Control, fn func(value float64)) {
	if c >= NumControls {
		return
	}
	p.mu.Lock()
	p.callbacks[c] = fn
	p.mu.Unlock()
}

// Close closes the underlying device, which also unblocks Run.
func (p *Pad) Close() error {
	return p.device.Close()
}

func (p *Pad) dispatch(c Control, value float64) {
	p.mu.Lock()
	fn := p.callbacks[c]
	p.mu.Unlock()
	if fn != nil {
		fn(value)
	}
}

// decode maps one raw kernel record to a Control and a normalised value.
// Buttons become 0/1, triggers [0,1], stick axes [-1,1] with the deadzone
// applied and up/right positive. ok is false for records we don't map
// (D-pad, guide button, unknown types). The kernel sets the top bit of
// Type on the synthetic initial-state records; those are decoded like
// real events.
func (p *Pad) decode(raw rawEvent) (c Control, value float64, ok bool) {
	switch raw.Type & 0x7f {
	case eventTypeButton:
		var down float64
		if raw.Value != 0 {
			down = 1
		}
		switch raw.Number {
		case btnA:
			return ButtonA, down, true
		case btnB:
			return ButtonB, down, true
		case btnX:
			return ButtonX, down, true
		case btnY:
			return ButtonY, down, true
		case btnLB:
			return ButtonLB, down, true
		case btnRB:
			return ButtonRB, down, true
		case btnLStick:
			return ButtonLStick, down, true
		case btnRStick:
			return ButtonRStick, down, true
		case btnStart:
			return Start, down, true
		case btnBack:
			return Back, down, true
		}
	case eventTypeAxis:
		switch raw.Number {
		case axisLT:
			return TriggerLeft, triggerValue(raw.Value), true
		case axisRT:
			return TriggerRight, triggerValue(raw.Value), true
		case axisLX:
			return AxisLeftX, p.stickValue(raw.Value, false), true
		case axisLY:
			return AxisLeftY, p.stickValue(raw.Value, true), true
		case axisRX:
			return AxisRightX, p.stickValue(raw.Value, false), true
		case axisRY:
			return AxisRightY, p.stickValue(raw.Value, true), true
		}
	}
	return 0, 0, false
}

// triggerValue maps the kernel's -32767..32767 trigger range onto [0,1].
func triggerValue(v int16) float64 {
	value := (float64(v) + axisMax) / (2 * axisMax)
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

// stickValue maps a stick axis onto [-1,1]. Inside the deadzone the value
// is 0; outside, it is rescaled so the output stays continuous at the
// deadzone edge. The kernel reports up as negative, so Y axes invert.
func (p *Pad) stickValue(v int16, invert bool) float64 {
	value := float64(v) / axisMax
	if invert {
		value = -value
	}
	mag := value
	if mag < 0 {
		mag = -mag
	}
	if mag < p.deadzone {
		return 0
	}
	scaled := (mag - p.deadzone) / (1 - p.deadzone)
	if scaled > 1 {
		scaled = 1
	}
	if value < 0 {
		return -scaled
	}
	return scaled
}
