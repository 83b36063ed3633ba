package controller

import "github.com/racecar-edu/go-racecar/pkg/gamepad"

// ControlSource is the callback-registration surface of a gamepad.
type ControlSource interface {
	OnControl(c gamepad.Control, fn func(value float64))
}

// Bind registers one callback per pad control, routing each into the raw
// accumulator.
func (c *Controller) Bind(src ControlSource) {
	buttons := map[gamepad.Control]Button{
		gamepad.ButtonA:      ButtonA,
		gamepad.ButtonB:      ButtonB,
		gamepad.ButtonX:      ButtonX,
		gamepad.ButtonY:      ButtonY,
		gamepad.ButtonLB:     ButtonLB,
		gamepad.ButtonRB:     ButtonRB,
		gamepad.ButtonLStick: ButtonLJoy,
		gamepad.ButtonRStick: ButtonRJoy,
	}
	for pc, b := range buttons {
		b := b
		src.OnControl(pc, func(value float64) {
			c.setButton(b, value > 0.5)
		})
	}

	src.OnControl(gamepad.TriggerLeft, func(value float64) {
		c.setTrigger(TriggerLeft, value)
	})
	src.OnControl(gamepad.TriggerRight, func(value float64) {
		c.setTrigger(TriggerRight, value)
	})

	axes := map[gamepad.Control]struct {
		stick Joystick
		axis  int
	}{
		gamepad.AxisLeftX:  {JoystickLeft, 0},
		gamepad.AxisLeftY:  {JoystickLeft, 1},
		gamepad.AxisRightX: {JoystickRight, 0},
		gamepad.AxisRightY: {JoystickRight, 1},
	}
	for pc, target := range axes {
		target := target
		src.OnControl(pc, func(value float64) {
			c.setJoystickAxis(target.stick, target.axis, value)
		})
	}

	src.OnControl(gamepad.Start, func(value float64) {
		c.setStart(value > 0.5)
	})
	src.OnControl(gamepad.Back, func(value float64) {
		c.setBack(value > 0.5)
	})
}
