package gamepad

import (
	"math"
	"testing"
)

func newTestPad() *Pad {
	return &Pad{deadzone: DefaultDeadzone}
}

func TestDecodeButtons(t *testing.T) {
	p := newTestPad()

	tests := []struct {
		number uint8
		want   Control
	}{
		{btnA, ButtonA},
		{btnB, ButtonB},
		{btnX, ButtonX},
		{btnY, ButtonY},
		{btnLB, ButtonLB},
		{btnRB, ButtonRB},
		{btnLStick, ButtonLStick},
		{btnRStick, ButtonRStick},
		{btnStart, Start},
		{btnBack, Back},
	}
	for _, tc := range tests {
		c, value, ok := p.decode(rawEvent{Type: eventTypeButton, Number: tc.number, Value: 1})
		if !ok || c != tc.want || value != 1 {
			t.Errorf("button %d down: got (%v, %v, %v), want (%v, 1, true)",
				tc.number, c, value, ok, tc.want)
		}
		_, value, _ = p.decode(rawEvent{Type: eventTypeButton, Number: tc.number, Value: 0})
		if value != 0 {
			t.Errorf("button %d up: got value %v, want 0", tc.number, value)
		}
	}
}

func TestDecodeTriggersNormaliseToUnitRange(t *testing.T) {
	p := newTestPad()

	c, value, ok := p.decode(rawEvent{Type: eventTypeAxis, Number: axisLT, Value: -32767})
	if !ok || c != TriggerLeft || value != 0 {
		t.Errorf("unpressed trigger: got (%v, %v, %v), want (LT, 0, true)", c, value, ok)
	}
	_, value, _ = p.decode(rawEvent{Type: eventTypeAxis, Number: axisRT, Value: 32767})
	if value != 1 {
		t.Errorf("fully-pressed trigger: got %v, want 1", value)
	}
	_, value, _ = p.decode(rawEvent{Type: eventTypeAxis, Number: axisLT, Value: 0})
	if math.Abs(value-0.5) > 0.001 {
		t.Errorf("half-pressed trigger: got %v, want ~0.5", value)
	}
}

func TestDecodeSticksApplyDeadzone(t *testing.T) {
	p := newTestPad()

	// Inside the deadzone: centred.
	_, value, _ := p.decode(rawEvent{Type: eventTypeAxis, Number: axisLX, Value: 3000})
	if value != 0 {
		t.Errorf("inside deadzone: got %v, want 0", value)
	}

	// Full deflection still reaches the extremes.
	_, value, _ = p.decode(rawEvent{Type: eventTypeAxis, Number: axisLX, Value: 32767})
	if value != 1 {
		t.Errorf("full right: got %v, want 1", value)
	}
	_, value, _ = p.decode(rawEvent{Type: eventTypeAxis, Number: axisRX, Value: -32767})
	if value != -1 {
		t.Errorf("full left: got %v, want -1", value)
	}

	// Continuous at the deadzone edge.
	deadzoneRaw := DefaultDeadzone * axisMax
	edge := int16(deadzoneRaw) + 100
	_, value, _ = p.decode(rawEvent{Type: eventTypeAxis, Number: axisLX, Value: edge})
	if value < 0 || value > 0.02 {
		t.Errorf("just outside deadzone: got %v, want small positive", value)
	}
}

func TestDecodeInvertsYAxes(t *testing.T) {
	p := newTestPad()

	// Kernel up is negative; decoded up must be positive.
	c, value, ok := p.decode(rawEvent{Type: eventTypeAxis, Number: axisLY, Value: -32767})
	if !ok || c != AxisLeftY || value != 1 {
		t.Errorf("stick up: got (%v, %v, %v), want (LY, 1, true)", c, value, ok)
	}
	_, value, _ = p.decode(rawEvent{Type: eventTypeAxis, Number: axisRY, Value: 32767})
	if value != -1 {
		t.Errorf("stick down: got %v, want -1", value)
	}
}

func TestDecodeInitialStateRecords(t *testing.T) {
	p := newTestPad()

	// The kernel flags synthetic initial-state records with the top bit.
	c, value, ok := p.decode(rawEvent{Type: eventTypeButton | 0x80, Number: btnA, Value: 1})
	if !ok || c != ButtonA || value != 1 {
		t.Errorf("init record: got (%v, %v, %v), want (A, 1, true)", c, value, ok)
	}
}

func TestDecodeIgnoresUnmappedControls(t *testing.T) {
	p := newTestPad()

	if _, _, ok := p.decode(rawEvent{Type: eventTypeAxis, Number: 6, Value: 32767}); ok {
		t.Error("D-pad axis should not be mapped")
	}
	if _, _, ok := p.decode(rawEvent{Type: eventTypeButton, Number: 8, Value: 1}); ok {
		t.Error("guide button should not be mapped")
	}
	if _, _, ok := p.decode(rawEvent{Type: 3, Number: 0, Value: 1}); ok {
		t.Error("unknown event type should not be mapped")
	}
}

func TestCallbacksDispatchPerControl(t *testing.T) {
	p := newTestPad()

	var gotA, gotB float64
	p.OnControl(ButtonA, func(v float64) { gotA = v })
	p.OnControl(ButtonB, func(v float64) { gotB = v })

	p.dispatch(ButtonA, 1)
	if gotA != 1 || gotB != 0 {
		t.Errorf("dispatch leaked across controls: A=%v B=%v", gotA, gotB)
	}

	// Controls without callbacks are silently dropped.
	p.dispatch(ButtonX, 1)
}
