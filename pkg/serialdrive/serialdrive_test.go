package serialdrive

import (
	"testing"

	"github.com/racecar-edu/go-racecar/pkg/drive"
)

func TestEncodeFrameLayout(t *testing.T) {
	frame := encodeFrame(drive.Command{Speed: 2.5, SteeringAngle: -10})

	if len(frame) != 7 {
		t.Fatalf("frame length: got %d, want 7", len(frame))
	}
	if frame[0] != frameMagic || frame[1] != frameTypeDrive {
		t.Errorf("header: got %#x %#x", frame[0], frame[1])
	}

	speed := int16(frame[2]) | int16(frame[3])<<8
	if speed != 250 {
		t.Errorf("speed: got %d centiunits, want 250", speed)
	}
	angle := int16(frame[4]) | int16(frame[5])<<8
	if angle != -1000 {
		t.Errorf("angle: got %d centidegrees, want -1000", angle)
	}

	var sum byte
	for _, b := range frame[:6] {
		sum ^= b
	}
	if frame[6] != sum {
		t.Errorf("checksum: got %#x, want %#x", frame[6], sum)
	}
}

func TestEncodeFrameSaturates(t *testing.T) {
	frame := encodeFrame(drive.Command{Speed: 1e6, SteeringAngle: -1e6})
	speed := int16(frame[2]) | int16(frame[3])<<8
	angle := int16(frame[4]) | int16(frame[5])<<8
	if speed != 32767 {
		t.Errorf("speed did not saturate high: %d", speed)
	}
	if angle != -32768 {
		t.Errorf("angle did not saturate low: %d", angle)
	}
}

func TestZeroCommandEncodesZeroPayload(t *testing.T) {
	frame := encodeFrame(drive.Command{})
	for i := 2; i < 6; i++ {
		if frame[i] != 0 {
			t.Fatalf("byte %d: got %#x, want 0", i, frame[i])
		}
	}
}
