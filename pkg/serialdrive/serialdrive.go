// Package serialdrive publishes drive commands as fixed binary frames on a
// serial port, for cars whose ESC/steering board hangs off a UART instead
// of the middleware bridge.
//
// Frame layout (little-endian):
//
//	byte 0   magic 0xA5
//	byte 1   frame type 0x01 (drive command)
//	bytes 2-3  speed, int16, hundredths of a unit
//	bytes 4-5  steering angle, int16, hundredths of a degree
//	byte 6   XOR checksum of bytes 0-5
package serialdrive

import (
	"sync"

	"github.com/pkg/errors"
	"go.bug.st/serial"

	"github.com/racecar-edu/go-racecar/pkg/drive"
)

const (
	frameMagic     = 0xA5
	frameTypeDrive = 0x01

	DefaultBaudRate = 115200
)

// Sink writes one frame per Publish. Writes are serialized; the board
// applies the most recent frame it has seen, so a dropped frame is
// harmless.
type Sink struct {
	mu   sync.Mutex
	port serial.Port
}

// Open opens the serial device. baud <= 0 selects DefaultBaudRate.
func Open(device string, baud int) (*Sink, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, errors.Wrapf(err, "opening serial device %s", device)
	}
	return &Sink{port: port}, nil
}

func (s *Sink) Close() error {
	return s.port.Close()
}

// Publish encodes and writes the command frame.
func (s *Sink) Publish(cmd drive.Command) error {
	frame := encodeFrame(cmd)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.port.Write(frame); err != nil {
		return errors.Wrap(err, "writing drive frame")
	}
	return nil
}

var _ drive.Publisher = (*Sink)(nil)

func encodeFrame(cmd drive.Command) []byte {
	speed := toCenti(cmd.Speed)
	angle := toCenti(cmd.SteeringAngle)
	frame := []byte{
		frameMagic,
		frameTypeDrive,
		byte(speed), byte(speed >> 8),
		byte(angle), byte(angle >> 8),
		0,
	}
	var sum byte
	for _, b := range frame[:6] {
		sum ^= b
	}
	frame[6] = sum
	return frame
}

// toCenti converts to hundredths, saturating at the int16 range.
func toCenti(v float64) int16 {
	scaled := v * 100
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}
