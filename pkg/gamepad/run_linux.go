//go:build linux

package gamepad

import (
	"bytes"
	"context"
	"encoding/binary"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// epollWaitMillis bounds each epoll wait so Run notices context
// cancellation without a read in flight.
const epollWaitMillis = 200

// Run decodes events from the device until the context is cancelled or a
// read fails. Callbacks are invoked on this goroutine.
func (p *Pad) Run(ctx context.Context) error {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return errors.Wrap(err, "epoll_create1")
	}
	defer unix.Close(epfd)

	fd := int(p.device.Fd())
	event := unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(fd),
	}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &event); err != nil {
		return errors.Wrap(err, "epoll_ctl_add")
	}

	epollEvents := make([]unix.EpollEvent, 1)
	buf := make([]byte, binary.Size(rawEvent{}))

	for ctx.Err() == nil {
		n, err := unix.EpollWait(epfd, epollEvents, epollWaitMillis)
		if err != nil {
			if err == syscall.EINTR {
				continue
			}
			return errors.Wrap(err, "epoll_wait")
		}
		if n == 0 {
			continue
		}
		if epollEvents[0].Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			return errors.Errorf("joystick device error/hangup: %s", p.device.Name())
		}
		if _, err := p.device.Read(buf); err != nil {
			return errors.Wrapf(err, "reading from %s", p.device.Name())
		}
		var raw rawEvent
		if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &raw); err != nil {
			return errors.Wrap(err, "decoding joystick event")
		}
		if c, value, ok := p.decode(raw); ok {
			p.dispatch(c, value)
		}
	}
	return ctx.Err()
}
