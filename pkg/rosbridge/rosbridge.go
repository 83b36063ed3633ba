// Package rosbridge is a minimal client for the rosbridge JSON-over-
// WebSocket protocol, covering the two topics the car uses: publishing
// AckermannDriveStamped commands and subscribing to LaserScan messages.
package rosbridge

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/racecar-edu/go-racecar/pkg/drive"
)

const (
	handshakeTimeout = 5 * time.Second
	writeTimeout     = 2 * time.Second

	driveMsgType = "ackermann_msgs/AckermannDriveStamped"
	scanMsgType  = "sensor_msgs/LaserScan"
)

// Client wraps one rosbridge connection. Writes are serialized; the single
// reader is the SubscribeScan loop.
type Client struct {
	writeMu sync.Mutex
	conn    *websocket.Conn
}

// Dial connects to a rosbridge server, e.g. "ws://robot:9090".
func Dial(url string) (*Client, error) {
	d := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}
	conn, _, err := d.Dial(url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to rosbridge at %s", url)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// writeJSON sends one op message with a write deadline.
func (c *Client) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

type topicOp struct {
	Op    string `json:"op"`
	Topic string `json:"topic"`
	Type  string `json:"type,omitempty"`
}

type ackermannDrive struct {
	Speed         float64 `json:"speed"`
	SteeringAngle float64 `json:"steering_angle"`
}

type ackermannDriveStamped struct {
	Drive ackermannDrive `json:"drive"`
}

type drivePublishOp struct {
	Op    string                `json:"op"`
	Topic string                `json:"topic"`
	Msg   ackermannDriveStamped `json:"msg"`
}

// DrivePublisher advertises topic as AckermannDriveStamped and returns a
// drive.Publisher pushing commands to it. Best-effort: a publish failure is
// reported but nothing is retried, the next tick publishes again anyway.
func (c *Client) DrivePublisher(topic string) (drive.Publisher, error) {
	err := c.writeJSON(topicOp{Op: "advertise", Topic: topic, Type: driveMsgType})
	if err != nil {
		return nil, errors.Wrapf(err, "advertising %s", topic)
	}
	return &drivePublisher{client: c, topic: topic}, nil
}

type drivePublisher struct {
	client *Client
	topic  string
}

func (p *drivePublisher) Publish(cmd drive.Command) error {
	err := p.client.writeJSON(drivePublishOp{
		Op:    "publish",
		Topic: p.topic,
		Msg: ackermannDriveStamped{
			Drive: ackermannDrive{
				Speed:         cmd.Speed,
				SteeringAngle: cmd.SteeringAngle,
			},
		},
	})
	return errors.Wrapf(err, "publishing to %s", p.topic)
}

type incoming struct {
	Op    string `json:"op"`
	Topic string `json:"topic"`
	Msg   struct {
		Ranges []float64 `json:"ranges"`
	} `json:"msg"`
}

// SubscribeScan subscribes to topic and runs the connection's read loop,
// invoking fn with the ranges of each scan that arrives. It blocks until
// the context is cancelled or the connection fails, so run it on its own
// goroutine.
func (c *Client) SubscribeScan(ctx context.Context, topic string, fn func(ranges []float64)) error {
	err := c.writeJSON(topicOp{Op: "subscribe", Topic: topic, Type: scanMsgType})
	if err != nil {
		return errors.Wrapf(err, "subscribing to %s", topic)
	}

	// Unblock the pending read when the context goes.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "reading from rosbridge")
		}
		var msg incoming
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		// Not every frame is a scan: status and service frames pass
		// through here too and are dropped by the op/topic check.
		if msg.Op == "publish" && msg.Topic == topic {
			fn(msg.Msg.Ranges)
		}
	}
}
