// gamepadtest prints decoded gamepad events; handy when bringing up a new
// pad or checking the axis mapping.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/racecar-edu/go-racecar/pkg/gamepad"
)

func main() {
	device := flag.String("device", defaultDevice(), "joystick device")
	deadzone := flag.Float64("deadzone", gamepad.DefaultDeadzone, "stick deadzone fraction")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-signals
		cancel()
	}()

	var pad *gamepad.Pad
	for {
		var err error
		pad, err = gamepad.Open(*device, *deadzone)
		if err == nil {
			break
		}
		fmt.Printf("Waiting for gamepad: %v\n", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
	defer pad.Close()
	fmt.Println("Opened gamepad", *device)

	for c := gamepad.Control(0); c < gamepad.NumControls; c++ {
		c := c
		pad.OnControl(c, func(value float64) {
			fmt.Printf("%s = %.3f\n", c, value)
		})
	}

	if err := pad.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Println("Gamepad failed:", err)
		os.Exit(1)
	}
}

func defaultDevice() string {
	if dev := os.Getenv("JOYSTICK_DEVICE"); dev != "" {
		return dev
	}
	return "/dev/input/js0"
}
