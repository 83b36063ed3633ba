package main

import (
	"time"

	"github.com/racecar-edu/go-racecar/internal/log"
	"github.com/racecar-edu/go-racecar/pkg/controller"
	"github.com/racecar-edu/go-racecar/pkg/racecar"
)

// The demo user program: creep forward while A is held and steer with the
// right stick. It exists to show the user-program API shape, not to drive
// well.

func demoStart(r *racecar.Racecar) {
	points := r.Lidar().Length(2 * time.Second)
	if points == 0 {
		log.Info("demo: no lidar scan yet")
	} else {
		log.Info("demo: lidar online", "points", points)
	}
	r.Drive().Stop()
}

func demoUpdate(r *racecar.Racecar) {
	if r.Controller().WasPressed(controller.ButtonA) {
		log.Info("demo: creeping forward")
	}
	var speed float64
	if r.Controller().IsDown(controller.ButtonA) {
		speed = 0.5
	}
	x, _ := r.Controller().JoystickValue(controller.JoystickRight)
	r.Drive().SetSpeedAngle(speed, x*10)
}
