// Package racecar runs the fixed-rate control loop that ties the
// controller, drive and lidar together.
//
// The loop has two modes. Default-drive maps the triggers and left stick
// straight onto a drive command; user-program delegates to start/update
// actions supplied by the student's program. Holding START switches to the
// user program, holding BACK returns to default drive, and holding both
// ends the run.
package racecar

import (
	"context"
	"errors"
	"time"

	"github.com/racecar-edu/go-racecar/internal/log"
	"github.com/racecar-edu/go-racecar/pkg/controller"
	"github.com/racecar-edu/go-racecar/pkg/drive"
	"github.com/racecar-edu/go-racecar/pkg/lidar"
	"github.com/racecar-edu/go-racecar/pkg/rate"
)

// Mode is the control loop's active behaviour.
type Mode int

const (
	ModeDefaultDrive Mode = iota
	ModeUserProgram
)

func (m Mode) String() string {
	switch m {
	case ModeDefaultDrive:
		return "default drive"
	case ModeUserProgram:
		return "user program"
	default:
		return "unknown"
	}
}

// ErrExitRequested is returned by Run when START and BACK are held
// together; the caller is expected to shut the process down.
var ErrExitRequested = errors.New("exit requested by controller")

// Action is a user-supplied start or update function. Update actions run
// once per tick, on the loop goroutine.
type Action func(r *Racecar)

// Default drive behaviour constants, matching the car's tuning.
const (
	DefaultFPS             = 30
	DefaultSpeedMultiplier = 1.0
	DefaultAngleMultiplier = 20.0
)

// Config tunes the loop. Zero values select the defaults.
type Config struct {
	FPS             int
	SpeedMultiplier float64
	AngleMultiplier float64
}

// Racecar owns one controller, one drive and one lidar feed for the
// process lifetime. There is no ambient global state; user programs reach
// the modules through the accessors.
type Racecar struct {
	ctrl *controller.Controller
	drv  *drive.Drive
	ldr  *lidar.Feed

	fps       int
	speedMult float64
	angleMult float64

	mode       Mode
	update     Action
	userStart  Action
	userUpdate Action

	onModeChange    func(Mode)
	warnedNoProgram bool
}

func New(ctrl *controller.Controller, drv *drive.Drive, ldr *lidar.Feed, cfg Config) *Racecar {
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	if cfg.SpeedMultiplier == 0 {
		cfg.SpeedMultiplier = DefaultSpeedMultiplier
	}
	if cfg.AngleMultiplier == 0 {
		cfg.AngleMultiplier = DefaultAngleMultiplier
	}
	return &Racecar{
		ctrl:      ctrl,
		drv:       drv,
		ldr:       ldr,
		fps:       cfg.FPS,
		speedMult: cfg.SpeedMultiplier,
		angleMult: cfg.AngleMultiplier,
	}
}

// Controller returns the debounced input state.
func (r *Racecar) Controller() *controller.Controller { return r.ctrl }

// Drive returns the drive sink.
func (r *Racecar) Drive() *drive.Drive { return r.drv }

// Lidar returns the scan feed.
func (r *Racecar) Lidar() *lidar.Feed { return r.ldr }

// Mode returns the loop's current mode.
func (r *Racecar) Mode() Mode { return r.mode }

// SetStartUpdate registers the user program. start runs once on each entry
// into user-program mode; update runs every tick while it is active.
func (r *Racecar) SetStartUpdate(start, update Action) {
	r.userStart = start
	r.userUpdate = update
	r.warnedNoProgram = false
}

// OnModeChange registers a hook invoked on every mode entry, including the
// initial entry into default drive. Used for chimes and banners.
func (r *Racecar) OnModeChange(fn func(Mode)) {
	r.onModeChange = fn
}

// Run drives the loop at the configured frame rate until the dual-button
// exit (ErrExitRequested) or context cancellation (ctx.Err()).
func (r *Racecar) Run(ctx context.Context) error {
	log.Info("racecar ready",
		"fps", r.fps,
		"hint", "START runs your program, BACK returns to default drive, START+BACK exits")
	r.enterDefaultDrive()

	ticker := rate.NewTicker(time.Second / time.Duration(r.fps))
	for {
		if exit := r.tick(); exit {
			return ErrExitRequested
		}
		if err := ticker.Wait(ctx); err != nil {
			return err
		}
	}
}

// tick runs one control frame: mode transitions, the active update action,
// then the per-tick flush of both modules. Returns true on the terminal
// exit transition.
func (r *Racecar) tick() bool {
	start, back := r.ctrl.ModeFlags()
	switch {
	case start && back:
		// Terminal: stop the car, push the stop out, and report exit.
		log.Info("exit requested, stopping")
		r.drv.Stop()
		if err := r.drv.Flush(); err != nil {
			log.Warn("final drive publish failed", "err", err)
		}
		return true
	case start && r.mode != ModeUserProgram:
		r.enterUserProgram()
	case back && r.mode != ModeDefaultDrive:
		r.enterDefaultDrive()
	}

	r.update(r)

	if err := r.drv.Flush(); err != nil {
		// Non-fatal: the next tick publishes again regardless.
		log.Warn("drive publish failed", "err", err)
	}
	r.ctrl.Commit()
	return false
}

func (r *Racecar) enterDefaultDrive() {
	log.Info("entering default drive mode")
	r.mode = ModeDefaultDrive
	r.update = (*Racecar).defaultUpdate
	if r.onModeChange != nil {
		r.onModeChange(r.mode)
	}
}

func (r *Racecar) enterUserProgram() {
	if r.userStart == nil || r.userUpdate == nil {
		if !r.warnedNoProgram {
			log.Warn("START pressed but no user program registered")
			r.warnedNoProgram = true
		}
		return
	}
	log.Info("entering user program mode")
	r.mode = ModeUserProgram
	r.update = r.userUpdate
	if r.onModeChange != nil {
		r.onModeChange(r.mode)
	}
	r.userStart(r)
}

// defaultUpdate composes the triggers into a signed speed and the left
// stick's horizontal axis into a steering angle. If both triggers are
// pressed at once the speed is forced to zero for safety.
func (r *Racecar) defaultUpdate() {
	forward := r.ctrl.TriggerValue(controller.TriggerLeft)
	backward := r.ctrl.TriggerValue(controller.TriggerRight)
	speed := (forward - backward) * r.speedMult
	if forward > 0 && backward > 0 {
		speed = 0
	}
	x, _ := r.ctrl.JoystickValue(controller.JoystickLeft)
	r.drv.SetSpeedAngle(speed, x*r.angleMult)
}
