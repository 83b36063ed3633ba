package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/racecar-edu/go-racecar/internal/log"
	"github.com/racecar-edu/go-racecar/pkg/config"
	"github.com/racecar-edu/go-racecar/pkg/controller"
	"github.com/racecar-edu/go-racecar/pkg/drive"
	"github.com/racecar-edu/go-racecar/pkg/gamepad"
	"github.com/racecar-edu/go-racecar/pkg/lidar"
	"github.com/racecar-edu/go-racecar/pkg/racecar"
	"github.com/racecar-edu/go-racecar/pkg/rosbridge"
	"github.com/racecar-edu/go-racecar/pkg/serialdrive"
	"github.com/racecar-edu/go-racecar/pkg/sound"
)

func main() {
	configPath := flag.String("config", "", "path to racecar.yaml (defaults used when unset)")
	demo := flag.Bool("demo", false, "register the built-in demo user program")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)
	log.Info("---- racecar ----")

	// Our global context; cancelling it triggers shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	registerSignalHandlers(cancel)

	sounds := sound.NewPlayer(cfg.Sound.Dir, cfg.Sound.Enabled)
	defer sounds.Close()
	sounds.Play(sound.EventStartup)

	// Wait for the gamepad and start decoding events in the background.
	pad := awaitGamepad(ctx, cfg.Gamepad)
	if pad == nil {
		return // context cancelled while waiting
	}
	defer pad.Close()

	ctrl := controller.New()
	ctrl.Bind(pad)
	go func() {
		defer cancel()
		err := pad.Run(ctx)
		if ctx.Err() == nil {
			log.Error("gamepad reader stopped", "err", err)
		}
	}()

	feed := lidar.New()

	pub, cleanup, err := openDriveSink(ctx, cfg, feed)
	if err != nil {
		log.Error("failed to open drive sink", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	rc := racecar.New(ctrl,
		drive.NewWithLimits(pub, cfg.Drive.MaxSpeed, cfg.Drive.MaxAngle),
		feed,
		racecar.Config{
			FPS:             cfg.FramesPerSecond,
			SpeedMultiplier: cfg.Drive.SpeedMultiplier,
			AngleMultiplier: cfg.Drive.AngleMultiplier,
		})
	rc.OnModeChange(func(m racecar.Mode) {
		switch m {
		case racecar.ModeUserProgram:
			sounds.Play(sound.EventUserMode)
		default:
			sounds.Play(sound.EventDefaultMode)
		}
	})
	if *demo {
		rc.SetStartUpdate(demoStart, demoUpdate)
	}

	err = rc.Run(ctx)
	if err == racecar.ErrExitRequested {
		sounds.Play(sound.EventExit)
		log.Info("goodbye")
		time.Sleep(300 * time.Millisecond) // let the chime start
		return
	}
	log.Info("control loop stopped", "err", err)
}

// awaitGamepad retries until the joystick device can be opened, logging
// once while it waits. Returns nil if the context is cancelled first.
func awaitGamepad(ctx context.Context, cfg config.GamepadConfig) *gamepad.Pad {
	firstLog := true
	for ctx.Err() == nil {
		pad, err := gamepad.Open(cfg.Device, cfg.Deadzone)
		if err == nil {
			log.Info("opened gamepad", "device", cfg.Device)
			return pad
		}
		if firstLog {
			log.Warn("waiting for gamepad", "err", err)
			firstLog = false
		}
		time.Sleep(time.Second)
	}
	return nil
}

// openDriveSink builds the configured command publisher and, for the
// rosbridge sink, starts the scan subscription feeding the lidar.
func openDriveSink(ctx context.Context, cfg config.Config, feed *lidar.Feed) (drive.Publisher, func(), error) {
	switch cfg.Drive.Sink {
	case config.SinkRosbridge:
		client, err := rosbridge.Dial(cfg.Rosbridge.URL)
		if err != nil {
			return nil, nil, err
		}
		pub, err := client.DrivePublisher(cfg.Rosbridge.DriveTopic)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		go func() {
			err := client.SubscribeScan(ctx, cfg.Rosbridge.ScanTopic, feed.OnScan)
			if ctx.Err() == nil {
				log.Error("scan subscription stopped", "err", err)
			}
		}()
		return pub, func() { client.Close() }, nil
	case config.SinkSerial:
		sink, err := serialdrive.Open(cfg.Drive.SerialPort, cfg.Drive.SerialBaud)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() { sink.Close() }, nil
	case config.SinkNone:
		return discardPublisher{}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown drive sink %q", cfg.Drive.Sink)
	}
}

// discardPublisher logs commands at debug level; used for bench testing
// without a car attached.
type discardPublisher struct{}

func (discardPublisher) Publish(cmd drive.Command) error {
	log.Debug("drive command", "speed", cmd.Speed, "angle", cmd.SteeringAngle)
	return nil
}

func registerSignalHandlers(cancel context.CancelFunc) {
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		log.Info("signal received, shutting down", "signal", s.String())
		cancel()
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}()
}
