// Package config loads the car's YAML configuration.
package config

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Drive sink selection values.
const (
	SinkRosbridge = "rosbridge"
	SinkSerial    = "serial"
	SinkNone      = "none"
)

type Config struct {
	FramesPerSecond int    `yaml:"frames_per_second"`
	LogLevel        string `yaml:"log_level"`

	Gamepad   GamepadConfig   `yaml:"gamepad"`
	Drive     DriveConfig     `yaml:"drive"`
	Rosbridge RosbridgeConfig `yaml:"rosbridge"`
	Sound     SoundConfig     `yaml:"sound"`
}

type GamepadConfig struct {
	Device   string  `yaml:"device"`
	Deadzone float64 `yaml:"deadzone"`
}

type DriveConfig struct {
	// Sink selects the command transport: rosbridge, serial, or none
	// (log-only, for bench testing without a car).
	Sink string `yaml:"sink"`

	MaxSpeed        float64 `yaml:"max_speed"`
	MaxAngle        float64 `yaml:"max_angle"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
	AngleMultiplier float64 `yaml:"angle_multiplier"`

	SerialPort string `yaml:"serial_port"`
	SerialBaud int    `yaml:"serial_baud"`
}

type RosbridgeConfig struct {
	URL        string `yaml:"url"`
	DriveTopic string `yaml:"drive_topic"`
	ScanTopic  string `yaml:"scan_topic"`
}

type SoundConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Default returns the configuration matching the original car's constants.
// JOYSTICK_DEVICE overrides the gamepad device path.
func Default() Config {
	device := "/dev/input/js0"
	if env := os.Getenv("JOYSTICK_DEVICE"); env != "" {
		device = env
	}
	return Config{
		FramesPerSecond: 30,
		LogLevel:        "info",
		Gamepad: GamepadConfig{
			Device:   device,
			Deadzone: 0.15,
		},
		Drive: DriveConfig{
			Sink:            SinkRosbridge,
			MaxSpeed:        5,
			MaxAngle:        20,
			SpeedMultiplier: 1,
			AngleMultiplier: 20,
			SerialBaud:      115200,
		},
		Rosbridge: RosbridgeConfig{
			URL:        "ws://127.0.0.1:9090",
			DriveTopic: "/drive",
			ScanTopic:  "/scan",
		},
		Sound: SoundConfig{
			Dir: "/sounds",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults
// unchanged. Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	if cfg.FramesPerSecond <= 0 {
		return cfg, errors.Errorf("config %s: frames_per_second must be positive", path)
	}
	return cfg, nil
}
