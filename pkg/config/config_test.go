package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsMatchTheCar(t *testing.T) {
	cfg := Default()
	if cfg.FramesPerSecond != 30 {
		t.Errorf("fps: got %d, want 30", cfg.FramesPerSecond)
	}
	if cfg.Drive.MaxSpeed != 5 || cfg.Drive.MaxAngle != 20 {
		t.Errorf("limits: got (%v, %v), want (5, 20)", cfg.Drive.MaxSpeed, cfg.Drive.MaxAngle)
	}
	if cfg.Gamepad.Deadzone != 0.15 {
		t.Errorf("deadzone: got %v, want 0.15", cfg.Gamepad.Deadzone)
	}
	if cfg.Rosbridge.DriveTopic != "/drive" || cfg.Rosbridge.ScanTopic != "/scan" {
		t.Errorf("topics: got %q, %q", cfg.Rosbridge.DriveTopic, cfg.Rosbridge.ScanTopic)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "racecar.yaml")
	content := []byte("frames_per_second: 60\ndrive:\n  sink: serial\n  serial_port: /dev/ttyUSB0\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.FramesPerSecond != 60 {
		t.Errorf("fps: got %d, want 60", cfg.FramesPerSecond)
	}
	if cfg.Drive.Sink != SinkSerial || cfg.Drive.SerialPort != "/dev/ttyUSB0" {
		t.Errorf("drive sink: got %q %q", cfg.Drive.Sink, cfg.Drive.SerialPort)
	}
	// Untouched fields keep their defaults.
	if cfg.Rosbridge.URL == "" || cfg.Gamepad.Deadzone != 0.15 {
		t.Error("unset fields lost their defaults")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg != Default() {
		t.Error("empty path should return the defaults unchanged")
	}
}

func TestLoadRejectsNonPositiveFPS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "racecar.yaml")
	if err := os.WriteFile(path, []byte("frames_per_second: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for frames_per_second: 0")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
