// Package config loads the monitor configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Detection defaults, matching the parameters the EAR literature and
// informal testing settled on.
const (
	DefaultEARThreshold = 0.25
	DefaultConsecFrames = 20
	DefaultFrameWidth   = 640
	DefaultFrameHeight  = 480
	DefaultListenAddr   = ":8080"
)

// ErrInvalidConfig is returned when a loaded configuration fails
// validation. Invalid values abort startup rather than being silently
// replaced, so a misconfigured threshold can't hide behind a default.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the immutable session parameters, loaded once at startup.
type Config struct {
	// EARThreshold is the EAR value below which an eye counts as closing.
	EARThreshold float64 `yaml:"ear_threshold"`
	// EARConsecFrames is the number of consecutive low-EAR frames
	// required to raise the drowsiness alert. Must be at least 1.
	EARConsecFrames int `yaml:"ear_consecutive_frames"`

	CameraIndex int `yaml:"camera_index"`
	FrameWidth  int `yaml:"frame_width"`
	FrameHeight int `yaml:"frame_height"`

	ShowLandmarks bool `yaml:"show_landmarks"`
	ShowEAR       bool `yaml:"show_ear"`
	ShowFPS       bool `yaml:"show_fps"`

	// LandmarkModel is the path to the facial landmark model file,
	// passed through to the detector. Empty uses the detector default.
	LandmarkModel string `yaml:"landmark_model"`

	ListenAddr string `yaml:"listen_addr"`
	HooksDir   string `yaml:"hooks_dir"`

	Sound Sound `yaml:"sound"`
}

// Sound configures the audio cue played when the alert is raised.
type Sound struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`
	// Command is the player executable. Empty selects a platform
	// default (afplay on macOS, aplay elsewhere).
	Command string `yaml:"command"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		EARThreshold:    DefaultEARThreshold,
		EARConsecFrames: DefaultConsecFrames,
		CameraIndex:     0,
		FrameWidth:      DefaultFrameWidth,
		FrameHeight:     DefaultFrameHeight,
		ShowLandmarks:   true,
		ShowEAR:         true,
		ShowFPS:         true,
		ListenAddr:      DefaultListenAddr,
	}
}

// Load reads and validates the configuration file at path.
// Fields missing from the file keep their defaults; the file itself
// must exist and parse.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the loaded parameters.
func (c Config) Validate() error {
	if c.EARConsecFrames < 1 {
		return fmt.Errorf("%w: ear_consecutive_frames must be at least 1, got %d", ErrInvalidConfig, c.EARConsecFrames)
	}
	if c.EARThreshold <= 0 {
		return fmt.Errorf("%w: ear_threshold must be positive, got %g", ErrInvalidConfig, c.EARThreshold)
	}
	if c.CameraIndex < 0 {
		return fmt.Errorf("%w: camera_index must not be negative, got %d", ErrInvalidConfig, c.CameraIndex)
	}
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return fmt.Errorf("%w: frame size must be positive, got %dx%d", ErrInvalidConfig, c.FrameWidth, c.FrameHeight)
	}
	return nil
}
