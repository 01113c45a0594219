package tracker

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config are the ByteTrack association parameters.  Field names follow the
// widely used bytetrack.yaml tracker configuration file.
type Config struct {
	// HighThresh is the score at or above which detections take part in the
	// first association
	HighThresh float64 `yaml:"track_high_thresh"`
	// LowThresh is the score above which detections below HighThresh take
	// part in the second association, anything lower is discarded
	LowThresh float64 `yaml:"track_low_thresh"`
	// NewTrackThresh is the minimum score for an unmatched detection to
	// start a new track
	NewTrackThresh float64 `yaml:"new_track_thresh"`
	// TrackBuffer is the number of frames at 30 FPS a lost track is kept
	// for before removal
	TrackBuffer int `yaml:"track_buffer"`
	// MatchThresh is the maximum IoU distance of a first round match
	MatchThresh float64 `yaml:"match_thresh"`
	// FuseScore weights the IoU similarity by the detection score before
	// matching
	FuseScore bool `yaml:"fuse_score"`
}

// DefaultConfig returns the stock ByteTrack parameters
func DefaultConfig() Config {
	return Config{
		HighThresh:     0.25,
		LowThresh:      0.1,
		NewTrackThresh: 0.25,
		TrackBuffer:    30,
		MatchThresh:    0.8,
		FuseScore:      true,
	}
}

// LoadConfig reads a tracker YAML file.  Keys absent from the file keep
// their default value.
func LoadConfig(file string) (Config, error) {

	cfg := DefaultConfig()

	data, err := os.ReadFile(file)

	if err != nil {
		return cfg, fmt.Errorf("error opening tracker config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error parsing tracker config %s: %w", file, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid tracker config %s: %w", file, err)
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.LowThresh > c.HighThresh {
		return fmt.Errorf("track_low_thresh %.2f is above track_high_thresh %.2f",
			c.LowThresh, c.HighThresh)
	}
	if c.TrackBuffer < 0 {
		return fmt.Errorf("track_buffer must not be negative")
	}
	if c.MatchThresh <= 0 || c.MatchThresh > 1 {
		return fmt.Errorf("match_thresh must be in (0,1]")
	}
	return nil
}
