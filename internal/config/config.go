// Package config loads the process-wide and per-container YAML
// configuration the scheduler core is driven by.
package config

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete scheduler configuration.
type Config struct {
	InstanceID       string            `yaml:"instance_id"`
	ProfilingEnabled bool              `yaml:"profiling_enabled"`
	MQTT             MQTTConfig        `yaml:"mqtt"`
	Containers       []ContainerConfig `yaml:"containers"`
}

// MQTTConfig carries the broker connection settings for the Details sink.
type MQTTConfig struct {
	Broker       string `yaml:"broker"`
	DetailsTopic string `yaml:"details_topic"`
	QoS          byte   `yaml:"qos"`
}

// ContainerConfig is the per-container static configuration: cycle
// period, realtime flag, and overrun warning flag.
type ContainerConfig struct {
	Name                  string        `yaml:"name"`
	CycleTime             time.Duration `yaml:"cycle_time"`
	RealtimeThread        bool          `yaml:"realtime_thread"`
	WarnOnCycleTimeExceed bool          `yaml:"warn_on_cycle_time_exceed"`
}

const (
	defaultCycleTime              = 40 * time.Millisecond
	minCycleTime     time.Duration = 0
	maxCycleTime                   = 60 * time.Second
)

// Load reads and parses path, applying defaults and validating bounds.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}

	return &cfg, nil
}

// Validate checks bounds and fills in per-container defaults in place.
func Validate(cfg *Config) error {
	if cfg.InstanceID == "" {
		return fmt.Errorf("instance_id is required")
	}

	if len(cfg.Containers) == 0 {
		return fmt.Errorf("at least one container must be configured")
	}

	for i := range cfg.Containers {
		c := &cfg.Containers[i]
		if c.Name == "" {
			return fmt.Errorf("containers[%d]: name is required", i)
		}
		if c.CycleTime == 0 {
			c.CycleTime = defaultCycleTime
		}
		if c.CycleTime < minCycleTime || c.CycleTime > maxCycleTime {
			return fmt.Errorf("containers[%d] (%s): cycle_time %s out of bounds [%s, %s]",
				i, c.Name, c.CycleTime, minCycleTime, maxCycleTime)
		}
	}

	if cfg.MQTT.Broker != "" && cfg.MQTT.DetailsTopic == "" {
		cfg.MQTT.DetailsTopic = fmt.Sprintf("scheduler/%s/details", cfg.InstanceID)
	}

	return nil
}

// ProfilingFlag is a process-wide atomic toggle for profiling, read by
// every container's worker once per cycle. Config.ProfilingEnabled seeds
// its initial value; Set flips it at runtime without restarting any
// container. schedulerctl only seeds it and never calls Set.
type ProfilingFlag struct {
	enabled atomic.Bool
}

// NewProfilingFlag creates a flag seeded from initial.
func NewProfilingFlag(initial bool) *ProfilingFlag {
	f := &ProfilingFlag{}
	f.enabled.Store(initial)
	return f
}

// Enabled reports the current value. Matches worker.Config's
// ProfilingEnabled func() bool shape directly.
func (f *ProfilingFlag) Enabled() bool { return f.enabled.Load() }

// Set updates the flag.
func (f *ProfilingFlag) Set(v bool) { f.enabled.Store(v) }
