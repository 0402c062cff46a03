// Package config loads the runtime configuration: the city topology, the HTTP
// listener, simulation defaults and log verbosity.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"github.com/chrisconley/greencity/internal"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const (
	envAddr      = "GREENCITY_ADDR"
	envSeed      = "GREENCITY_SEED"
	envVerbosity = "GREENCITY_VERBOSITY"
)

type Config struct {
	Topology   TopologyConfig   `yaml:"topology"`
	Server     ServerConfig     `yaml:"server"`
	Simulation SimulationConfig `yaml:"simulation"`
	Log        LogConfig        `yaml:"log"`
}

type TopologyConfig struct {
	Zones []string `yaml:"zones"`
	// WardsPerZone may be stated in the file but every zone owns exactly
	// internal.DefaultWardsPerZone wards; any other value is rejected.
	WardsPerZone int `yaml:"wardsPerZone"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type SimulationConfig struct {
	// Seed of the reading sampler; 0 means a random seed per session.
	Seed uint64 `yaml:"seed"`
	// Count is how many batteries `simulate` adds when no flag overrides it.
	Count int `yaml:"count"`
}

type LogConfig struct {
	Verbosity int `yaml:"verbosity"`
}

// Default returns the built-in configuration: the four-zone city with two
// wards per zone.
func Default() *Config {
	zones := make([]string, len(internal.DefaultZones))
	copy(zones, internal.DefaultZones)
	return &Config{
		Topology: TopologyConfig{
			Zones:        zones,
			WardsPerZone: internal.DefaultWardsPerZone,
		},
		Server:     ServerConfig{Addr: ":8080"},
		Simulation: SimulationConfig{Count: 8},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = getEnvOrDefault(envAddr, cfg.Server.Addr)
	cfg.Simulation.Seed = getUint64OrDefault(envSeed, cfg.Simulation.Seed)
	cfg.Log.Verbosity = getIntOrDefault(envVerbosity, cfg.Log.Verbosity)
}

// Validate checks the configuration, including that the topology can be built.
func (c *Config) Validate() error {
	if c.Topology.WardsPerZone != internal.DefaultWardsPerZone {
		return fmt.Errorf("%w: every zone owns exactly %d wards, got %d",
			ErrInvalidConfig, internal.DefaultWardsPerZone, c.Topology.WardsPerZone)
	}
	if _, err := c.BuildTopology(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("%w: server address is required", ErrInvalidConfig)
	}
	if c.Simulation.Count < 0 {
		return fmt.Errorf("%w: simulation count cannot be negative", ErrInvalidConfig)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("%w: log verbosity cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// BuildTopology derives the immutable topology from the zone list.
func (c *Config) BuildTopology() (internal.Topology, error) {
	t, err := internal.NewTopology(c.Topology.Zones, c.Topology.WardsPerZone)
	if err != nil {
		return internal.Topology{}, fmt.Errorf("%w: topology: %v", ErrInvalidConfig, err)
	}
	return t, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if strValue := os.Getenv(key); strValue != "" {
		if value, err := strconv.Atoi(strValue); err == nil {
			return value
		}
		klog.V(2).InfoS("Invalid integer value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}

func getUint64OrDefault(key string, defaultValue uint64) uint64 {
	if strValue := os.Getenv(key); strValue != "" {
		if value, err := strconv.ParseUint(strValue, 10, 64); err == nil {
			return value
		}
		klog.V(2).InfoS("Invalid unsigned integer value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}
