// Configuration loader for the fleet dashboard
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/telemetry"
)

// DroneSeed is the configured initial state of one drone.
type DroneSeed struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Battery        float64  `yaml:"battery"`
	Altitude       float64  `yaml:"altitude"`
	Latitude       float64  `yaml:"latitude"`
	Longitude      float64  `yaml:"longitude"`
	SignalStrength float64  `yaml:"signal_strength"`
	Status         string   `yaml:"status"`
	Alerts         []string `yaml:"alerts"`
}

// RedisConfig enables publishing live fleet state to Redis.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	StateTTL time.Duration `yaml:"state_ttl"`
	Channel  string        `yaml:"channel"`
}

// Config is the root configuration.
type Config struct {
	ClusterID    string           `yaml:"cluster_id"`
	TickInterval time.Duration    `yaml:"tick_interval"`
	AdminAddr    string           `yaml:"admin_addr"`
	SignalFloor  float64          `yaml:"signal_floor"`
	Thresholds   alert.Thresholds `yaml:"thresholds"`
	Drift        telemetry.Drift  `yaml:"drift"`
	Drones       []DroneSeed      `yaml:"drones"`
	Redis        *RedisConfig     `yaml:"redis"`
}

// Default returns the reference fleet with three sample drones.
func Default() *Config {
	return &Config{
		ClusterID:    "droneops",
		TickInterval: 2 * time.Second,
		AdminAddr:    ":8080",
		SignalFloor:  telemetry.DefaultSignalFloor,
		Thresholds:   alert.DefaultThresholds(),
		Drift:        telemetry.DefaultDrift(),
		Drones: []DroneSeed{
			{ID: "drone-1", Name: "Alpha-1", Battery: 85, Altitude: 120, Latitude: 19.1334, Longitude: 72.9133, SignalStrength: 92, Status: "active", Alerts: []string{}},
			{ID: "drone-2", Name: "Beta-2", Battery: 45, Altitude: 85, Latitude: 19.135, Longitude: 72.915, SignalStrength: 78, Status: "active", Alerts: []string{"Battery Low"}},
			{ID: "drone-3", Name: "Gamma-3", Battery: 95, Altitude: 200, Latitude: 19.131, Longitude: 72.911, SignalStrength: 88, Status: "docking", Alerts: []string{"Docking Underway"}},
		},
	}
}

// Load loads YAML config and validates it against a CUE schema
func Load(configPath, cueSchemaPath string) (*Config, error) {
	// Validate with CUE first
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read YAML config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default. Keys absent from data keep their
// default values; a drones list replaces the reference fleet.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot decode YAML config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks constraints the schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval))
	}
	if c.Thresholds.BatteryCritical > c.Thresholds.BatteryLow {
		errs = append(errs, fmt.Errorf("thresholds.battery_critical (%.1f) exceeds battery_low (%.1f)",
			c.Thresholds.BatteryCritical, c.Thresholds.BatteryLow))
	}
	if c.Redis != nil && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when redis is configured"))
	}
	return errors.Join(errs...)
}

// Seed converts the configured drones into fleet records.
func (c *Config) Seed() []telemetry.Drone {
	drones := make([]telemetry.Drone, len(c.Drones))
	for i, s := range c.Drones {
		alerts := make([]string, len(s.Alerts))
		copy(alerts, s.Alerts)
		drones[i] = telemetry.Drone{
			ID:      s.ID,
			Name:    s.Name,
			Battery: s.Battery,
			Position: telemetry.Position{
				Lat: s.Latitude,
				Lon: s.Longitude,
				Alt: s.Altitude,
			},
			SignalStrength: s.SignalStrength,
			Status:         telemetry.ParseStatus(s.Status),
			Alerts:         alerts,
		}
	}
	return drones
}
