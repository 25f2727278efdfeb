// Package config loads host tooling settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v2"

	"vnhdrive/core"
	"vnhdrive/host/serial"
	"vnhdrive/protocol"
)

// Defaults
const (
	DefaultDevice      = "/dev/ttyUSB0"
	DefaultReadTimeout = 100 // ms
	DefaultBroker      = "tcp://localhost:1883"
	DefaultPrefix      = "vnhdrive"
	DefaultTick        = time.Millisecond
)

// Config is the complete host configuration
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	Sim    SimConfig    `yaml:"sim"`
}

// SerialConfig selects the board link
type SerialConfig struct {
	Device      string `yaml:"device" env:"VNH_DEVICE"`
	Baud        int    `yaml:"baud" env:"VNH_BAUD"`
	ReadTimeout int    `yaml:"read_timeout_ms" env:"VNH_READ_TIMEOUT_MS"`
}

// MQTTConfig configures the MQTT bridge
type MQTTConfig struct {
	Broker   string `yaml:"broker" env:"VNH_MQTT_BROKER"`
	Prefix   string `yaml:"prefix" env:"VNH_MQTT_PREFIX"`
	ClientID string `yaml:"client_id" env:"VNH_MQTT_CLIENT_ID"`
	Username string `yaml:"username" env:"VNH_MQTT_USERNAME"`
	Password string `yaml:"password" env:"VNH_MQTT_PASSWORD"`
}

// SimConfig configures the virtual board
type SimConfig struct {
	Tick      time.Duration `yaml:"tick" env:"VNH_SIM_TICK"`
	Top       uint16        `yaml:"top" env:"VNH_SIM_TOP"`
	Step      uint16        `yaml:"step" env:"VNH_SIM_STEP"`
	CarrierHz uint32        `yaml:"carrier_hz" env:"VNH_SIM_CARRIER_HZ"`
}

// Load reads path (skipped when empty), applies VNH_* environment
// overrides and fills in defaults.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes YAML data, then applies environment overrides and defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *Config) {
	if cfg.Serial.Device == "" {
		cfg.Serial.Device = DefaultDevice
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = protocol.BaudRate
	}
	if cfg.Serial.ReadTimeout == 0 {
		cfg.Serial.ReadTimeout = DefaultReadTimeout
	}

	if cfg.MQTT.Broker == "" {
		cfg.MQTT.Broker = DefaultBroker
	}
	if cfg.MQTT.Prefix == "" {
		cfg.MQTT.Prefix = DefaultPrefix
	}
	// An empty client id is resolved from the machine id by the bridge

	motor := core.DefaultConfig()
	if cfg.Sim.Tick == 0 {
		cfg.Sim.Tick = DefaultTick
	}
	if cfg.Sim.Top == 0 {
		cfg.Sim.Top = motor.Top
	}
	if cfg.Sim.Step == 0 {
		cfg.Sim.Step = motor.Step
	}
	if cfg.Sim.CarrierHz == 0 {
		cfg.Sim.CarrierHz = motor.CarrierHz
	}
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	if c.Serial.Baud < 0 {
		return fmt.Errorf("invalid baud rate %d", c.Serial.Baud)
	}
	if c.Sim.Tick < 0 {
		return fmt.Errorf("invalid simulator tick %s", c.Sim.Tick)
	}
	if c.Sim.Step > c.Sim.Top {
		return fmt.Errorf("simulator step %d exceeds top %d: %w", c.Sim.Step, c.Sim.Top, core.ErrInvalidStep)
	}
	return nil
}

// SerialPort returns the serial port settings
func (c *Config) SerialPort() *serial.Config {
	return &serial.Config{
		Device:      c.Serial.Device,
		Baud:        c.Serial.Baud,
		ReadTimeout: c.Serial.ReadTimeout,
	}
}

// Motor returns the firmware settings used by the simulator
func (c *Config) Motor() core.Config {
	return core.Config{
		Top:       c.Sim.Top,
		Step:      c.Sim.Step,
		CarrierHz: c.Sim.CarrierHz,
	}
}
