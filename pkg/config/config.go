package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Store   StoreConfig   `yaml:"store"`
	Machine MachineConfig `yaml:"machine"`
	Mock    MockConfig    `yaml:"mock"`
}

// SerialConfig contains the serial link to the station MCU.
type SerialConfig struct {
	Port string `yaml:"port"`
}

// StoreConfig locates the calibration store image.
type StoreConfig struct {
	Image string `yaml:"image"` // empty means volatile (simulator)
	Size  int    `yaml:"size"`
}

// MachineConfig contains the dispensing parameters.
type MachineConfig struct {
	Volumes            []int         `yaml:"volumes"`             // informational mL per preset
	FactoryThresholds  []int32       `yaml:"factory_thresholds"`  // in-memory defaults before the store is read
	MedianWindow       int           `yaml:"median_window"`       // sample window, odd
	CalibrationSamples int           `yaml:"calibration_samples"` // readings averaged per calibration sample
	PollInterval       time.Duration `yaml:"poll_interval"`
	SplashDuration     time.Duration `yaml:"splash_duration"`
	PromptDuration     time.Duration `yaml:"prompt_duration"`
	ConfirmDuration    time.Duration `yaml:"confirm_duration"`
}

// MockConfig contains the simulated station parameters.
type MockConfig struct {
	TareCounts     int64         `yaml:"tare_counts"`     // empty-container reading magnitude
	CountsPerGram  float64       `yaml:"counts_per_gram"` // load cell sensitivity
	FlowRate       float64       `yaml:"flow_rate"`       // grams per second while the pump runs
	NoiseLevel     float64       `yaml:"noise_level"`     // noise amplitude in counts
	SampleInterval time.Duration `yaml:"sample_interval"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "/dev/ttyACM0",
		},
		Store: StoreConfig{
			Image: "eeprom.bin",
			Size:  16,
		},
		Machine: MachineConfig{
			Volumes:            []int{200, 450, 900},
			FactoryThresholds:  []int32{220000, 240000, 250000},
			MedianWindow:       3,
			CalibrationSamples: 5,
			PollInterval:       5 * time.Millisecond,
			SplashDuration:     800 * time.Millisecond,
			PromptDuration:     2 * time.Second,
			ConfirmDuration:    2500 * time.Millisecond,
		},
		Mock: MockConfig{
			TareCounts:     180000,
			CountsPerGram:  220,
			FlowRate:       18,
			NoiseLevel:     150,
			SampleInterval: 10 * time.Millisecond,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}

	if c.Store.Size == 0 {
		c.Store.Size = def.Store.Size
	}

	if len(c.Machine.Volumes) == 0 {
		c.Machine.Volumes = def.Machine.Volumes
	}
	if len(c.Machine.FactoryThresholds) == 0 {
		c.Machine.FactoryThresholds = def.Machine.FactoryThresholds
	}
	if c.Machine.MedianWindow == 0 {
		c.Machine.MedianWindow = def.Machine.MedianWindow
	}
	if c.Machine.CalibrationSamples == 0 {
		c.Machine.CalibrationSamples = def.Machine.CalibrationSamples
	}
	if c.Machine.PollInterval == 0 {
		c.Machine.PollInterval = def.Machine.PollInterval
	}
	if c.Machine.SplashDuration == 0 {
		c.Machine.SplashDuration = def.Machine.SplashDuration
	}
	if c.Machine.PromptDuration == 0 {
		c.Machine.PromptDuration = def.Machine.PromptDuration
	}
	if c.Machine.ConfirmDuration == 0 {
		c.Machine.ConfirmDuration = def.Machine.ConfirmDuration
	}

	if c.Mock.TareCounts == 0 {
		c.Mock.TareCounts = def.Mock.TareCounts
	}
	if c.Mock.CountsPerGram == 0 {
		c.Mock.CountsPerGram = def.Mock.CountsPerGram
	}
	if c.Mock.FlowRate == 0 {
		c.Mock.FlowRate = def.Mock.FlowRate
	}
	if c.Mock.NoiseLevel == 0 {
		c.Mock.NoiseLevel = def.Mock.NoiseLevel
	}
	if c.Mock.SampleInterval == 0 {
		c.Mock.SampleInterval = def.Mock.SampleInterval
	}
}
