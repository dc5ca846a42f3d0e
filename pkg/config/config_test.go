package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, "eeprom.bin", cfg.Store.Image)
	assert.Equal(t, 16, cfg.Store.Size)
	assert.Equal(t, []int{200, 450, 900}, cfg.Machine.Volumes)
	assert.Equal(t, []int32{220000, 240000, 250000}, cfg.Machine.FactoryThresholds)
	assert.Equal(t, 3, cfg.Machine.MedianWindow)
	assert.Equal(t, 5, cfg.Machine.CalibrationSamples)
	assert.Equal(t, 5*time.Millisecond, cfg.Machine.PollInterval)
	assert.Equal(t, 800*time.Millisecond, cfg.Machine.SplashDuration)
	assert.Equal(t, 2*time.Second, cfg.Machine.PromptDuration)
	assert.Equal(t, 2500*time.Millisecond, cfg.Machine.ConfirmDuration)
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "COM7"

store:
  image: "/var/lib/dispenser/eeprom.bin"
  size: 32

machine:
  volumes: [250, 500, 1000]
  factory_thresholds: [210000, 235000, 255000]
  median_window: 5
  calibration_samples: 8
  poll_interval: 2ms
  splash_duration: 1s
  prompt_duration: 1500ms
  confirm_duration: 3s

mock:
  tare_counts: 150000
  counts_per_gram: 200
  flow_rate: 25
  noise_level: 80
  sample_interval: 5ms
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "COM7", cfg.Serial.Port)
	assert.Equal(t, "/var/lib/dispenser/eeprom.bin", cfg.Store.Image)
	assert.Equal(t, 32, cfg.Store.Size)
	assert.Equal(t, []int{250, 500, 1000}, cfg.Machine.Volumes)
	assert.Equal(t, []int32{210000, 235000, 255000}, cfg.Machine.FactoryThresholds)
	assert.Equal(t, 5, cfg.Machine.MedianWindow)
	assert.Equal(t, 8, cfg.Machine.CalibrationSamples)
	assert.Equal(t, 2*time.Millisecond, cfg.Machine.PollInterval)
	assert.Equal(t, time.Second, cfg.Machine.SplashDuration)
	assert.Equal(t, 1500*time.Millisecond, cfg.Machine.PromptDuration)
	assert.Equal(t, 3*time.Second, cfg.Machine.ConfirmDuration)
	assert.Equal(t, int64(150000), cfg.Mock.TareCounts)
	assert.Equal(t, float64(25), cfg.Mock.FlowRate)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("invalid: yaml: content: [")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "COM4"
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	// Should use defaults for missing fields
	assert.Equal(t, "COM4", cfg.Serial.Port)
	assert.Equal(t, []int{200, 450, 900}, cfg.Machine.Volumes)     // default
	assert.Equal(t, 3, cfg.Machine.MedianWindow)                   // default
	assert.Equal(t, 5*time.Millisecond, cfg.Machine.PollInterval)  // default
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Serial.Port = "/dev/ttyUSB0"
	cfg.Machine.MedianWindow = 5

	tmpfile, err := os.CreateTemp("", "test_save_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	err = cfg.Save(tmpfile.Name())
	require.NoError(t, err)

	// Load it back and verify
	loaded, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", loaded.Serial.Port)
	assert.Equal(t, 5, loaded.Machine.MedianWindow)
}
