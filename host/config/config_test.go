package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vnhdrive/core"
)

func TestDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDevice, cfg.Serial.Device)
	assert.Equal(t, 9600, cfg.Serial.Baud)
	assert.Equal(t, DefaultReadTimeout, cfg.Serial.ReadTimeout)
	assert.Equal(t, DefaultBroker, cfg.MQTT.Broker)
	assert.Equal(t, DefaultPrefix, cfg.MQTT.Prefix)
	assert.Empty(t, cfg.MQTT.ClientID)
	assert.Equal(t, DefaultTick, cfg.Sim.Tick)
	assert.Equal(t, core.DefaultConfig(), cfg.Motor())
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
serial:
  device: /dev/ttyACM1
  read_timeout_ms: 250
mqtt:
  broker: tcp://broker:1883
  prefix: lab
  client_id: bench
sim:
  tick: 5ms
  step: 20
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM1", cfg.Serial.Device)
	assert.Equal(t, 9600, cfg.Serial.Baud)
	assert.Equal(t, 250, cfg.Serial.ReadTimeout)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, "lab", cfg.MQTT.Prefix)
	assert.Equal(t, "bench", cfg.MQTT.ClientID)
	assert.Equal(t, 5*time.Millisecond, cfg.Sim.Tick)
	assert.Equal(t, uint16(200), cfg.Sim.Top)
	assert.Equal(t, uint16(20), cfg.Sim.Step)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("VNH_DEVICE", "/dev/pts/7")
	t.Setenv("VNH_MQTT_PREFIX", "garage")
	t.Setenv("VNH_SIM_TICK", "2ms")

	cfg, err := Parse([]byte("serial:\n  device: /dev/ttyACM0\nmqtt:\n  prefix: lab\n"))
	require.NoError(t, err)

	assert.Equal(t, "/dev/pts/7", cfg.Serial.Device)
	assert.Equal(t, "garage", cfg.MQTT.Prefix)
	assert.Equal(t, 2*time.Millisecond, cfg.Sim.Tick)
}

func TestUnknownKeyRejected(t *testing.T) {
	_, err := Parse([]byte("serial:\n  speed: 115200\n"))
	require.Error(t, err)
}

func TestInvalidStep(t *testing.T) {
	_, err := Parse([]byte("sim:\n  top: 10\n  step: 20\n"))
	require.ErrorIs(t, err, core.ErrInvalidStep)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vnh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serial:\n  baud: 19200\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 19200, cfg.SerialPort().Baud)
	assert.Equal(t, DefaultDevice, cfg.SerialPort().Device)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDevice, cfg.Serial.Device)
}
