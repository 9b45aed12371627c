package configparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMode string

type testConfig struct {
	Mode testMode `env:"CP_MODE" default:"nav-service"`
	HTTP struct {
		Port string `env:"CP_HTTP_PORT" default:"3000"`
	}
	Drive struct {
		TickInterval  time.Duration `env:"CP_DRIVE_TICK_INTERVAL" default:"1s"`
		StopOnArrival bool          `env:"CP_DRIVE_STOP_ON_ARRIVAL" default:"true"`
		PersistEvery  int           `env:"CP_DRIVE_PERSIST_EVERY" default:"10"`
		Noise         float64       `env:"CP_DRIVE_NOISE" default:"10"`
	}
	untouched string
}

func TestFlattenYaml(t *testing.T) {
	t.Setenv("CP_SECRET", "from-env")

	src := `
# comment
cp:
  http:
    port: 8081 # inline
  drive:
    tick_interval: "250ms"
  secret: ${CP_SECRET:-fallback}
  other: ${CP_UNSET_VAR:-fallback}
`
	vars, err := flattenYaml(strings.NewReader(src))
	require.NoError(t, err)

	got := map[string]string{}
	for _, kv := range vars {
		got[kv[0]] = kv[1]
	}
	assert.Equal(t, "8081", got["CP_HTTP_PORT"])
	assert.Equal(t, "250ms", got["CP_DRIVE_TICK_INTERVAL"])
	assert.Equal(t, "from-env", got["CP_SECRET"])
	assert.Equal(t, "fallback", got["CP_OTHER"])
}

func TestParseEnv_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("CP_HTTP_PORT", "9090")
	t.Setenv("CP_DRIVE_STOP_ON_ARRIVAL", "false")

	var cfg testConfig
	require.NoError(t, ParseEnv(&cfg))

	assert.Equal(t, testMode("nav-service"), cfg.Mode)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, time.Second, cfg.Drive.TickInterval)
	assert.False(t, cfg.Drive.StopOnArrival)
	assert.Equal(t, 10, cfg.Drive.PersistEvery)
	assert.InDelta(t, 10.0, cfg.Drive.Noise, 1e-9)
	assert.Empty(t, cfg.untouched)
}

func TestParseEnv_BadValue(t *testing.T) {
	t.Setenv("CP_DRIVE_PERSIST_EVERY", "ten")

	var cfg testConfig
	err := ParseEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CP_DRIVE_PERSIST_EVERY")
}

func TestParseEnv_RejectsNonPointer(t *testing.T) {
	require.ErrorIs(t, ParseEnv(testConfig{}), ErrNotStructPointer)
}

func TestLoadAndParseYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cp:\n  drive:\n    persist_every: 3\n"), 0o600))

	// LoadYamlFile exports into the process env, clean up afterwards.
	t.Cleanup(func() { os.Unsetenv("CP_DRIVE_PERSIST_EVERY") })

	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(path, &cfg))
	assert.Equal(t, 3, cfg.Drive.PersistEvery)

	var missing testConfig
	require.NoError(t, LoadAndParseYaml(filepath.Join(dir, "nope.yaml"), &missing))
}
