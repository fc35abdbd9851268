package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func parseTestFlags(t *testing.T, args ...string) *StructuredConfig {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg := BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return cfg
}

// ── build ────────────────────────────────────────────────────────────────────

func TestGetStructuredConfig_Defaults(t *testing.T) {
	cfg, err := GetStructuredConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "secret.key", cfg.Paths.KeyFile)
	assert.Equal(t, "vault_data.json", cfg.Paths.DataFile)
	assert.Equal(t, "face_encodings.bin", cfg.Paths.EncodingsFile)
	assert.Equal(t, 0.6, cfg.Auth.Tolerance)
	assert.Equal(t, 3, cfg.Auth.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.Auth.Timeout)
	assert.Equal(t, 3, cfg.Auth.RequiredConsecutiveMatches)
	assert.Equal(t, 100*time.Millisecond, cfg.Auth.TickInterval)
	assert.Equal(t, 3, cfg.Security.ShredPasses)
	assert.True(t, cfg.Storage.AuditEnabled())
}

func TestGetStructuredConfig_ResolvesPathsAgainstDir(t *testing.T) {
	dir := t.TempDir()
	cfg, err := GetStructuredConfig(parseTestFlags(t, "--dir", dir, "--key-file", "/abs/secret.key"))
	require.NoError(t, err)

	assert.Equal(t, "/abs/secret.key", cfg.Paths.KeyFile)
	assert.Equal(t, filepath.Join(dir, "vault_data.json"), cfg.Paths.DataFile)
	assert.Equal(t, filepath.Join(dir, "secret.salt"), cfg.Paths.SaltFile)
}

func TestGetStructuredConfig_FlagsOverrideEnv(t *testing.T) {
	setEnvVars(t, map[string]string{
		"NEUROVAULT_AUTH_MAX_ATTEMPTS": "5",
		"NEUROVAULT_AUTH_TIMEOUT":      "30s",
	})

	cfg, err := GetStructuredConfig(parseTestFlags(t, "--max-attempts", "7"))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Auth.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Auth.Timeout)
}

func TestGetStructuredConfig_EnvOverridesJSON(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"auth": map[string]any{
			"tolerance": 0.45,
			"timeout":   "20s",
		},
		"security": map[string]any{"shred_passes": 7},
	})
	setEnvVars(t, map[string]string{
		"NEUROVAULT_CONFIG":         path,
		"NEUROVAULT_AUTH_TOLERANCE": "0.5",
	})

	cfg, err := GetStructuredConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Auth.Tolerance)
	assert.Equal(t, 20*time.Second, cfg.Auth.Timeout)
	assert.Equal(t, 7, cfg.Security.ShredPasses)
}

func TestGetStructuredConfig_JSONFromFlag(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"capture": map[string]any{"command": "face-capture --camera 0"},
		"storage": map[string]any{"audit_dsn": "off"},
	})

	cfg, err := GetStructuredConfig(parseTestFlags(t, "-c", path))
	require.NoError(t, err)

	assert.Equal(t, []string{"face-capture", "--camera", "0"}, cfg.Capture.CommandArgs())
	assert.False(t, cfg.Storage.AuditEnabled())
}

func TestGetStructuredConfig_MissingJSONFile(t *testing.T) {
	_, err := GetStructuredConfig(parseTestFlags(t, "--config", filepath.Join(t.TempDir(), "absent.json")))
	assert.Error(t, err)
}

func TestGetStructuredConfig_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := GetStructuredConfig(parseTestFlags(t, "--config", path))
	assert.Error(t, err)
}

func TestGetStructuredConfig_BadEnvValue(t *testing.T) {
	setEnvVars(t, map[string]string{"NEUROVAULT_AUTH_MAX_ATTEMPTS": "many"})

	_, err := GetStructuredConfig(nil)
	assert.Error(t, err)
}

func TestGetStructuredConfig_InvalidKDF(t *testing.T) {
	_, err := GetStructuredConfig(parseTestFlags(t, "--kdf", "md5"))
	assert.ErrorIs(t, err, ErrInvalidSecurityConfigs)
}

// ── Duration ─────────────────────────────────────────────────────────────────

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", input: `"250ms"`, want: 250 * time.Millisecond},
		{name: "nanoseconds", input: `1000`, want: time.Microsecond},
		{name: "bad string", input: `"soon"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}
