package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureConfigFileWritesDefaultsOnce(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.ini")

	require.NoError(t, ensureConfigFile(configPath))
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, defaultConfigTemplate, string(data))

	require.NoError(t, os.WriteFile(configPath, []byte("PORT=9000\n"), 0o644))
	require.NoError(t, ensureConfigFile(configPath))
	data, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "PORT=9000\n", string(data))
}

func TestParseIniConfigUppercasesKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.ini")
	content := "port = 4000\n[storage]\nupload_path = /srv/uploads \n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	configMap, err := parseIniConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "4000", configMap["PORT"])
	assert.Equal(t, "/srv/uploads", configMap["UPLOAD_PATH"])
}

func TestApplyConfigMap(t *testing.T) {
	oldPort, oldUpload, oldIndex, oldOrigins := *Port, UploadPath, IndexEnabled, CORSOrigins
	oldRPS, oldBurst, oldGzip, oldLocale := RateLimitRPS, RateLimitBurst, *EnableGzip, *LocaleDirArg
	defer func() {
		*Port, UploadPath, IndexEnabled, CORSOrigins = oldPort, oldUpload, oldIndex, oldOrigins
		RateLimitRPS, RateLimitBurst, *EnableGzip, *LocaleDirArg = oldRPS, oldBurst, oldGzip, oldLocale
	}()

	err := applyConfigMap(map[string]string{
		"PORT":             "8081",
		"UPLOAD_PATH":      "/tmp/files",
		"ENABLE_INDEX":     "false",
		"ENABLE_GZIP":      "false",
		"CORS_ORIGINS":     "https://a.example, https://b.example,",
		"RATE_LIMIT_RPS":   "2.5",
		"RATE_LIMIT_BURST": "5",
		"LOCALE_DIR":       "/etc/file-server/locales",
	})
	require.NoError(t, err)
	assert.Equal(t, 8081, *Port)
	assert.Equal(t, "/tmp/files", UploadPath)
	assert.False(t, IndexEnabled)
	assert.False(t, *EnableGzip)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, CORSOrigins)
	assert.Equal(t, 2.5, RateLimitRPS)
	assert.Equal(t, 5, RateLimitBurst)
	assert.Equal(t, "/etc/file-server/locales", *LocaleDirArg)
}

func TestApplyConfigMapRejectsBadValues(t *testing.T) {
	oldPort := *Port
	defer func() { *Port = oldPort }()

	assert.Error(t, applyConfigMap(map[string]string{"PORT": "eighty"}))
	assert.Error(t, applyConfigMap(map[string]string{"ENABLE_INDEX": "maybe"}))
	assert.Error(t, applyConfigMap(map[string]string{"RATE_LIMIT_RPS": "fast"}))
}

func TestFormatTimeIsUTCWithMillis(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	ts := time.Date(2024, 3, 1, 8, 30, 0, 123456789, loc)
	assert.Equal(t, "2024-03-01T00:30:00.123Z", FormatTime(ts))
}
