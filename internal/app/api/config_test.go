package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intakeserver "github.com/Apurer/parcel-intake-api/go"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "POSTGRES_DSN", "TEMPORAL_DISABLED", "MANIFEST_ARCHIVE_BUCKET", "MANIFEST_ARCHIVE_PREFIX", "UPLOAD_MAX_BYTES"} {
		t.Setenv(key, "")
	}
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "manifests", cfg.ArchivePrefix)
	assert.Empty(t, cfg.ArchiveBucket)
	assert.False(t, cfg.TemporalDisabled)
	assert.Equal(t, intakeserver.DefaultMaxUploadBytes, cfg.UploadMaxBytes)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TEMPORAL_DISABLED", "yes")
	t.Setenv("MANIFEST_ARCHIVE_BUCKET", "intake-manifests")
	t.Setenv("UPLOAD_MAX_BYTES", "2048")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, "intake-manifests", cfg.ArchiveBucket)
	assert.EqualValues(t, 2048, cfg.UploadMaxBytes)
}

func TestLoadConfig_RejectsBadUploadLimit(t *testing.T) {
	t.Setenv("UPLOAD_MAX_BYTES", "-5")
	_, err := LoadConfig()
	require.Error(t, err)
}
