package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.AppPort)
	assert.Equal(t, ImageStoreDisk, cfg.ImageStore)
	assert.Equal(t, JobStoreMemory, cfg.JobStore)
	assert.Equal(t, VisualizerPlaceholder, cfg.Visualizer)
	assert.Equal(t, 2, cfg.JobWorkers)
	assert.Equal(t, time.Hour, cfg.JobTTL)
	assert.Equal(t, "@every 1m", cfg.EvictionSchedule)
	assert.Equal(t, 0.5, cfg.ConfidenceThreshold)
	assert.False(t, cfg.DatabaseEnabled())
	assert.Equal(t, DetectionCacheMemory, cfg.DetectionCache)
	assert.Equal(t, int64(16<<20), cfg.DetectionCacheSize)
	assert.Equal(t, 24*time.Hour, cfg.DetectionCacheTTL)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"partial database", map[string]string{"DB_HOST": "db"}, "database configuration is incomplete"},
		{"partial minio", map[string]string{"IMAGE_STORE": "minio", "MINIO_ENDPOINT": "minio:9000"}, "minio configuration is incomplete"},
		{"unknown image store", map[string]string{"IMAGE_STORE": "s3"}, "unknown IMAGE_STORE"},
		{"redis without host", map[string]string{"JOB_STORE": "redis"}, "redis configuration is incomplete"},
		{"unknown visualizer", map[string]string{"VISUALIZER": "diffusion"}, "unknown VISUALIZER"},
		{"anthropic without key", map[string]string{"TEXT_PROVIDER": "anthropic", "ANTHROPIC_API_KEY": ""}, "ANTHROPIC_API_KEY"},
		{"unknown detection cache", map[string]string{"DETECTION_CACHE": "disk"}, "unknown DETECTION_CACHE"},
		{"redis detection cache without host", map[string]string{"DETECTION_CACHE": "redis"}, "redis configuration is incomplete"},
		{"empty memory detection cache", map[string]string{"DETECTION_CACHE_SIZE": "0"}, "DETECTION_CACHE_SIZE"},
		{"zero workers", map[string]string{"JOB_WORKERS": "0"}, "JOB_WORKERS"},
		{"threshold out of range", map[string]string{"CONFIDENCE_THRESHOLD": "1.5"}, "CONFIDENCE_THRESHOLD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig_YAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9100\"\njob_workers: 4\nvisualizer: collaborative\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JOB_WORKERS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.AppPort)
	assert.Equal(t, 3, cfg.JobWorkers)
	assert.Equal(t, VisualizerCollaborative, cfg.Visualizer)
}
