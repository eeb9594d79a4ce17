package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/storyboard/internal/flagx"
	"github.com/dmitrijs2005/storyboard/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer and zero
// values mean "not set" and leave the current value alone.
type JsonConfig struct {
	HTTPAddr            string          `json:"http_addr"`
	APIKey              string          `json:"api_key"`
	TextModel           string          `json:"text_model"`
	ImageModel          string          `json:"image_model"`
	VideoModel          string          `json:"video_model"`
	VideoReferenceModel string          `json:"video_reference_model"`
	PollInterval        *timex.Duration `json:"poll_interval"`
	PollMaxAttempts     int             `json:"poll_max_attempts"`
	Language            string          `json:"language"`
	LogLevel            string          `json:"log_level"`
	DefaultSceneCount   int             `json:"default_scene_count"`
	DefaultResolution   string          `json:"default_resolution"`
	DefaultDuration     int             `json:"default_duration"`
	ExportTarget        string          `json:"export_target"`
	ExportDir           string          `json:"export_dir"`
	ExportStagger       *timex.Duration `json:"export_stagger"`
	S3AccessKey         string          `json:"s3_access_key"`
	S3SecretKey         string          `json:"s3_secret_key"`
	S3Bucket            string          `json:"s3_bucket"`
	S3Region            string          `json:"s3_region"`
	S3BaseEndpoint      string          `json:"s3_base_endpoint"`
	S3Prefix            string          `json:"s3_prefix"`
	JournalDSN          string          `json:"journal_dsn"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	overlay(&cfg.HTTPAddr, jc.HTTPAddr)
	overlay(&cfg.APIKey, jc.APIKey)
	overlay(&cfg.TextModel, jc.TextModel)
	overlay(&cfg.ImageModel, jc.ImageModel)
	overlay(&cfg.VideoModel, jc.VideoModel)
	overlay(&cfg.VideoReferenceModel, jc.VideoReferenceModel)
	overlay(&cfg.Language, jc.Language)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.DefaultResolution, jc.DefaultResolution)
	overlay(&cfg.ExportTarget, jc.ExportTarget)
	overlay(&cfg.ExportDir, jc.ExportDir)
	overlay(&cfg.S3AccessKey, jc.S3AccessKey)
	overlay(&cfg.S3SecretKey, jc.S3SecretKey)
	overlay(&cfg.S3Bucket, jc.S3Bucket)
	overlay(&cfg.S3Region, jc.S3Region)
	overlay(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	overlay(&cfg.S3Prefix, jc.S3Prefix)
	overlay(&cfg.JournalDSN, jc.JournalDSN)

	overlay(&cfg.PollMaxAttempts, jc.PollMaxAttempts)
	overlay(&cfg.DefaultSceneCount, jc.DefaultSceneCount)
	overlay(&cfg.DefaultDuration, jc.DefaultDuration)

	if jc.PollInterval != nil {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.ExportStagger != nil {
		cfg.ExportStagger = jc.ExportStagger.Duration
	}
	return nil
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
