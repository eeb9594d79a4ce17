package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/storyboard/internal/common"
)

// Config holds runtime settings shared by both binaries.
//
// VideoModel serves single-frame and text-only requests; VideoReferenceModel
// is used when more than one product image is attached.
type Config struct {
	HTTPAddr string
	APIKey   string

	TextModel           string
	ImageModel          string
	VideoModel          string
	VideoReferenceModel string

	PollInterval    time.Duration
	PollMaxAttempts int

	Language string
	LogLevel string

	DefaultSceneCount int
	DefaultResolution string
	DefaultDuration   int

	ExportTarget  string
	ExportDir     string
	ExportStagger time.Duration

	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3Prefix       string

	JournalDSN string
}

const (
	ExportTargetDir = "dir"
	ExportTargetS3  = "s3"
)

// LoadDefaults populates c with defaults suitable for local use.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.TextModel = "gemini-3-flash-preview"
	c.ImageModel = "gemini-2.5-flash-image"
	c.VideoModel = "veo-3.1-fast-generate-preview"
	c.VideoReferenceModel = "veo-3.1-generate-preview"
	c.PollInterval = 10 * time.Second
	c.PollMaxAttempts = 90
	c.Language = "zh"
	c.LogLevel = "info"
	c.DefaultSceneCount = 5
	c.DefaultResolution = "720p"
	c.DefaultDuration = 5
	c.ExportTarget = ExportTargetDir
	c.ExportDir = "exports"
	c.ExportStagger = 500 * time.Millisecond
	c.S3Region = "us-east-1"
}

// LoadConfig builds a Config from defaults, the environment, an optional JSON
// file and finally the flags found in args (normally os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch c.Language {
	case "zh", "en":
	default:
		return fmt.Errorf("%w: unsupported language %q", common.ErrValidation, c.Language)
	}
	switch c.ExportTarget {
	case ExportTargetDir:
	case ExportTargetS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("%w: s3 export needs a bucket", common.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown export target %q", common.ErrValidation, c.ExportTarget)
	}
	switch c.DefaultResolution {
	case "720p", "1080p":
	default:
		return fmt.Errorf("%w: unsupported resolution %q", common.ErrValidation, c.DefaultResolution)
	}
	switch c.DefaultDuration {
	case 5, 10, 15:
	default:
		return fmt.Errorf("%w: unsupported duration %d", common.ErrValidation, c.DefaultDuration)
	}
	if c.DefaultSceneCount < common.MinSceneCount || c.DefaultSceneCount > common.MaxSceneCount {
		return fmt.Errorf("%w: scene count %d out of range", common.ErrValidation, c.DefaultSceneCount)
	}
	if c.PollInterval <= 0 || c.PollMaxAttempts <= 0 {
		return fmt.Errorf("%w: polling must be positive", common.ErrValidation)
	}
	return nil
}
