package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/storyboard/internal/common"
	"github.com/dmitrijs2005/storyboard/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv loads the dotenv file into the process environment and copies the
// recognised variables into cfg. Variables already set in the environment win
// over the file. An explicit -env file must exist; the default one is
// optional.
func parseEnv(cfg *Config, args []string) error {
	path := flagx.EnvFileFlag(args)
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	if key := os.Getenv(common.APIKeyEnv); key != "" {
		cfg.APIKey = key
	} else if key := os.Getenv(common.LegacyAPIKeyEnv); key != "" {
		cfg.APIKey = key
	}

	setString(&cfg.HTTPAddr, "STORYBOARD_HTTP_ADDR")
	setString(&cfg.Language, "STORYBOARD_LANG")
	setString(&cfg.JournalDSN, "STORYBOARD_JOURNAL_DSN")
	setString(&cfg.LogLevel, "STORYBOARD_LOG_LEVEL")
	setString(&cfg.S3AccessKey, "AWS_ACCESS_KEY_ID")
	setString(&cfg.S3SecretKey, "AWS_SECRET_ACCESS_KEY")
	return nil
}

func setString(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}
