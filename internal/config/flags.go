package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/storyboard/internal/flagx"
)

// parseFlags populates cfg from command-line flags. Flags not listed here
// (like -c or -env) are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-l", "-d", "-t", "-o", "-v", "-n", "-i", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("storyboard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "model API key")
	fs.StringVar(&cfg.Language, "l", cfg.Language, "message language (zh|en)")
	fs.StringVar(&cfg.JournalDSN, "d", cfg.JournalDSN, "journal DSN")
	fs.StringVar(&cfg.ExportTarget, "t", cfg.ExportTarget, "export target (dir|s3)")
	fs.StringVar(&cfg.ExportDir, "o", cfg.ExportDir, "export directory")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")
	fs.IntVar(&cfg.DefaultSceneCount, "n", cfg.DefaultSceneCount, "default scene count")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "video poll interval (in seconds)")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	if isSet(fs, "i") {
		cfg.PollInterval = time.Duration(*pollInterval) * time.Second
	}
	return nil
}

func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
