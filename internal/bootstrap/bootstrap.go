// Package bootstrap assembles a storyboard session from a Config: the
// Gemini generator, the export sink, the optional history journal and the
// store seeded with the configured defaults. Both binaries use it.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/storyboard/internal/config"
	"github.com/dmitrijs2005/storyboard/internal/export"
	"github.com/dmitrijs2005/storyboard/internal/generation"
	"github.com/dmitrijs2005/storyboard/internal/generation/gemini"
	"github.com/dmitrijs2005/storyboard/internal/generation/poll"
	"github.com/dmitrijs2005/storyboard/internal/journal"
	"github.com/dmitrijs2005/storyboard/internal/logging"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
	"github.com/dmitrijs2005/storyboard/internal/workflow"
)

// Options carries the host-specific parts of a session.
type Options struct {
	Keys        *workflow.KeyHolder
	Credentials workflow.CredentialProvider
	Confirmer   workflow.Confirmer
	// Generator replaces the Gemini client when set.
	Generator generation.Generator
}

type Runtime struct {
	Session *workflow.Session
	Journal *journal.Journal
	Keys    *workflow.KeyHolder
}

var newSink = func(ctx context.Context, cfg *config.Config) (export.Sink, error) {
	if cfg.ExportTarget == config.ExportTargetS3 {
		return export.NewS3Sink(ctx, export.S3Config{
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Prefix:       cfg.S3Prefix,
		})
	}
	return export.NewDirSink(cfg.ExportDir)
}

func New(ctx context.Context, cfg *config.Config, log logging.Logger, opts Options) (*Runtime, error) {
	res, err := storyboard.ParseResolution(cfg.DefaultResolution)
	if err != nil {
		return nil, err
	}
	dur, err := storyboard.ParseDuration(cfg.DefaultDuration)
	if err != nil {
		return nil, err
	}

	keys := opts.Keys
	if keys == nil {
		keys = workflow.NewKeyHolder(cfg.APIKey)
	}
	creds := opts.Credentials
	if creds == nil {
		creds = keys
	}

	gen := opts.Generator
	if gen == nil {
		gen = gemini.New(gemini.Config{
			TextModel:           cfg.TextModel,
			ImageModel:          cfg.ImageModel,
			VideoModel:          cfg.VideoModel,
			VideoReferenceModel: cfg.VideoReferenceModel,
			Poll:                poll.Config{Interval: cfg.PollInterval, MaxAttempts: cfg.PollMaxAttempts},
		}, keys.Key, log)
	}

	cat := storyboard.NewCatalog(storyboard.Language(cfg.Language))

	sink, err := newSink(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("export sink: %w", err)
	}

	sessionOpts := []workflow.Option{
		workflow.WithCredentials(creds),
		workflow.WithExporter(export.New(sink, cat, cfg.ExportStagger, log)),
	}
	if opts.Confirmer != nil {
		sessionOpts = append(sessionOpts, workflow.WithConfirmer(opts.Confirmer))
	}

	rt := &Runtime{Keys: keys}
	if cfg.JournalDSN != "" {
		j, err := journal.Open(ctx, cfg.JournalDSN)
		if err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
		rt.Journal = j
		sessionOpts = append(sessionOpts, workflow.WithJournal(j))
	}

	store := storyboard.NewStore(storyboard.NewState(cfg.DefaultSceneCount, res, dur), cat)
	rt.Session = workflow.New(store, gen, log, sessionOpts...)

	log.Info(ctx, "session ready",
		"session", rt.Session.ID(),
		"language", cat.Language(),
		"export", cfg.ExportTarget,
		"journal", cfg.JournalDSN != "")
	return rt, nil
}

func (r *Runtime) Close() error {
	if r.Journal != nil {
		return r.Journal.Close()
	}
	return nil
}
