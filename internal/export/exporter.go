package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/storyboard/internal/common"
	"github.com/dmitrijs2005/storyboard/internal/logging"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
)

// Exporter renders storyboard state into files on a Sink.
type Exporter struct {
	sink    Sink
	cat     *storyboard.Catalog
	stagger time.Duration
	log     logging.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

func New(sink Sink, cat *storyboard.Catalog, stagger time.Duration, log logging.Logger) *Exporter {
	return &Exporter{
		sink:    sink,
		cat:     cat,
		stagger: stagger,
		log:     log.With("module", "export"),
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Videos writes every scene video, one at a time in ordinal order, waiting
// the stagger delay between files. Names carry the zero-padded scene number.
func (e *Exporter) Videos(ctx context.Context, st storyboard.State) ([]string, error) {
	scenes := st.VideoScenes()
	if len(scenes) == 0 {
		return nil, common.ErrNoVideos
	}

	locations := make([]string, 0, len(scenes))
	for i, sc := range scenes {
		if i > 0 {
			if err := e.sleep(ctx, e.stagger); err != nil {
				return locations, err
			}
		}
		video, _ := storyboard.VideoOf(sc.Media)
		loc, err := e.sink.Put(ctx, e.cat.VideoFileName(sc.Number), video.Data, orDefault(video.MIMEType, "video/mp4"))
		if err != nil {
			return locations, fmt.Errorf("export scene %d: %w", sc.Number, err)
		}
		e.log.Info(ctx, "video exported", "scene", sc.Number, "location", loc)
		locations = append(locations, loc)
	}
	return locations, nil
}

// Script writes the script text file.
func (e *Exporter) Script(ctx context.Context, st storyboard.State) (string, error) {
	loc, err := e.sink.Put(ctx, e.cat.Format(storyboard.LabelScriptFile), []byte(ScriptText(st, e.cat)), "text/plain; charset=utf-8")
	if err != nil {
		return "", fmt.Errorf("export script: %w", err)
	}
	e.log.Info(ctx, "script exported", "location", loc)
	return loc, nil
}

// ContactSheet writes a PNG grid of all scene stills.
func (e *Exporter) ContactSheet(ctx context.Context, st storyboard.State) (string, error) {
	data, err := ContactSheet(st)
	if err != nil {
		return "", err
	}
	loc, err := e.sink.Put(ctx, e.cat.Format(storyboard.LabelSheetFile), data, "image/png")
	if err != nil {
		return "", fmt.Errorf("export contact sheet: %w", err)
	}
	e.log.Info(ctx, "contact sheet exported", "location", loc)
	return loc, nil
}

// ScriptText lays the scenes out as plain text: a heading per scene followed
// by its four fields, scenes separated by a blank line.
func ScriptText(st storyboard.State, cat *storyboard.Catalog) string {
	var b strings.Builder
	for i, sc := range st.Scenes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(cat.Format(storyboard.LabelScene, sc.Number))
		b.WriteString("\n")
		for _, f := range storyboard.Fields {
			b.WriteString(cat.Format(storyboard.LabelField, cat.FieldLabel(f), sc.Field(f)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
