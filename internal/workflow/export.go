package workflow

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/storyboard/internal/common"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
)

// ExportVideos writes every scene video through the exporter. With no
// videos yet it returns an alert wrapping common.ErrNoVideos.
func (s *Session) ExportVideos(ctx context.Context) ([]string, error) {
	if s.exporter == nil {
		return nil, ErrExportDisabled
	}

	s.mu.Lock()
	st := s.store.State()
	if len(st.VideoScenes()) == 0 {
		s.mu.Unlock()
		return nil, s.alert(storyboard.AlertNoVideos, common.ErrNoVideos)
	}
	_, err := s.dispatch(ctx, storyboard.ExportRecorded{Kind: storyboard.ExportVideos})
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	locs, err := s.exporter.Videos(ctx, st)
	if errors.Is(err, common.ErrNoVideos) {
		return nil, s.alert(storyboard.AlertNoVideos, err)
	}
	return locs, err
}

// ExportScript writes the script text file.
func (s *Session) ExportScript(ctx context.Context) (string, error) {
	return s.exportOne(ctx, storyboard.ExportScript, s.exporterScript)
}

// ExportContactSheet writes a PNG grid of the scene stills.
func (s *Session) ExportContactSheet(ctx context.Context) (string, error) {
	return s.exportOne(ctx, storyboard.ExportSheet, s.exporterSheet)
}

func (s *Session) exporterScript(ctx context.Context, st storyboard.State) (string, error) {
	return s.exporter.Script(ctx, st)
}

func (s *Session) exporterSheet(ctx context.Context, st storyboard.State) (string, error) {
	return s.exporter.ContactSheet(ctx, st)
}

func (s *Session) exportOne(ctx context.Context, kind storyboard.ExportKind, run func(context.Context, storyboard.State) (string, error)) (string, error) {
	if s.exporter == nil {
		return "", ErrExportDisabled
	}

	st := s.State()
	if len(st.Scenes) == 0 {
		return "", common.ErrNoScenes
	}

	loc, err := run(ctx, st)
	if err != nil {
		return "", err
	}

	if _, err := s.do(ctx, storyboard.ExportRecorded{Kind: kind}); err != nil {
		return loc, err
	}
	return loc, nil
}
