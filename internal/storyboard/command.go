package storyboard

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storyboard/internal/common"
)

// Command is one of the mutations defined in this package. The set is closed.
type Command interface {
	apply(s *State, e env) (string, error)
}

type env struct {
	cat   *Catalog
	newID func() string
}

func (s *State) findScene(id string) (*Scene, error) {
	i := s.sceneIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("scene %s: %w", id, common.ErrorNotFound)
	}
	return &s.Scenes[i], nil
}

// startScene marks one of the busy flags, refusing when either is set.
func (s *State) startScene(id string, flag func(*Scene) *bool) (*Scene, error) {
	sc, err := s.findScene(id)
	if err != nil {
		return nil, err
	}
	if sc.Busy() {
		return nil, fmt.Errorf("scene %d: %w", sc.Number, common.ErrBusy)
	}
	*flag(sc) = true
	return sc, nil
}

// finishScene clears a busy flag that must currently be set.
func (s *State) finishScene(id string, flag func(*Scene) *bool) (*Scene, error) {
	sc, err := s.findScene(id)
	if err != nil {
		return nil, err
	}
	if !*flag(sc) {
		return nil, fmt.Errorf("scene %d: %w", sc.Number, common.ErrNotRunning)
	}
	*flag(sc) = false
	return sc, nil
}

func textFlag(sc *Scene) *bool  { return &sc.TextBusy }
func videoFlag(sc *Scene) *bool { return &sc.VideoBusy }

// Settings.

type SetPlot struct{ Plot string }

func (c SetPlot) apply(s *State, e env) (string, error) {
	s.Plot = c.Plot
	return e.cat.Format(MsgPlotSet), nil
}

type SetStyle struct{ Style string }

func (c SetStyle) apply(s *State, e env) (string, error) {
	s.Style = c.Style
	return e.cat.Format(MsgStyleSet), nil
}

// SetSceneCount clamps Count into the allowed range.
type SetSceneCount struct{ Count int }

func (c SetSceneCount) apply(s *State, e env) (string, error) {
	s.SceneCount = clampSceneCount(c.Count)
	return e.cat.Format(MsgSceneCountSet, s.SceneCount), nil
}

type SetResolution struct{ Resolution Resolution }

func (c SetResolution) apply(s *State, e env) (string, error) {
	r, err := ParseResolution(string(c.Resolution))
	if err != nil {
		return "", err
	}
	s.Resolution = r
	return e.cat.Format(MsgResolutionSet, r), nil
}

type SetDuration struct{ Duration VideoDuration }

func (c SetDuration) apply(s *State, e env) (string, error) {
	d, err := ParseDuration(int(c.Duration))
	if err != nil {
		return "", err
	}
	s.Duration = d
	return e.cat.Format(MsgDurationSet, int(d)), nil
}

// Scenes.

type EditScene struct {
	SceneID string
	Field   SceneField
	Value   string
}

func (c EditScene) apply(s *State, e env) (string, error) {
	f, err := ParseSceneField(string(c.Field))
	if err != nil {
		return "", err
	}
	sc, err := s.findScene(c.SceneID)
	if err != nil {
		return "", err
	}
	sc.setField(f, c.Value)
	return e.cat.Format(MsgSceneEdited, sc.Number, e.cat.FieldLabel(f)), nil
}

// DeleteScene removes a scene and renumbers the rest from 1.
type DeleteScene struct{ SceneID string }

func (c DeleteScene) apply(s *State, e env) (string, error) {
	i := s.sceneIndex(c.SceneID)
	if i < 0 {
		return "", fmt.Errorf("scene %s: %w", c.SceneID, common.ErrorNotFound)
	}
	number := s.Scenes[i].Number
	s.Scenes = append(s.Scenes[:i:i], s.Scenes[i+1:]...)
	for j := range s.Scenes {
		s.Scenes[j].Number = j + 1
	}
	return e.cat.Format(MsgSceneDeleted, number), nil
}

// Assets.

// AddAsset appends an asset. An empty ID is filled in.
type AddAsset struct{ Asset ProductAsset }

func (c AddAsset) apply(s *State, e env) (string, error) {
	a := c.Asset
	if a.Kind != AssetImage && a.Kind != AssetVideo {
		return "", fmt.Errorf("%w: asset kind %q", common.ErrValidation, a.Kind)
	}
	if a.Data == "" {
		return "", fmt.Errorf("%w: empty asset", common.ErrValidation)
	}
	if a.ID == "" {
		a.ID = e.newID()
	}
	if s.assetIndex(a.ID) >= 0 {
		return "", fmt.Errorf("%w: duplicate asset id %s", common.ErrValidation, a.ID)
	}
	s.Assets = append(s.Assets, a)
	return e.cat.Format(MsgAssetAdded, a.Name), nil
}

type RemoveAsset struct{ AssetID string }

func (c RemoveAsset) apply(s *State, e env) (string, error) {
	i := s.assetIndex(c.AssetID)
	if i < 0 {
		return "", fmt.Errorf("asset %s: %w", c.AssetID, common.ErrorNotFound)
	}
	s.Assets = append(s.Assets[:i:i], s.Assets[i+1:]...)
	return e.cat.Format(MsgAssetRemoved), nil
}

// Script generation.

type BeginScript struct{}

func (BeginScript) apply(s *State, e env) (string, error) {
	if s.ScriptBusy {
		return "", fmt.Errorf("script: %w", common.ErrBusy)
	}
	if strings.TrimSpace(s.Plot) == "" {
		return "", fmt.Errorf("%w: plot is empty", common.ErrValidation)
	}
	s.ScriptBusy = true
	return e.cat.Format(MsgScriptStarted, plotPreview(s.Plot)), nil
}

// ScriptSucceeded replaces the whole scene list. Drafts beyond Requested are
// dropped; ordinals are always 1..len regardless of what the model numbered.
type ScriptSucceeded struct {
	Drafts    []SceneDraft
	Requested int
}

func (c ScriptSucceeded) apply(s *State, e env) (string, error) {
	if !s.ScriptBusy {
		return "", fmt.Errorf("script: %w", common.ErrNotRunning)
	}
	drafts := c.Drafts
	if c.Requested > 0 && len(drafts) > c.Requested {
		drafts = drafts[:c.Requested]
	}

	scenes := make([]Scene, 0, len(drafts))
	for i, d := range drafts {
		scenes = append(scenes, Scene{
			ID:            e.newID(),
			Number:        i + 1,
			Description:   d.Description,
			CameraAngle:   d.CameraAngle,
			Lighting:      d.Lighting,
			ProductAction: d.ProductAction,
			Media:         NoMedia{},
		})
	}
	s.Scenes = scenes
	s.ScriptBusy = false
	return e.cat.Format(MsgScriptSucceeded, len(scenes)), nil
}

type ScriptFailed struct{}

func (ScriptFailed) apply(s *State, e env) (string, error) {
	if !s.ScriptBusy {
		return "", fmt.Errorf("script: %w", common.ErrNotRunning)
	}
	s.ScriptBusy = false
	return e.cat.Format(MsgScriptFailed), nil
}

// Scene text regeneration.

type BeginSceneText struct{ SceneID string }

func (c BeginSceneText) apply(s *State, e env) (string, error) {
	sc, err := s.startScene(c.SceneID, textFlag)
	if err != nil {
		return "", err
	}
	return e.cat.Format(MsgSceneTextStarted, sc.Number), nil
}

// SceneTextSucceeded overwrites the four text fields and drops any media,
// which no longer matches the text. The ordinal is kept.
type SceneTextSucceeded struct {
	SceneID string
	Draft   SceneDraft
}

func (c SceneTextSucceeded) apply(s *State, e env) (string, error) {
	sc, err := s.finishScene(c.SceneID, textFlag)
	if err != nil {
		return "", err
	}
	sc.Description = c.Draft.Description
	sc.CameraAngle = c.Draft.CameraAngle
	sc.Lighting = c.Draft.Lighting
	sc.ProductAction = c.Draft.ProductAction
	sc.Media = NoMedia{}
	return e.cat.Format(MsgSceneTextSucceeded, sc.Number), nil
}

type SceneTextFailed struct{ SceneID string }

func (c SceneTextFailed) apply(s *State, e env) (string, error) {
	sc, err := s.finishScene(c.SceneID, textFlag)
	if err != nil {
		return "", err
	}
	return e.cat.Format(MsgSceneTextFailed, sc.Number), nil
}

// Still images share the text busy flag.

type BeginImage struct{ SceneID string }

func (c BeginImage) apply(s *State, e env) (string, error) {
	sc, err := s.startScene(c.SceneID, textFlag)
	if err != nil {
		return "", err
	}
	return e.cat.Format(MsgImageStarted, sc.Number), nil
}

type ImageSucceeded struct {
	SceneID string
	Image   Blob
}

func (c ImageSucceeded) apply(s *State, e env) (string, error) {
	sc, err := s.finishScene(c.SceneID, textFlag)
	if err != nil {
		return "", err
	}
	sc.Media = withImage(sc.Media, c.Image)
	return e.cat.Format(MsgImageSucceeded, sc.Number), nil
}

type ImageFailed struct{ SceneID string }

func (c ImageFailed) apply(s *State, e env) (string, error) {
	sc, err := s.finishScene(c.SceneID, textFlag)
	if err != nil {
		return "", err
	}
	return e.cat.Format(MsgImageFailed, sc.Number), nil
}

// Videos.

type BeginVideo struct{ SceneID string }

func (c BeginVideo) apply(s *State, e env) (string, error) {
	sc, err := s.startScene(c.SceneID, videoFlag)
	if err != nil {
		return "", err
	}
	return e.cat.Format(MsgVideoStarted, sc.Number), nil
}

type VideoSucceeded struct {
	SceneID string
	Video   Blob
}

func (c VideoSucceeded) apply(s *State, e env) (string, error) {
	sc, err := s.finishScene(c.SceneID, videoFlag)
	if err != nil {
		return "", err
	}
	sc.Media = withVideo(sc.Media, c.Video)
	return e.cat.Format(MsgVideoSucceeded, sc.Number), nil
}

// VideoFailed clears the flag and leaves the media alone.
type VideoFailed struct{ SceneID string }

func (c VideoFailed) apply(s *State, e env) (string, error) {
	sc, err := s.finishScene(c.SceneID, videoFlag)
	if err != nil {
		return "", err
	}
	return e.cat.Format(MsgVideoFailed, sc.Number), nil
}

// BeginBulkVideos records the start of a confirmed bulk run.
type BeginBulkVideos struct{ Pending int }

func (c BeginBulkVideos) apply(s *State, e env) (string, error) {
	return e.cat.Format(MsgBulkVideos, c.Pending), nil
}

// Session-level events.

type CredentialSelected struct{}

func (CredentialSelected) apply(s *State, e env) (string, error) {
	return e.cat.Format(MsgCredentialSelected), nil
}

type ExportKind string

const (
	ExportVideos ExportKind = "videos"
	ExportScript ExportKind = "script"
	ExportSheet  ExportKind = "sheet"
)

type ExportRecorded struct{ Kind ExportKind }

func (c ExportRecorded) apply(s *State, e env) (string, error) {
	switch c.Kind {
	case ExportVideos:
		return e.cat.Format(MsgExportVideos), nil
	case ExportScript:
		return e.cat.Format(MsgExportScript), nil
	case ExportSheet:
		return e.cat.Format(MsgExportSheet), nil
	}
	return "", fmt.Errorf("%w: export kind %q", common.ErrValidation, c.Kind)
}

// Reset empties the session, history included, and keeps the output
// settings. The reset itself becomes the first entry of the new history.
type Reset struct{}

func (Reset) apply(s *State, e env) (string, error) {
	*s = State{
		SceneCount: s.SceneCount,
		Resolution: s.Resolution,
		Duration:   s.Duration,
	}
	return e.cat.Format(MsgSessionReset), nil
}
