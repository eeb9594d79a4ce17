package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storyboard/internal/common"
	"github.com/dmitrijs2005/storyboard/internal/generation"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
)

// finish applies a completion command. A completion that no longer fits the
// state (the scene was deleted or the session reset meanwhile) is dropped.
func (s *Session) finish(ctx context.Context, cmd storyboard.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.dispatch(ctx, cmd); err != nil {
		s.log.Warn(ctx, "result discarded", "command", fmt.Sprintf("%T", cmd), "error", err)
		return fmt.Errorf("result discarded: %w", err)
	}
	return nil
}

// join keeps err as is unless the failure could not be recorded either.
func join(err, discarded error) error {
	if discarded == nil {
		return err
	}
	return errors.Join(err, discarded)
}

// GenerateScript replaces the scene list with a freshly generated script.
func (s *Session) GenerateScript(ctx context.Context) error {
	s.mu.Lock()
	if _, err := s.dispatch(ctx, storyboard.BeginScript{}); err != nil {
		s.mu.Unlock()
		return err
	}
	st := s.store.State()
	s.mu.Unlock()

	req := generation.ScriptRequest{
		Plot:     st.Plot,
		Style:    st.Style,
		Count:    st.SceneCount,
		Assets:   st.Assets,
		Language: s.store.Catalog().Language(),
	}
	drafts, err := s.gen.GenerateScenes(ctx, req)
	if err != nil {
		s.log.Error(ctx, "script generation failed", "error", err)
		return join(s.alert(storyboard.AlertScriptFailed, err), s.finish(ctx, storyboard.ScriptFailed{}))
	}

	s.log.Info(ctx, "script generated", "requested", req.Count, "returned", len(drafts))
	return s.finish(ctx, storyboard.ScriptSucceeded{Drafts: drafts, Requested: req.Count})
}

// errHasVideo stops a bulk step whose scene got a video after the run began.
var errHasVideo = errors.New("scene already has a video")

// beginScene starts a per-scene generation and returns the snapshot the
// request is built from.
func (s *Session) beginScene(ctx context.Context, cmd storyboard.Command, sceneID string) (storyboard.State, storyboard.Scene, error) {
	return s.beginSceneIf(ctx, cmd, sceneID, nil)
}

// beginSceneIf is beginScene with a precondition checked under the same
// lock as the start command.
func (s *Session) beginSceneIf(ctx context.Context, cmd storyboard.Command, sceneID string, pre func(storyboard.Scene) error) (storyboard.State, storyboard.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pre != nil {
		if sc, ok := s.store.State().Scene(sceneID); ok {
			if err := pre(sc); err != nil {
				return storyboard.State{}, storyboard.Scene{}, err
			}
		}
	}
	if _, err := s.dispatch(ctx, cmd); err != nil {
		return storyboard.State{}, storyboard.Scene{}, err
	}
	st := s.store.State()
	sc, _ := st.Scene(sceneID)
	return st, sc, nil
}

// RegenerateScene rewrites one scene's text. Its still and video are
// dropped on success since they no longer match.
func (s *Session) RegenerateScene(ctx context.Context, sceneID string) error {
	st, sc, err := s.beginScene(ctx, storyboard.BeginSceneText{SceneID: sceneID}, sceneID)
	if err != nil {
		return err
	}

	draft, err := s.gen.RegenerateScene(ctx, generation.SceneRequest{
		Plot:               st.Plot,
		Style:              st.Style,
		Number:             sc.Number,
		CurrentDescription: sc.Description,
		Language:           s.store.Catalog().Language(),
	})
	if err != nil {
		s.log.Error(ctx, "scene text failed", "scene", sc.Number, "error", err)
		return join(fmt.Errorf("regenerate scene %d: %w", sc.Number, err), s.finish(ctx, storyboard.SceneTextFailed{SceneID: sceneID}))
	}
	return s.finish(ctx, storyboard.SceneTextSucceeded{SceneID: sceneID, Draft: draft})
}

// GenerateImage renders a still for one scene.
func (s *Session) GenerateImage(ctx context.Context, sceneID string) error {
	st, sc, err := s.beginScene(ctx, storyboard.BeginImage{SceneID: sceneID}, sceneID)
	if err != nil {
		return err
	}

	img, err := s.gen.GenerateImage(ctx, generation.ImageRequest{Scene: sc, Assets: st.Assets})
	if err != nil {
		s.log.Error(ctx, "image failed", "scene", sc.Number, "error", err)
		return join(s.alert(storyboard.AlertImageFailed, err), s.finish(ctx, storyboard.ImageFailed{SceneID: sceneID}))
	}
	return s.finish(ctx, storyboard.ImageSucceeded{SceneID: sceneID, Image: img})
}

// GenerateVideo renders a video for one scene. While no credential is
// selected the picker is opened instead and the call returns an alert
// wrapping common.ErrCredentialRequired. A credential error from the
// provider closes the gate again.
func (s *Session) GenerateVideo(ctx context.Context, sceneID string) error {
	if err := s.gate(ctx); err != nil {
		return err
	}
	return s.generateVideo(ctx, sceneID, nil)
}

func (s *Session) generateVideo(ctx context.Context, sceneID string, pre func(storyboard.Scene) error) error {
	st, sc, err := s.beginSceneIf(ctx, storyboard.BeginVideo{SceneID: sceneID}, sceneID, pre)
	if err != nil {
		return err
	}

	video, err := s.gen.GenerateVideo(ctx, generation.VideoRequest{
		Scene:      sc,
		Assets:     st.Assets,
		Resolution: st.Resolution,
		Duration:   st.Duration,
		Language:   s.store.Catalog().Language(),
	})
	if err == nil {
		s.log.Info(ctx, "video generated", "scene", sc.Number, "bytes", len(video.Data))
		return s.finish(ctx, storyboard.VideoSucceeded{SceneID: sceneID, Video: video})
	}

	s.log.Error(ctx, "video failed", "scene", sc.Number, "error", err)
	key := storyboard.AlertVideoFailed
	if isCredentialError(err) {
		key = storyboard.AlertCredential
		s.mu.Lock()
		s.revoke(ctx)
		s.mu.Unlock()
	}
	return join(s.alert(key, err), s.finish(ctx, storyboard.VideoFailed{SceneID: sceneID}))
}

// BulkResult counts what a bulk video run did.
type BulkResult struct {
	Generated int
	Skipped   int
	Failed    int
}

// GenerateAllVideos renders videos for every scene that has none, one scene
// at a time in ordinal order, after a single confirmation. Each scene is
// re-checked right before its request, so a video that appeared in the
// meantime is never replaced. A credential error or cancellation stops the
// run; other failures are counted and the run moves on.
func (s *Session) GenerateAllVideos(ctx context.Context) (BulkResult, error) {
	var res BulkResult

	st := s.State()
	if len(st.Scenes) == 0 {
		return res, common.ErrNoScenes
	}
	pending := st.PendingVideos()
	if pending == 0 {
		res.Skipped = len(st.Scenes)
		return res, nil
	}

	if err := s.gate(ctx); err != nil {
		return res, err
	}

	ok, err := s.confirm.Confirm(ctx, s.store.Catalog().Format(storyboard.ConfirmBulk, pending))
	if err != nil {
		return res, fmt.Errorf("confirm bulk: %w", err)
	}
	if !ok {
		return res, common.ErrNotConfirmed
	}

	if _, err := s.do(ctx, storyboard.BeginBulkVideos{Pending: pending}); err != nil {
		return res, err
	}

	for _, snap := range st.Scenes {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		err := s.generateVideo(ctx, snap.ID, onlyWithoutVideo)
		switch {
		case err == nil:
			res.Generated++
		case errors.Is(err, errHasVideo), errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrBusy):
			res.Skipped++
		case isCredentialError(err):
			res.Failed++
			return res, err
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			res.Failed++
			return res, err
		default:
			res.Failed++
			s.log.Warn(ctx, "bulk video continues after failure", "scene", snap.ID, "error", err)
		}
	}

	s.log.Info(ctx, "bulk videos done", "generated", res.Generated, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

func onlyWithoutVideo(sc storyboard.Scene) error {
	if sc.HasVideo() {
		return errHasVideo
	}
	return nil
}
