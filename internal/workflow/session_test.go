package workflow

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/dmitrijs2005/storyboard/internal/common"
	"github.com/dmitrijs2005/storyboard/internal/generation"
	"github.com/dmitrijs2005/storyboard/internal/logging"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(st storyboard.State) []string {
	out := make([]string, 0, len(st.Scenes))
	for _, sc := range st.Scenes {
		out = append(out, sc.ID)
	}
	return out
}

func numbers(st storyboard.State) []int {
	out := make([]int, 0, len(st.Scenes))
	for _, sc := range st.Scenes {
		out = append(out, sc.Number)
	}
	return out
}

func TestScriptThenDelete_WatchScenario(t *testing.T) {
	gen := &fakeGenerator{}
	confirm := &recordingConfirmer{answer: true}
	s := newTestSession(t, gen, WithConfirmer(confirm))
	ctx := context.Background()

	withScript(t, s, 3)

	require.Len(t, gen.scriptReqs, 1)
	req := gen.scriptReqs[0]
	assert.Equal(t, "a watch on a rotating pedestal", req.Plot)
	assert.Equal(t, "macro, slow motion", req.Style)
	assert.Equal(t, 3, req.Count)
	assert.Equal(t, storyboard.LangZH, req.Language)

	st := s.State()
	assert.Equal(t, []int{1, 2, 3}, numbers(st))
	assert.False(t, st.ScriptBusy)
	for _, sc := range st.Scenes {
		for _, f := range storyboard.Fields {
			assert.NotEmpty(t, sc.Field(f))
		}
	}
	before := ids(st)

	require.NoError(t, s.DeleteScene(ctx, before[1]))
	assert.Equal(t, []string{"确定删除第 2 场分镜吗？"}, confirm.prompts)

	st = s.State()
	assert.Equal(t, []int{1, 2}, numbers(st))
	assert.Equal(t, []string{before[0], before[2]}, ids(st))
	assert.Equal(t, "已删除第 2 场分镜", lastAction(s))
}

func TestGenerateScript_FewerDraftsThanRequested(t *testing.T) {
	gen := &fakeGenerator{onScript: func(generation.ScriptRequest) ([]storyboard.SceneDraft, error) {
		return drafts(2), nil
	}}
	s := newTestSession(t, gen)
	withScript(t, s, 5)

	assert.Equal(t, []int{1, 2}, numbers(s.State()))
}

func TestGenerateScript_Failure(t *testing.T) {
	gen := &fakeGenerator{onScript: func(generation.ScriptRequest) ([]storyboard.SceneDraft, error) {
		return nil, generation.ErrEmptyResponse
	}}
	s := newTestSession(t, gen)
	ctx := context.Background()
	require.NoError(t, s.SetPlot(ctx, "plot"))

	err := s.GenerateScript(ctx)
	var alert *Alert
	require.ErrorAs(t, err, &alert)
	assert.Equal(t, "脚本生成失败。", alert.Message)
	assert.ErrorIs(t, err, generation.ErrEmptyResponse)

	st := s.State()
	assert.False(t, st.ScriptBusy)
	assert.Empty(t, st.Scenes)
	assert.Equal(t, "脚本生成失败", lastAction(s))
}

func TestGenerateScript_Guards(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestSession(t, gen)
	ctx := context.Background()

	assert.ErrorIs(t, s.GenerateScript(ctx), common.ErrValidation)
	assert.Empty(t, gen.scriptReqs)

	require.NoError(t, s.SetPlot(ctx, "plot"))
	gen.onScript = func(req generation.ScriptRequest) ([]storyboard.SceneDraft, error) {
		assert.ErrorIs(t, s.GenerateScript(ctx), common.ErrBusy)
		return drafts(req.Count), nil
	}
	require.NoError(t, s.GenerateScript(ctx))
	assert.Len(t, gen.scriptReqs, 1)
}

func TestGenerateScript_ResetWhileRunningDropsResult(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestSession(t, gen)
	ctx := context.Background()
	require.NoError(t, s.SetPlot(ctx, "plot"))

	gen.onScript = func(req generation.ScriptRequest) ([]storyboard.SceneDraft, error) {
		require.NoError(t, s.Reset(ctx))
		return drafts(req.Count), nil
	}

	err := s.GenerateScript(ctx)
	assert.ErrorIs(t, err, common.ErrNotRunning)
	st := s.State()
	assert.Empty(t, st.Scenes)
	assert.Len(t, st.History, 1)
	assert.Equal(t, "会话已重置", lastAction(s))
}

func TestRegenerateScene_ClearsMedia(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestSession(t, gen)
	ctx := context.Background()
	withScript(t, s, 3)
	id := sceneID(t, s, 2)

	require.NoError(t, s.GenerateImage(ctx, id))
	require.NoError(t, s.GenerateVideo(ctx, id))
	sc, _ := s.State().Scene(id)
	require.True(t, sc.HasVideo())
	require.Len(t, gen.videoReqs, 1)
	assert.Equal(t, storyboard.LangZH, gen.videoReqs[0].Language)

	require.NoError(t, s.RegenerateScene(ctx, id))

	require.Len(t, gen.sceneReqs, 1)
	assert.Equal(t, 2, gen.sceneReqs[0].Number)
	assert.Equal(t, "desc 2", gen.sceneReqs[0].CurrentDescription)
	assert.Equal(t, "a watch on a rotating pedestal", gen.sceneReqs[0].Plot)

	sc, _ = s.State().Scene(id)
	assert.Equal(t, storyboard.NoMedia{}, sc.Media)
	assert.Equal(t, "new desc", sc.Description)
	assert.Equal(t, 2, sc.Number)
	assert.False(t, sc.TextBusy)
	assert.Equal(t, "第 2 场脚本已更新", lastAction(s))
}

func TestRegenerateScene_FailureKeepsContent(t *testing.T) {
	gen := &fakeGenerator{onScene: func(generation.SceneRequest) (storyboard.SceneDraft, error) {
		return storyboard.SceneDraft{}, errBoom
	}}
	s := newTestSession(t, gen)
	ctx := context.Background()
	withScript(t, s, 2)
	id := sceneID(t, s, 1)
	require.NoError(t, s.GenerateImage(ctx, id))
	before, _ := s.State().Scene(id)

	err := s.RegenerateScene(ctx, id)
	assert.ErrorIs(t, err, errBoom)
	var alert *Alert
	assert.False(t, errors.As(err, &alert))

	after, _ := s.State().Scene(id)
	assert.Equal(t, before, after)
	assert.Equal(t, "第 1 场脚本更新失败", lastAction(s))
}

func TestPerSceneBusyRejectsSecondStart(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestSession(t, gen)
	ctx := context.Background()
	withScript(t, s, 2)
	id := sceneID(t, s, 1)
	other := sceneID(t, s, 2)

	gen.onScene = func(req generation.SceneRequest) (storyboard.SceneDraft, error) {
		sc, _ := s.State().Scene(id)
		assert.True(t, sc.TextBusy)
		assert.ErrorIs(t, s.GenerateImage(ctx, id), common.ErrBusy)
		assert.ErrorIs(t, s.GenerateVideo(ctx, id), common.ErrBusy)
		// other scenes are unaffected
		assert.NoError(t, s.GenerateImage(ctx, other))
		return drafts(1)[0], nil
	}

	require.NoError(t, s.RegenerateScene(ctx, id))
	assert.Len(t, gen.imageReqs, 1)
	assert.Empty(t, gen.videoReqs)
}

func TestUnknownSceneIsNotFound(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestSession(t, gen)
	ctx := context.Background()
	withScript(t, s, 1)
	n := len(s.State().History)

	assert.ErrorIs(t, s.RegenerateScene(ctx, "missing"), common.ErrorNotFound)
	assert.ErrorIs(t, s.GenerateImage(ctx, "missing"), common.ErrorNotFound)
	assert.ErrorIs(t, s.GenerateVideo(ctx, "missing"), common.ErrorNotFound)
	assert.ErrorIs(t, s.DeleteScene(ctx, "missing"), common.ErrorNotFound)
	assert.ErrorIs(t, s.EditScene(ctx, "missing", storyboard.FieldLighting, "x"), common.ErrorNotFound)
	assert.Len(t, s.State().History, n)
	assert.Empty(t, gen.sceneReqs)
}

func TestGenerateImage(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestSession(t, gen)
	ctx := context.Background()
	withScript(t, s, 2)
	id := sceneID(t, s, 2)

	require.NoError(t, s.GenerateImage(ctx, id))
	sc, _ := s.State().Scene(id)
	still, ok := storyboard.StillOf(sc.Media)
	require.True(t, ok)
	assert.Equal(t, []byte("img-2"), still.Data)
	assert.Equal(t, "第 2 场静态分镜渲染完成", lastAction(s))

	gen.onImage = func(generation.ImageRequest) (storyboard.Blob, error) {
		return storyboard.Blob{}, generation.ErrEmptyResponse
	}
	err := s.GenerateImage(ctx, id)
	var alert *Alert
	require.ErrorAs(t, err, &alert)
	assert.Equal(t, "画面生成失败。", alert.Message)

	sc, _ = s.State().Scene(id)
	still, _ = storyboard.StillOf(sc.Media)
	assert.Equal(t, []byte("img-2"), still.Data)
	assert.False(t, sc.TextBusy)
}

func TestEditScene(t *testing.T) {
	s := newTestSession(t, &fakeGenerator{})
	withScript(t, s, 2)
	id := sceneID(t, s, 2)

	require.NoError(t, s.EditScene(context.Background(), id, storyboard.FieldLighting, "neon"))
	sc, _ := s.State().Scene(id)
	assert.Equal(t, "neon", sc.Lighting)
	assert.Equal(t, "修改了第 2 场的灯光氛围", lastAction(s))
}

func TestDeleteScene_Declined(t *testing.T) {
	confirm := &recordingConfirmer{answer: false}
	s := newTestSession(t, &fakeGenerator{}, WithConfirmer(confirm))
	withScript(t, s, 3)
	before := s.State()

	err := s.DeleteScene(context.Background(), sceneID(t, s, 3))
	assert.ErrorIs(t, err, common.ErrNotConfirmed)
	assert.Equal(t, before, s.State())
	assert.Equal(t, []string{"确定删除第 3 场分镜吗？"}, confirm.prompts)
}

func TestDeleteScene_ConfirmError(t *testing.T) {
	confirm := &recordingConfirmer{err: errBoom}
	s := newTestSession(t, &fakeGenerator{}, WithConfirmer(confirm))
	withScript(t, s, 1)

	err := s.DeleteScene(context.Background(), sceneID(t, s, 1))
	assert.ErrorIs(t, err, errBoom)
	assert.Len(t, s.State().Scenes, 1)
}

func TestSettings(t *testing.T) {
	s := newTestSession(t, &fakeGenerator{})
	ctx := context.Background()

	require.NoError(t, s.SetSceneCount(ctx, 99))
	require.NoError(t, s.SetResolution(ctx, storyboard.Resolution1080p))
	require.NoError(t, s.SetDuration(ctx, storyboard.Duration10))
	assert.ErrorIs(t, s.SetResolution(ctx, "4k"), common.ErrValidation)
	assert.ErrorIs(t, s.SetDuration(ctx, 7), common.ErrValidation)

	st := s.State()
	assert.Equal(t, common.MaxSceneCount, st.SceneCount)
	assert.Equal(t, storyboard.Resolution1080p, st.Resolution)
	assert.Equal(t, storyboard.Duration10, st.Duration)
	assert.Len(t, st.History, 3)
}

func TestAssets_ImageAndVideoUpload(t *testing.T) {
	s := newTestSession(t, &fakeGenerator{})
	ctx := context.Background()

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	mp4 := []byte{
		0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
		'm', 'p', '4', '2', 0x00, 0x00, 0x00, 0x00,
		'm', 'p', '4', '2', 'i', 's', 'o', 'm',
	}

	img, err := s.AddAsset(ctx, "watch.png", "", bytes.NewReader(pngBuf.Bytes()))
	require.NoError(t, err)
	vid, err := s.AddAsset(ctx, "spin.mp4", "video/mp4", bytes.NewReader(mp4))
	require.NoError(t, err)

	st := s.State()
	require.Len(t, st.Assets, 2)
	assert.Equal(t, storyboard.AssetImage, st.Assets[0].Kind)
	assert.Equal(t, storyboard.AssetVideo, st.Assets[1].Kind)
	assert.Equal(t, base64.StdEncoding.EncodeToString(pngBuf.Bytes()), st.Assets[0].Data)
	assert.Equal(t, base64.StdEncoding.EncodeToString(mp4), st.Assets[1].Data)
	assert.Equal(t, img, st.Assets[0])
	assert.Equal(t, vid, st.Assets[1])
	assert.Equal(t, "已添加产品参考：spin.mp4", lastAction(s))

	require.NoError(t, s.RemoveAsset(ctx, img.ID))
	assert.Len(t, s.State().Assets, 1)
	assert.Equal(t, "移除了一项产品参考资源", lastAction(s))
	assert.ErrorIs(t, s.RemoveAsset(ctx, img.ID), common.ErrorNotFound)

	_, err = s.AddAsset(ctx, "notes.txt", "text/plain", bytes.NewReader([]byte("hello")))
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Len(t, s.State().Assets, 1)
}

func TestAssetsReachGenerator(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestSession(t, gen)
	ctx := context.Background()

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	_, err := s.AddAsset(ctx, "watch.png", "image/png", &pngBuf)
	require.NoError(t, err)

	withScript(t, s, 1)
	require.NoError(t, s.GenerateImage(ctx, sceneID(t, s, 1)))
	require.NoError(t, s.GenerateVideo(ctx, sceneID(t, s, 1)))

	assert.Len(t, gen.scriptReqs[0].Assets, 1)
	assert.Len(t, gen.imageReqs[0].Assets, 1)
	require.Len(t, gen.videoReqs, 1)
	assert.Len(t, gen.videoReqs[0].Assets, 1)
	assert.Equal(t, storyboard.Resolution720p, gen.videoReqs[0].Resolution)
	assert.Equal(t, storyboard.Duration5, gen.videoReqs[0].Duration)
}

func TestJournalMirrorsHistory(t *testing.T) {
	j := &fakeJournal{}
	s := newTestSession(t, &fakeGenerator{}, WithJournal(j))
	withScript(t, s, 2)
	require.NoError(t, s.GenerateImage(context.Background(), sceneID(t, s, 1)))

	assert.Equal(t, "test-session", j.session)
	assert.Equal(t, s.State().History, j.items)
}

func TestJournalFailureDoesNotFailAction(t *testing.T) {
	j := &fakeJournal{err: errBoom}
	s := newTestSession(t, &fakeGenerator{}, WithJournal(j))

	require.NoError(t, s.SetPlot(context.Background(), "plot"))
	assert.Equal(t, "plot", s.State().Plot)
	assert.Len(t, s.State().History, 1)
}

func TestAlert(t *testing.T) {
	a := &Alert{Message: "视频生成失败。", Err: errBoom}
	assert.Equal(t, "视频生成失败。: boom", a.Error())
	assert.ErrorIs(t, a, errBoom)
	assert.Equal(t, "only message", (&Alert{Message: "only message"}).Error())
}

func TestNew_Defaults(t *testing.T) {
	store := storyboard.NewStore(storyboard.NewState(1, storyboard.Resolution720p, storyboard.Duration5), storyboard.NewCatalog(storyboard.LangEN))
	s := New(store, &fakeGenerator{}, logging.Nop())

	assert.NotEmpty(t, s.ID())
	assert.True(t, s.Authorized(context.Background()))
	assert.Equal(t, storyboard.LangEN, s.Catalog().Language())
}
