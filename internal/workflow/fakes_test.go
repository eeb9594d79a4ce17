package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/storyboard/internal/generation"
	"github.com/dmitrijs2005/storyboard/internal/logging"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
)

var testTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// fakeGenerator records every call. Hooks run in place of the model and may
// call back into the session.
type fakeGenerator struct {
	mu sync.Mutex

	scriptReqs []generation.ScriptRequest
	sceneReqs  []generation.SceneRequest
	imageReqs  []generation.ImageRequest
	videoReqs  []generation.VideoRequest

	onScript func(req generation.ScriptRequest) ([]storyboard.SceneDraft, error)
	onScene  func(req generation.SceneRequest) (storyboard.SceneDraft, error)
	onImage  func(req generation.ImageRequest) (storyboard.Blob, error)
	onVideo  func(req generation.VideoRequest) (storyboard.Blob, error)
}

func (f *fakeGenerator) GenerateScenes(_ context.Context, req generation.ScriptRequest) ([]storyboard.SceneDraft, error) {
	f.mu.Lock()
	f.scriptReqs = append(f.scriptReqs, req)
	f.mu.Unlock()
	if f.onScript != nil {
		return f.onScript(req)
	}
	return drafts(req.Count), nil
}

func (f *fakeGenerator) RegenerateScene(_ context.Context, req generation.SceneRequest) (storyboard.SceneDraft, error) {
	f.mu.Lock()
	f.sceneReqs = append(f.sceneReqs, req)
	f.mu.Unlock()
	if f.onScene != nil {
		return f.onScene(req)
	}
	return storyboard.SceneDraft{
		Number:        req.Number,
		Description:   "new desc",
		CameraAngle:   "new angle",
		Lighting:      "new light",
		ProductAction: "new action",
	}, nil
}

func (f *fakeGenerator) GenerateImage(_ context.Context, req generation.ImageRequest) (storyboard.Blob, error) {
	f.mu.Lock()
	f.imageReqs = append(f.imageReqs, req)
	f.mu.Unlock()
	if f.onImage != nil {
		return f.onImage(req)
	}
	return storyboard.Blob{Data: []byte(fmt.Sprintf("img-%d", req.Scene.Number)), MIMEType: "image/png"}, nil
}

func (f *fakeGenerator) GenerateVideo(_ context.Context, req generation.VideoRequest) (storyboard.Blob, error) {
	f.mu.Lock()
	f.videoReqs = append(f.videoReqs, req)
	f.mu.Unlock()
	if f.onVideo != nil {
		return f.onVideo(req)
	}
	return videoBlob(req.Scene.Number), nil
}

func (f *fakeGenerator) videoNumbers() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, 0, len(f.videoReqs))
	for _, r := range f.videoReqs {
		out = append(out, r.Scene.Number)
	}
	return out
}

func videoBlob(n int) storyboard.Blob {
	return storyboard.Blob{Data: []byte(fmt.Sprintf("video-%d", n)), MIMEType: "video/mp4"}
}

func drafts(n int) []storyboard.SceneDraft {
	out := make([]storyboard.SceneDraft, n)
	for i := range out {
		out[i] = storyboard.SceneDraft{
			Number:        i + 1,
			Description:   fmt.Sprintf("desc %d", i+1),
			CameraAngle:   fmt.Sprintf("angle %d", i+1),
			Lighting:      fmt.Sprintf("light %d", i+1),
			ProductAction: fmt.Sprintf("action %d", i+1),
		}
	}
	return out
}

type fakeCreds struct {
	has      bool
	selects  int
	checks   int
	selectFn func() error
}

func (c *fakeCreds) HasCredential(context.Context) bool {
	c.checks++
	return c.has
}

func (c *fakeCreds) Select(context.Context) error {
	c.selects++
	if c.selectFn != nil {
		return c.selectFn()
	}
	c.has = true
	return nil
}

type recordingConfirmer struct {
	answer  bool
	err     error
	prompts []string
}

func (r *recordingConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	r.prompts = append(r.prompts, prompt)
	return r.answer, r.err
}

type fakeJournal struct {
	mu      sync.Mutex
	session string
	items   []storyboard.HistoryItem
	err     error
}

func (j *fakeJournal) Record(_ context.Context, sessionID string, items ...storyboard.HistoryItem) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.session = sessionID
	j.items = append(j.items, items...)
	return nil
}

type fakeExporter struct {
	videos  int
	scripts int
	sheets  int
	err     error
}

func (e *fakeExporter) Videos(_ context.Context, st storyboard.State) ([]string, error) {
	e.videos++
	if e.err != nil {
		return nil, e.err
	}
	out := make([]string, 0)
	for _, sc := range st.VideoScenes() {
		out = append(out, fmt.Sprintf("mem://%d", sc.Number))
	}
	return out, nil
}

func (e *fakeExporter) Script(context.Context, storyboard.State) (string, error) {
	e.scripts++
	return "mem://script", e.err
}

func (e *fakeExporter) ContactSheet(context.Context, storyboard.State) (string, error) {
	e.sheets++
	return "mem://sheet", e.err
}

func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestSession(t *testing.T, gen *fakeGenerator, opts ...Option) *Session {
	t.Helper()
	store := storyboard.NewStore(
		storyboard.NewState(3, storyboard.Resolution720p, storyboard.Duration5),
		storyboard.NewCatalog(storyboard.LangZH),
		storyboard.WithClock(func() time.Time { return testTime }),
		storyboard.WithIDs(seqIDs()),
	)
	return New(store, gen, logging.Nop(), append([]Option{WithID("test-session")}, opts...)...)
}

// withScript sets a plot and generates n scenes.
func withScript(t *testing.T, s *Session, n int) {
	t.Helper()
	ctx := context.Background()
	if err := s.SetPlot(ctx, "a watch on a rotating pedestal"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetStyle(ctx, "macro, slow motion"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSceneCount(ctx, n); err != nil {
		t.Fatal(err)
	}
	if err := s.GenerateScript(ctx); err != nil {
		t.Fatal(err)
	}
}

func sceneID(t *testing.T, s *Session, number int) string {
	t.Helper()
	sc, ok := s.State().SceneByNumber(number)
	if !ok {
		t.Fatalf("no scene %d", number)
	}
	return sc.ID
}

func lastAction(s *Session) string {
	h := s.State().History
	if len(h) == 0 {
		return ""
	}
	return h[len(h)-1].Action
}

var errBoom = errors.New("boom")
