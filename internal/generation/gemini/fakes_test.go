package gemini

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/storyboard/internal/generation/poll"
	"github.com/dmitrijs2005/storyboard/internal/logging"
	"google.golang.org/genai"
)

type contentCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type videoCall struct {
	model  string
	source *genai.GenerateVideosSource
	config *genai.GenerateVideosConfig
}

type fakeModels struct {
	mu sync.Mutex

	contentResp  *genai.GenerateContentResponse
	contentErr   error
	contentCalls []contentCall

	videoOp    *genai.GenerateVideosOperation
	videoErr   error
	videoCalls []videoCall
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contentCalls = append(f.contentCalls, contentCall{model: model, contents: contents, config: config})
	return f.contentResp, f.contentErr
}

func (f *fakeModels) GenerateVideosFromSource(ctx context.Context, model string, source *genai.GenerateVideosSource, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videoCalls = append(f.videoCalls, videoCall{model: model, source: source, config: config})
	return f.videoOp, f.videoErr
}

// fakeOperations answers GetVideosOperation from a script of results.
type fakeOperations struct {
	mu     sync.Mutex
	script []*genai.GenerateVideosOperation
	err    error
	calls  int
}

func (f *fakeOperations) GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation, config *genai.GetOperationConfig) (*genai.GenerateVideosOperation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.script) == 0 {
		return &genai.GenerateVideosOperation{Name: op.Name}, nil
	}
	next := f.script[0]
	f.script = f.script[1:]
	return next, nil
}

var testConfig = Config{
	TextModel:           "text-model",
	ImageModel:          "image-model",
	VideoModel:          "fast-video-model",
	VideoReferenceModel: "reference-video-model",
	Poll:                poll.Config{Interval: time.Millisecond, MaxAttempts: 5},
}

func newTestClient(key string, models *fakeModels, ops *fakeOperations) *Client {
	c := New(testConfig, StaticKey(key), logging.Nop())
	c.connect = func(ctx context.Context, k string) (*api, error) {
		return &api{models: models, operations: ops}, nil
	}
	c.download = func(ctx context.Context, uri, k string) ([]byte, string, error) {
		return []byte("downloaded:" + uri + ":" + k), "video/mp4", nil
	}
	return c
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func doneOp(uri string) *genai.GenerateVideosOperation {
	return &genai.GenerateVideosOperation{
		Name: "operations/1",
		Done: true,
		Response: &genai.GenerateVideosResponse{
			GeneratedVideos: []*genai.GeneratedVideo{{Video: &genai.Video{URI: uri}}},
		},
	}
}
