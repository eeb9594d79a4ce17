// Package generation defines the four remote generation operations the
// storyboard needs, independent of any vendor SDK.
package generation

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/storyboard/internal/storyboard"
)

var (
	// ErrEmptyResponse means the model answered without a usable payload.
	ErrEmptyResponse = errors.New("model returned no usable response")
	// ErrNoVideoResult means the video job finished (or was given up on)
	// without a downloadable video.
	ErrNoVideoResult = errors.New("video job produced no result")
)

// Generator is implemented by vendor adapters. Every call either returns a
// result or one terminal error; nothing is retried.
type Generator interface {
	GenerateScenes(ctx context.Context, req ScriptRequest) ([]storyboard.SceneDraft, error)
	RegenerateScene(ctx context.Context, req SceneRequest) (storyboard.SceneDraft, error)
	GenerateImage(ctx context.Context, req ImageRequest) (storyboard.Blob, error)
	GenerateVideo(ctx context.Context, req VideoRequest) (storyboard.Blob, error)
}

type ScriptRequest struct {
	Plot     string
	Style    string
	Count    int
	Assets   []storyboard.ProductAsset
	Language storyboard.Language
}

type SceneRequest struct {
	Plot               string
	Style              string
	Number             int
	CurrentDescription string
	Language           storyboard.Language
}

type ImageRequest struct {
	Scene  storyboard.Scene
	Assets []storyboard.ProductAsset
}

type VideoRequest struct {
	Scene      storyboard.Scene
	Assets     []storyboard.ProductAsset
	Resolution storyboard.Resolution
	Duration   storyboard.VideoDuration
	Language   storyboard.Language
}

// ImageAssets keeps only image-kind assets; video references are never sent
// to the models.
func ImageAssets(assets []storyboard.ProductAsset) []storyboard.ProductAsset {
	var out []storyboard.ProductAsset
	for _, a := range assets {
		if a.Kind == storyboard.AssetImage {
			out = append(out, a)
		}
	}
	return out
}
