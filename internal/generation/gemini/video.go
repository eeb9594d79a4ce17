package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storyboard/internal/generation"
	"github.com/dmitrijs2005/storyboard/internal/generation/poll"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
	"google.golang.org/genai"
)

const defaultVideoMIME = "video/mp4"

// GenerateVideo submits a Veo job, waits for it and downloads the result.
//
// With more than one product image the reference model is used and up to
// three images are attached as ASSET references (this model only renders
// 720p). Otherwise the fast model is used with the first image, if any, as
// the start frame.
func (c *Client) GenerateVideo(ctx context.Context, req generation.VideoRequest) (storyboard.Blob, error) {
	a, key, err := c.open(ctx)
	if err != nil {
		return storyboard.Blob{}, err
	}

	model, source, cfg, err := c.videoRequest(req)
	if err != nil {
		return storyboard.Blob{}, err
	}

	log := c.log.With("scene", req.Scene.Number, "model", model)
	log.Info(ctx, "submitting video job", "resolution", cfg.Resolution, "references", len(cfg.ReferenceImages))

	op, err := a.models.GenerateVideosFromSource(ctx, model, source, cfg)
	if err != nil {
		return storyboard.Blob{}, classify(err)
	}

	err = poll.Until(ctx, c.cfg.Poll, func(ctx context.Context, attempt int) (bool, error) {
		if attempt == 0 {
			return op.Done, nil
		}
		next, err := a.operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return false, classify(err)
		}
		op = next
		log.Debug(ctx, "video job status", "attempt", attempt, "done", op.Done)
		return op.Done, nil
	})
	if errors.Is(err, poll.ErrTimeout) {
		return storyboard.Blob{}, fmt.Errorf("%w: %w", generation.ErrNoVideoResult, err)
	}
	if err != nil {
		return storyboard.Blob{}, err
	}

	if op.Error != nil {
		return storyboard.Blob{}, classify(fmt.Errorf("video job failed: %v", op.Error["message"]))
	}

	video := resultVideo(op)
	if video == nil {
		return storyboard.Blob{}, generation.ErrNoVideoResult
	}

	mime := video.MIMEType
	if len(video.VideoBytes) > 0 {
		return storyboard.Blob{Data: video.VideoBytes, MIMEType: orDefault(mime, defaultVideoMIME)}, nil
	}

	data, contentType, err := c.download(ctx, video.URI, key)
	if err != nil {
		return storyboard.Blob{}, fmt.Errorf("download video: %w", err)
	}
	if mime == "" {
		mime = contentType
	}
	log.Info(ctx, "video downloaded", "bytes", len(data))
	return storyboard.Blob{Data: data, MIMEType: orDefault(mime, defaultVideoMIME)}, nil
}

func (c *Client) videoRequest(req generation.VideoRequest) (string, *genai.GenerateVideosSource, *genai.GenerateVideosConfig, error) {
	source := &genai.GenerateVideosSource{Prompt: generation.VideoPrompt(req)}
	cfg := &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		AspectRatio:    aspectRatio,
		Resolution:     string(req.Resolution),
	}

	images := generation.ImageAssets(req.Assets)
	if len(images) > 1 {
		for _, asset := range images[:min(len(images), maxReferenceImages)] {
			img, err := sdkImage(asset)
			if err != nil {
				return "", nil, nil, err
			}
			cfg.ReferenceImages = append(cfg.ReferenceImages, &genai.VideoGenerationReferenceImage{
				Image:         img,
				ReferenceType: genai.VideoGenerationReferenceTypeAsset,
			})
		}
		cfg.Resolution = string(storyboard.Resolution720p)
		return c.cfg.VideoReferenceModel, source, cfg, nil
	}

	if len(images) == 1 {
		img, err := sdkImage(images[0])
		if err != nil {
			return "", nil, nil, err
		}
		source.Image = img
	}
	return c.cfg.VideoModel, source, cfg, nil
}

func resultVideo(op *genai.GenerateVideosOperation) *genai.Video {
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return nil
	}
	v := op.Response.GeneratedVideos[0]
	if v == nil || v.Video == nil || (v.Video.URI == "" && len(v.Video.VideoBytes) == 0) {
		return nil
	}
	return v.Video
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
