package gemini

import (
	"context"

	"github.com/dmitrijs2005/storyboard/internal/generation"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
	"google.golang.org/genai"
)

const defaultImageMIME = "image/png"

func (c *Client) GenerateImage(ctx context.Context, req generation.ImageRequest) (storyboard.Blob, error) {
	a, _, err := c.open(ctx)
	if err != nil {
		return storyboard.Blob{}, err
	}

	parts := []*genai.Part{genai.NewPartFromText(generation.ImagePrompt(req.Scene))}
	images, err := inlineAssets(req.Assets)
	if err != nil {
		return storyboard.Blob{}, err
	}
	parts = append(parts, images...)

	c.log.Debug(ctx, "generating image", "model", c.cfg.ImageModel, "scene", req.Scene.Number, "images", len(images))

	resp, err := a.models.GenerateContent(ctx, c.cfg.ImageModel,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{AspectRatio: aspectRatio},
		})
	if err != nil {
		return storyboard.Blob{}, classify(err)
	}

	if blob, ok := firstInlineImage(resp); ok {
		return blob, nil
	}
	return storyboard.Blob{}, generation.ErrEmptyResponse
}

func firstInlineImage(resp *genai.GenerateContentResponse) (storyboard.Blob, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return storyboard.Blob{}, false
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.InlineData == nil || len(p.InlineData.Data) == 0 {
			continue
		}
		mime := p.InlineData.MIMEType
		if mime == "" {
			mime = defaultImageMIME
		}
		return storyboard.Blob{Data: p.InlineData.Data, MIMEType: mime}, true
	}
	return storyboard.Blob{}, false
}
