package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storyboard/internal/generation"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
	"google.golang.org/genai"
)

var sceneSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"sceneNumber":   {Type: genai.TypeInteger},
		"description":   {Type: genai.TypeString},
		"cameraAngle":   {Type: genai.TypeString},
		"lighting":      {Type: genai.TypeString},
		"productAction": {Type: genai.TypeString},
	},
	Required: []string{"sceneNumber", "description", "cameraAngle", "lighting", "productAction"},
}

var scenesSchema = &genai.Schema{
	Type:  genai.TypeArray,
	Items: sceneSchema,
}

func (c *Client) GenerateScenes(ctx context.Context, req generation.ScriptRequest) ([]storyboard.SceneDraft, error) {
	a, _, err := c.open(ctx)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{genai.NewPartFromText(generation.ScriptPrompt(req))}
	images, err := inlineAssets(req.Assets)
	if err != nil {
		return nil, err
	}
	parts = append(parts, images...)

	c.log.Debug(ctx, "generating scenes", "model", c.cfg.TextModel, "count", req.Count, "images", len(images))

	var drafts []storyboard.SceneDraft
	if err := c.generateJSON(ctx, a, parts, scenesSchema, &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

func (c *Client) RegenerateScene(ctx context.Context, req generation.SceneRequest) (storyboard.SceneDraft, error) {
	a, _, err := c.open(ctx)
	if err != nil {
		return storyboard.SceneDraft{}, err
	}

	c.log.Debug(ctx, "regenerating scene", "model", c.cfg.TextModel, "scene", req.Number)

	var draft storyboard.SceneDraft
	parts := []*genai.Part{genai.NewPartFromText(generation.ScenePrompt(req))}
	if err := c.generateJSON(ctx, a, parts, sceneSchema, &draft); err != nil {
		return storyboard.SceneDraft{}, err
	}
	draft.Number = req.Number
	return draft, nil
}

// generateJSON asks the text model for JSON matching schema and decodes it
// into out. Blank or undecodable text is an ErrEmptyResponse.
func (c *Client) generateJSON(ctx context.Context, a *api, parts []*genai.Part, schema *genai.Schema, out any) error {
	resp, err := a.models.GenerateContent(ctx, c.cfg.TextModel,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		})
	if err != nil {
		return classify(err)
	}
	if resp == nil {
		return generation.ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return generation.ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: %v", generation.ErrEmptyResponse, err)
	}
	return nil
}
