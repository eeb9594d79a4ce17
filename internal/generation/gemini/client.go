// Package gemini implements generation.Generator on top of the Gemini API
// (google.golang.org/genai). It is the only package that imports the SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storyboard/internal/common"
	"github.com/dmitrijs2005/storyboard/internal/generation"
	"github.com/dmitrijs2005/storyboard/internal/generation/poll"
	"github.com/dmitrijs2005/storyboard/internal/logging"
	"github.com/dmitrijs2005/storyboard/internal/netx"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
	"google.golang.org/genai"
)

const (
	aspectRatio = "16:9"
	// maxReferenceImages is the most reference images the video model takes.
	maxReferenceImages = 3

	entityNotFound = "Requested entity was not found"
)

// KeySource returns the API key to use for the next call. An empty key means
// no credential has been chosen yet.
type KeySource func() string

// StaticKey is a KeySource that always returns key.
func StaticKey(key string) KeySource {
	return func() string { return key }
}

type Config struct {
	TextModel           string
	ImageModel          string
	VideoModel          string
	VideoReferenceModel string
	Poll                poll.Config
}

type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateVideosFromSource(ctx context.Context, model string, source *genai.GenerateVideosSource, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
}

type operationsAPI interface {
	GetVideosOperation(ctx context.Context, operation *genai.GenerateVideosOperation, config *genai.GetOperationConfig) (*genai.GenerateVideosOperation, error)
}

type api struct {
	models     modelsAPI
	operations operationsAPI
}

type connectFunc func(ctx context.Context, key string) (*api, error)

type downloadFunc func(ctx context.Context, uri, key string) ([]byte, string, error)

// Client is a generation.Generator backed by Gemini text, image and Veo
// video models. A fresh SDK client is built per call so a newly selected key
// applies immediately.
type Client struct {
	cfg      Config
	keys     KeySource
	log      logging.Logger
	connect  connectFunc
	download downloadFunc
}

var _ generation.Generator = (*Client)(nil)

func New(cfg Config, keys KeySource, log logging.Logger) *Client {
	return &Client{
		cfg:      cfg,
		keys:     keys,
		log:      log.With("module", "gemini"),
		connect:  connectGenAI,
		download: netx.DownloadWithKey,
	}
}

func connectGenAI(ctx context.Context, key string) (*api, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: key, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &api{models: c.Models, operations: c.Operations}, nil
}

func (c *Client) open(ctx context.Context) (*api, string, error) {
	key := c.keys()
	if key == "" {
		return nil, "", common.ErrCredentialRequired
	}
	a, err := c.connect(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return a, key, nil
}

// classify maps provider errors that mean "this key cannot see the model"
// onto common.ErrCredentialInvalid.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && (apiErr.Status == "NOT_FOUND" || strings.Contains(apiErr.Message, entityNotFound)) {
		return fmt.Errorf("%w: %w", common.ErrCredentialInvalid, err)
	}
	if strings.Contains(err.Error(), entityNotFound) {
		return fmt.Errorf("%w: %w", common.ErrCredentialInvalid, err)
	}
	return err
}

// inlineAssets turns image assets into inline SDK parts.
func inlineAssets(assets []storyboard.ProductAsset) ([]*genai.Part, error) {
	var parts []*genai.Part
	for _, a := range generation.ImageAssets(assets) {
		data, err := a.Bytes()
		if err != nil {
			return nil, fmt.Errorf("decode asset %s: %w", a.Name, err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, a.MIMEType))
	}
	return parts, nil
}

func sdkImage(a storyboard.ProductAsset) (*genai.Image, error) {
	data, err := a.Bytes()
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", a.Name, err)
	}
	return &genai.Image{ImageBytes: data, MIMEType: a.MIMEType}, nil
}
