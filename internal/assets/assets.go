// Package assets turns uploaded files into storyboard product references.
package assets

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/storyboard/internal/common"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
	"github.com/gabriel-vasile/mimetype"
)

// MaxSize caps a single upload.
const MaxSize = 64 << 20

// Load reads the file at path into a ProductAsset.
func Load(path string) (storyboard.ProductAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return storyboard.ProductAsset{}, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()

	return FromReader(filepath.Base(path), "", f)
}

// FromReader reads r fully and builds an asset. The media type is sniffed
// from the content; declared is used only when sniffing finds nothing more
// specific than a generic binary type. Only image and video files are
// accepted.
func FromReader(name, declared string, r io.Reader) (storyboard.ProductAsset, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return storyboard.ProductAsset{}, fmt.Errorf("read asset %s: %w", name, err)
	}
	if len(data) == 0 {
		return storyboard.ProductAsset{}, fmt.Errorf("%w: %s is empty", common.ErrValidation, name)
	}
	if len(data) > MaxSize {
		return storyboard.ProductAsset{}, fmt.Errorf("%w: %s is larger than %d bytes", common.ErrValidation, name, MaxSize)
	}

	mime := detect(data, declared)
	kind, ok := kindOf(mime)
	if !ok {
		return storyboard.ProductAsset{}, fmt.Errorf("%w: %s has unsupported type %s", common.ErrValidation, name, mime)
	}

	return storyboard.ProductAsset{
		Kind:     kind,
		Name:     name,
		Data:     base64.StdEncoding.EncodeToString(data),
		MIMEType: mime,
	}, nil
}

func detect(data []byte, declared string) string {
	m := mimetype.Detect(data)
	if m.Is("application/octet-stream") || m.Is("text/plain") {
		if declared != "" {
			return normalize(declared)
		}
	}
	return normalize(m.String())
}

// normalize drops parameters such as "; charset=utf-8".
func normalize(mime string) string {
	mime, _, _ = strings.Cut(mime, ";")
	return strings.ToLower(strings.TrimSpace(mime))
}

func kindOf(mime string) (storyboard.AssetKind, bool) {
	switch {
	case strings.HasPrefix(mime, "video/"):
		return storyboard.AssetVideo, true
	case strings.HasPrefix(mime, "image/"):
		return storyboard.AssetImage, true
	}
	return "", false
}
