package storyboard

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storyboard/internal/common"
)

// Blob is an in-memory media payload (generated image, video or still).
type Blob struct {
	Data     []byte
	MIMEType string
}

func (b Blob) Empty() bool { return len(b.Data) == 0 }

type Resolution string

const (
	Resolution720p  Resolution = "720p"
	Resolution1080p Resolution = "1080p"
)

func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(s); r {
	case Resolution720p, Resolution1080p:
		return r, nil
	}
	return "", fmt.Errorf("%w: resolution %q", common.ErrValidation, s)
}

// VideoDuration is the requested clip length in seconds.
type VideoDuration int

const (
	Duration5  VideoDuration = 5
	Duration10 VideoDuration = 10
	Duration15 VideoDuration = 15
)

func ParseDuration(n int) (VideoDuration, error) {
	switch d := VideoDuration(n); d {
	case Duration5, Duration10, Duration15:
		return d, nil
	}
	return 0, fmt.Errorf("%w: duration %d", common.ErrValidation, n)
}

// SceneField names one of the four editable text fields of a scene.
type SceneField string

const (
	FieldDescription   SceneField = "description"
	FieldCameraAngle   SceneField = "cameraAngle"
	FieldLighting      SceneField = "lighting"
	FieldProductAction SceneField = "productAction"
)

// Fields lists the editable fields in display order.
var Fields = []SceneField{FieldCameraAngle, FieldDescription, FieldLighting, FieldProductAction}

func ParseSceneField(s string) (SceneField, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown field %q", common.ErrValidation, s)
}

type Scene struct {
	ID            string
	Number        int
	Description   string
	CameraAngle   string
	Lighting      string
	ProductAction string
	Media         Media
	TextBusy      bool
	VideoBusy     bool
}

// Field returns the value of f.
func (s Scene) Field(f SceneField) string {
	switch f {
	case FieldDescription:
		return s.Description
	case FieldCameraAngle:
		return s.CameraAngle
	case FieldLighting:
		return s.Lighting
	case FieldProductAction:
		return s.ProductAction
	}
	return ""
}

func (s *Scene) setField(f SceneField, v string) {
	switch f {
	case FieldDescription:
		s.Description = v
	case FieldCameraAngle:
		s.CameraAngle = v
	case FieldLighting:
		s.Lighting = v
	case FieldProductAction:
		s.ProductAction = v
	}
}

func (s Scene) Busy() bool { return s.TextBusy || s.VideoBusy }

func (s Scene) HasVideo() bool {
	_, ok := VideoOf(s.Media)
	return ok
}

// SceneDraft is the text part of a scene as produced by the script model.
type SceneDraft struct {
	Number        int    `json:"sceneNumber"`
	Description   string `json:"description"`
	CameraAngle   string `json:"cameraAngle"`
	Lighting      string `json:"lighting"`
	ProductAction string `json:"productAction"`
}

type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetVideo AssetKind = "video"
)

// ProductAsset is an uploaded reference file. Data is the base64 encoding of
// the whole file. Assets are never modified after creation.
type ProductAsset struct {
	ID       string
	Kind     AssetKind
	Name     string
	Data     string
	MIMEType string
}

func (a ProductAsset) DataURL() string {
	return "data:" + a.MIMEType + ";base64," + a.Data
}

// Bytes decodes the payload.
func (a ProductAsset) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(a.Data)
}

type HistoryItem struct {
	ID        string
	Timestamp time.Time
	Action    string
}

// State is the session aggregate.
type State struct {
	Plot       string
	Style      string
	SceneCount int
	Scenes     []Scene
	Assets     []ProductAsset
	History    []HistoryItem
	ScriptBusy bool
	Resolution Resolution
	Duration   VideoDuration
}

// NewState returns an empty session with the given output settings.
func NewState(sceneCount int, res Resolution, dur VideoDuration) State {
	return State{
		SceneCount: clampSceneCount(sceneCount),
		Resolution: res,
		Duration:   dur,
	}
}

// Clone copies the slices of s so the result can be changed independently.
// Blob payloads are shared; they are never written after creation.
func (s State) Clone() State {
	c := s
	c.Scenes = append([]Scene(nil), s.Scenes...)
	c.Assets = append([]ProductAsset(nil), s.Assets...)
	c.History = append([]HistoryItem(nil), s.History...)
	return c
}

// Scene returns the scene with the given id.
func (s State) Scene(id string) (Scene, bool) {
	if i := s.sceneIndex(id); i >= 0 {
		return s.Scenes[i], true
	}
	return Scene{}, false
}

// SceneByNumber returns the scene at the 1-based ordinal n.
func (s State) SceneByNumber(n int) (Scene, bool) {
	if n < 1 || n > len(s.Scenes) {
		return Scene{}, false
	}
	return s.Scenes[n-1], true
}

// ImageAssets returns the image-kind assets in insertion order.
func (s State) ImageAssets() []ProductAsset {
	var out []ProductAsset
	for _, a := range s.Assets {
		if a.Kind == AssetImage {
			out = append(out, a)
		}
	}
	return out
}

// PendingVideos counts the scenes that do not have a video yet.
func (s State) PendingVideos() int {
	n := 0
	for _, sc := range s.Scenes {
		if !sc.HasVideo() {
			n++
		}
	}
	return n
}

// VideoScenes returns the scenes that have a video, in ordinal order.
func (s State) VideoScenes() []Scene {
	var out []Scene
	for _, sc := range s.Scenes {
		if sc.HasVideo() {
			out = append(out, sc)
		}
	}
	return out
}

func (s State) sceneIndex(id string) int {
	for i, sc := range s.Scenes {
		if sc.ID == id {
			return i
		}
	}
	return -1
}

func (s State) assetIndex(id string) int {
	for i, a := range s.Assets {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func clampSceneCount(n int) int {
	return min(max(n, common.MinSceneCount), common.MaxSceneCount)
}
