package httpapi

import (
	"time"

	"github.com/dmitrijs2005/storyboard/internal/storyboard"
)

type sceneView struct {
	ID            string `json:"id"`
	Number        int    `json:"sceneNumber"`
	Description   string `json:"description"`
	CameraAngle   string `json:"cameraAngle"`
	Lighting      string `json:"lighting"`
	ProductAction string `json:"productAction"`
	HasImage      bool   `json:"hasImage"`
	HasVideo      bool   `json:"hasVideo"`
	TextBusy      bool   `json:"isGeneratingText"`
	VideoBusy     bool   `json:"isGeneratingVideo"`
}

type assetView struct {
	ID       string `json:"id"`
	Kind     string `json:"type"`
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
}

type historyView struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
}

type stateView struct {
	Plot       string        `json:"plot"`
	Style      string        `json:"style"`
	SceneCount int           `json:"sceneCount"`
	Resolution string        `json:"resolution"`
	Duration   int           `json:"duration"`
	ScriptBusy bool          `json:"isGeneratingScript"`
	Authorized bool          `json:"authorized"`
	Scenes     []sceneView   `json:"scenes"`
	Assets     []assetView   `json:"assets"`
	History    []historyView `json:"history"`
}

func newSceneView(sc storyboard.Scene) sceneView {
	_, still := storyboard.StillOf(sc.Media)
	return sceneView{
		ID:            sc.ID,
		Number:        sc.Number,
		Description:   sc.Description,
		CameraAngle:   sc.CameraAngle,
		Lighting:      sc.Lighting,
		ProductAction: sc.ProductAction,
		HasImage:      still,
		HasVideo:      sc.HasVideo(),
		TextBusy:      sc.TextBusy,
		VideoBusy:     sc.VideoBusy,
	}
}

func newAssetView(a storyboard.ProductAsset) assetView {
	return assetView{ID: a.ID, Kind: string(a.Kind), Name: a.Name, MIMEType: a.MIMEType}
}

func newHistoryViews(items []storyboard.HistoryItem) []historyView {
	out := make([]historyView, 0, len(items))
	for _, it := range items {
		out = append(out, historyView{ID: it.ID, Timestamp: it.Timestamp, Action: it.Action})
	}
	return out
}

func newStateView(st storyboard.State, authorized bool) stateView {
	v := stateView{
		Plot:       st.Plot,
		Style:      st.Style,
		SceneCount: st.SceneCount,
		Resolution: string(st.Resolution),
		Duration:   int(st.Duration),
		ScriptBusy: st.ScriptBusy,
		Authorized: authorized,
		Scenes:     make([]sceneView, 0, len(st.Scenes)),
		Assets:     make([]assetView, 0, len(st.Assets)),
		History:    newHistoryViews(st.History),
	}
	for _, sc := range st.Scenes {
		v.Scenes = append(v.Scenes, newSceneView(sc))
	}
	for _, a := range st.Assets {
		v.Assets = append(v.Assets, newAssetView(a))
	}
	return v
}
