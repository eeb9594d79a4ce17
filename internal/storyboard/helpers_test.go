package storyboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, lang Language) *Store {
	t.Helper()
	return NewStore(NewState(5, Resolution720p, Duration5), NewCatalog(lang),
		WithClock(func() time.Time { return testTime }), WithIDs(seqIDs()))
}

func drafts(n int) []SceneDraft {
	out := make([]SceneDraft, n)
	for i := range out {
		out[i] = SceneDraft{
			Number:        i + 7, // models sometimes misnumber
			Description:   fmt.Sprintf("desc %d", i+1),
			CameraAngle:   fmt.Sprintf("angle %d", i+1),
			Lighting:      fmt.Sprintf("light %d", i+1),
			ProductAction: fmt.Sprintf("action %d", i+1),
		}
	}
	return out
}

// withScenes runs a full script generation with n drafts.
func withScenes(t *testing.T, s *Store, n int) {
	t.Helper()
	_, err := s.Dispatch(SetPlot{Plot: "a watch on a rotating pedestal"})
	require.NoError(t, err)
	_, err = s.Dispatch(SetSceneCount{Count: n})
	require.NoError(t, err)
	_, err = s.Dispatch(BeginScript{})
	require.NoError(t, err)
	_, err = s.Dispatch(ScriptSucceeded{Drafts: drafts(n), Requested: n})
	require.NoError(t, err)
}

func numbers(st State) []int {
	out := make([]int, 0, len(st.Scenes))
	for _, sc := range st.Scenes {
		out = append(out, sc.Number)
	}
	return out
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
