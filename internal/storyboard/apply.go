package storyboard

import "time"

// Stamp carries the clock reading and id source for one Apply call.
type Stamp struct {
	At    time.Time
	NewID func() string
}

// Apply returns the state that results from running cmd against s. On error
// s is returned unchanged and nothing is appended to the history.
func Apply(s State, cmd Command, cat *Catalog, st Stamp) (State, error) {
	next := s.Clone()
	action, err := cmd.apply(&next, env{cat: cat, newID: st.NewID})
	if err != nil {
		return s, err
	}
	next.History = append(next.History, HistoryItem{
		ID:        st.NewID(),
		Timestamp: st.At,
		Action:    action,
	})
	return next, nil
}
