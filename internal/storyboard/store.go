package storyboard

import (
	"time"

	"github.com/google/uuid"
)

// Store holds the current State and applies commands to it with a real
// clock and uuid ids. It is not safe for concurrent use; callers serialize.
type Store struct {
	state   State
	catalog *Catalog
	now     func() time.Time
	newID   func() string
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs replaces the uuid generator.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func NewStore(initial State, cat *Catalog, opts ...Option) *Store {
	s := &Store{
		state:   initial.Clone(),
		catalog: cat,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Dispatch applies cmd and returns the history entry it produced.
func (s *Store) Dispatch(cmd Command) (HistoryItem, error) {
	next, err := Apply(s.state, cmd, s.catalog, Stamp{At: s.now(), NewID: s.newID})
	if err != nil {
		return HistoryItem{}, err
	}
	s.state = next
	return next.History[len(next.History)-1], nil
}

// State returns a copy of the current state.
func (s *Store) State() State {
	return s.state.Clone()
}

func (s *Store) Catalog() *Catalog { return s.catalog }
