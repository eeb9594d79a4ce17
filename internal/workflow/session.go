package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/storyboard/internal/assets"
	"github.com/dmitrijs2005/storyboard/internal/common"
	"github.com/dmitrijs2005/storyboard/internal/generation"
	"github.com/dmitrijs2005/storyboard/internal/logging"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
	"github.com/google/uuid"
)

// ErrExportDisabled is returned by the export methods when the session has
// no exporter.
var ErrExportDisabled = errors.New("export not configured")

type Session struct {
	mu    sync.Mutex
	id    string
	store *storyboard.Store
	gen   generation.Generator
	log   logging.Logger

	confirm  Confirmer
	creds    CredentialProvider
	journal  HistorySink
	exporter Exporter

	authChecked bool
	authorized  bool
}

type Option func(*Session)

func WithConfirmer(c Confirmer) Option {
	return func(s *Session) { s.confirm = c }
}

func WithCredentials(p CredentialProvider) Option {
	return func(s *Session) { s.creds = p }
}

func WithJournal(j HistorySink) Option {
	return func(s *Session) { s.journal = j }
}

func WithExporter(e Exporter) Option {
	return func(s *Session) { s.exporter = e }
}

func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// New creates a session around store. Without options every confirmation is
// answered yes, the credential gate is open, and history is not mirrored.
func New(store *storyboard.Store, gen generation.Generator, log logging.Logger, opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		store:   store,
		gen:     gen,
		confirm: AlwaysConfirm,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = log.With("module", "workflow", "session", s.id)
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Catalog() *storyboard.Catalog { return s.store.Catalog() }

func (s *Session) State() storyboard.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.State()
}

// dispatch applies cmd and mirrors the new history item. Callers hold mu.
func (s *Session) dispatch(ctx context.Context, cmd storyboard.Command) (storyboard.HistoryItem, error) {
	item, err := s.store.Dispatch(cmd)
	if err != nil {
		return item, err
	}
	s.log.Debug(ctx, "history", "action", item.Action)
	if s.journal != nil {
		if jerr := s.journal.Record(ctx, s.id, item); jerr != nil {
			s.log.Warn(ctx, "journal write failed", "error", jerr)
		}
	}
	return item, nil
}

func (s *Session) do(ctx context.Context, cmd storyboard.Command) (storyboard.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(ctx, cmd)
}

func (s *Session) alert(key storyboard.MessageKey, err error) *Alert {
	return &Alert{Message: s.store.Catalog().Format(key), Err: err}
}

// Settings and edits.

func (s *Session) SetPlot(ctx context.Context, plot string) error {
	_, err := s.do(ctx, storyboard.SetPlot{Plot: plot})
	return err
}

func (s *Session) SetStyle(ctx context.Context, style string) error {
	_, err := s.do(ctx, storyboard.SetStyle{Style: style})
	return err
}

func (s *Session) SetSceneCount(ctx context.Context, n int) error {
	_, err := s.do(ctx, storyboard.SetSceneCount{Count: n})
	return err
}

func (s *Session) SetResolution(ctx context.Context, r storyboard.Resolution) error {
	_, err := s.do(ctx, storyboard.SetResolution{Resolution: r})
	return err
}

func (s *Session) SetDuration(ctx context.Context, d storyboard.VideoDuration) error {
	_, err := s.do(ctx, storyboard.SetDuration{Duration: d})
	return err
}

func (s *Session) EditScene(ctx context.Context, sceneID string, field storyboard.SceneField, value string) error {
	_, err := s.do(ctx, storyboard.EditScene{SceneID: sceneID, Field: field, Value: value})
	return err
}

// DeleteScene removes a scene after the user confirms. A no leaves the
// storyboard untouched and returns common.ErrNotConfirmed.
func (s *Session) DeleteScene(ctx context.Context, sceneID string) error {
	sc, ok := s.State().Scene(sceneID)
	if !ok {
		return fmt.Errorf("scene %s: %w", sceneID, common.ErrorNotFound)
	}

	ok, err := s.confirm.Confirm(ctx, s.store.Catalog().Format(storyboard.ConfirmDelete, sc.Number))
	if err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return common.ErrNotConfirmed
	}

	_, err = s.do(ctx, storyboard.DeleteScene{SceneID: sceneID})
	return err
}

// Reset clears the session and keeps the output settings.
func (s *Session) Reset(ctx context.Context) error {
	_, err := s.do(ctx, storyboard.Reset{})
	return err
}

// Assets.

// AddAsset ingests an uploaded file and returns the stored asset.
func (s *Session) AddAsset(ctx context.Context, name, declaredType string, r io.Reader) (storyboard.ProductAsset, error) {
	a, err := assets.FromReader(name, declaredType, r)
	if err != nil {
		return storyboard.ProductAsset{}, err
	}
	return s.addAsset(ctx, a)
}

// AddAssetFile ingests a local file.
func (s *Session) AddAssetFile(ctx context.Context, path string) (storyboard.ProductAsset, error) {
	a, err := assets.Load(path)
	if err != nil {
		return storyboard.ProductAsset{}, err
	}
	return s.addAsset(ctx, a)
}

func (s *Session) addAsset(ctx context.Context, a storyboard.ProductAsset) (storyboard.ProductAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.dispatch(ctx, storyboard.AddAsset{Asset: a}); err != nil {
		return storyboard.ProductAsset{}, err
	}
	st := s.store.State()
	return st.Assets[len(st.Assets)-1], nil
}

func (s *Session) RemoveAsset(ctx context.Context, assetID string) error {
	_, err := s.do(ctx, storyboard.RemoveAsset{AssetID: assetID})
	return err
}

// Credential gate.

// Authorized reports whether video generation is currently allowed.
func (s *Session) Authorized(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authorizedLocked(ctx)
}

func (s *Session) authorizedLocked(ctx context.Context) bool {
	if !s.authChecked {
		s.authorized = s.creds == nil || s.creds.HasCredential(ctx)
		s.authChecked = true
	}
	return s.authorized
}

// SelectCredential opens the credential picker and reopens the gate.
func (s *Session) SelectCredential(ctx context.Context) error {
	if s.creds != nil {
		if err := s.creds.Select(ctx); err != nil {
			return fmt.Errorf("select credential: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorized = true
	s.authChecked = true
	_, err := s.dispatch(ctx, storyboard.CredentialSelected{})
	return err
}

// gate returns nil when video generation may proceed. Otherwise it runs the
// picker and returns an alert wrapping common.ErrCredentialRequired; the
// caller must not contact the video endpoint on that attempt.
func (s *Session) gate(ctx context.Context) error {
	s.mu.Lock()
	ok := s.authorizedLocked(ctx)
	s.mu.Unlock()
	if ok {
		return nil
	}

	s.log.Info(ctx, "video blocked until a credential is selected")
	if err := s.SelectCredential(ctx); err != nil {
		return &Alert{Message: s.store.Catalog().Format(storyboard.AlertCredentialNeeded), Err: errors.Join(common.ErrCredentialRequired, err)}
	}
	return s.alert(storyboard.AlertCredentialNeeded, common.ErrCredentialRequired)
}

func (s *Session) revoke(ctx context.Context) {
	s.authorized = false
	s.authChecked = true
	s.log.Warn(ctx, "credential rejected, video generation gated")
}

func isCredentialError(err error) bool {
	return errors.Is(err, common.ErrCredentialInvalid) || errors.Is(err, common.ErrCredentialRequired)
}
