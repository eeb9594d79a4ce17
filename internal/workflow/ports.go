package workflow

import (
	"context"

	"github.com/dmitrijs2005/storyboard/internal/storyboard"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm answers yes without asking.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// CredentialProvider is the host capability behind the video credential
// gate.
type CredentialProvider interface {
	HasCredential(ctx context.Context) bool
	// Select lets the user pick a credential. It returns once the picker
	// closes.
	Select(ctx context.Context) error
}

// HistorySink receives every history item the session appends.
type HistorySink interface {
	Record(ctx context.Context, sessionID string, items ...storyboard.HistoryItem) error
}

type Exporter interface {
	Videos(ctx context.Context, st storyboard.State) ([]string, error)
	Script(ctx context.Context, st storyboard.State) (string, error)
	ContactSheet(ctx context.Context, st storyboard.State) (string, error)
}
