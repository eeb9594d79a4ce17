package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/storyboard/internal/bootstrap"
	"github.com/dmitrijs2005/storyboard/internal/config"
	"github.com/dmitrijs2005/storyboard/internal/logging"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
	"github.com/dmitrijs2005/storyboard/internal/workflow"
)

// historyReader is the read side of the journal.
type historyReader interface {
	List(ctx context.Context, sessionID string, limit int) ([]storyboard.HistoryItem, error)
}

type App struct {
	session *workflow.Session
	history historyReader
	reader  *bufio.Reader
	out     io.Writer
	close   func() error
}

// NewApp builds the session for cfg with prompts on the terminal.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	reader := bufio.NewReader(os.Stdin)
	keys := workflow.NewKeyHolder(cfg.APIKey)

	rt, err := bootstrap.New(ctx, cfg, log, bootstrap.Options{
		Keys:        keys,
		Credentials: &terminalKeys{holder: keys, reader: reader, w: os.Stdout},
		Confirmer:   &promptConfirmer{reader: reader, w: os.Stdout},
	})
	if err != nil {
		return nil, err
	}

	a := newApp(rt.Session, reader, os.Stdout)
	a.close = rt.Close
	if rt.Journal != nil {
		a.history = rt.Journal
	}
	return a, nil
}

func newApp(s *workflow.Session, reader *bufio.Reader, out io.Writer) *App {
	return &App{session: s, reader: reader, out: out, close: func() error { return nil }}
}

// Run blocks in the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.close()
	printlnFn("Storyboard (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
	return nil
}

// status summarizes the session for the prompt.
func (a *App) status() string {
	st := a.session.State()
	busy := 0
	for _, sc := range st.Scenes {
		if sc.Busy() {
			busy++
		}
	}
	s := fmt.Sprintf("%d scenes, %d videos", len(st.Scenes), len(st.VideoScenes()))
	if st.ScriptBusy {
		s += ", writing script"
	}
	if busy > 0 {
		s += fmt.Sprintf(", %d busy", busy)
	}
	return "(" + s + ")"
}
