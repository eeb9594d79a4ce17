package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/storyboard/internal/workflow"
)

// promptConfirmer asks on w and reads the answer from reader. Anything but
// y or yes (either case) is a no.
type promptConfirmer struct {
	reader *bufio.Reader
	w      io.Writer
}

func (p *promptConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	if _, err := fmt.Fprintf(p.w, "%s [y/N] ", prompt); err != nil {
		return false, err
	}
	answer, err := readLine(p.reader)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "是":
		return true, nil
	}
	return false, nil
}

// terminalKeys is the credential picker of the CLI: it asks for a key and
// hands it to the holder the generator reads from.
type terminalKeys struct {
	holder *workflow.KeyHolder
	reader *bufio.Reader
	w      io.Writer
}

func (k *terminalKeys) HasCredential(ctx context.Context) bool {
	return k.holder.HasCredential(ctx)
}

func (k *terminalKeys) Select(ctx context.Context) error {
	key, err := GetSecret(k.reader, "Gemini API key (paid project): ", k.w)
	if err != nil {
		return err
	}
	if key != "" {
		k.holder.Set(key)
	}
	return k.holder.Select(ctx)
}
