package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/storyboard/internal/common"
	"github.com/dmitrijs2005/storyboard/internal/workflow"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to. App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	Show(ctx context.Context) error
	Plot(ctx context.Context) error
	Style(ctx context.Context, args []string) error
	Count(ctx context.Context, args []string) error
	Resolution(ctx context.Context, args []string) error
	Duration(ctx context.Context, args []string) error
	Script(ctx context.Context) error
	Regenerate(ctx context.Context, args []string) error
	Image(ctx context.Context, args []string) error
	Video(ctx context.Context, args []string) error
	Videos(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Assets(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Key(ctx context.Context) error
	Export(ctx context.Context, args []string) error
	Reset(ctx context.Context) error
}

const helpText = `Available commands:
  show                        current plot, settings, assets and scenes
  plot                        enter the plot (multi-line)
  style <text>                camera style
  count <n> | res <720p|1080p> | dur <5|10|15>
  script                      generate the scenes
  regen <n> | image <n> | video <n>
  videos                      render every missing video
  edit <n> <field> [value]    fields: cameraAngle, description, lighting, productAction
  delete <n>
  assets [add <path> | rm <n>]
  history [n]
  key                         select an API key
  export <videos|script|sheet>
  reset
  exit | quit`

// usageError is returned by handlers for malformed arguments.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

// runREPL reads commands from reader until EOF, exit or quit, dispatching
// each to a. The prompt shows statusFn's summary. Errors returned by the
// handlers are reported and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("sb> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help", "h":
			printlnFn(helpText)

		case "show", "ls":
			report(a.Show(ctx))

		case "plot":
			report(a.Plot(ctx))

		case "style":
			report(a.Style(ctx, args))

		case "count":
			report(a.Count(ctx, args))

		case "res":
			report(a.Resolution(ctx, args))

		case "dur":
			report(a.Duration(ctx, args))

		case "script":
			report(a.Script(ctx))

		case "regen":
			report(a.Regenerate(ctx, args))

		case "image":
			report(a.Image(ctx, args))

		case "video":
			report(a.Video(ctx, args))

		case "videos":
			report(a.Videos(ctx))

		case "edit":
			report(a.Edit(ctx, args))

		case "delete", "rm":
			report(a.Delete(ctx, args))

		case "assets":
			report(a.Assets(ctx, args))

		case "history":
			report(a.History(ctx, args))

		case "key":
			report(a.Key(ctx))

		case "export":
			report(a.Export(ctx, args))

		case "reset":
			report(a.Reset(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

// report prints err the way the user should see it: alerts by their
// message, a declined prompt as a cancellation.
func report(err error) {
	if err == nil {
		return
	}
	var alert *workflow.Alert
	var usage usageError
	switch {
	case errors.As(err, &alert):
		printlnFn("!", alert.Message)
	case errors.As(err, &usage):
		printlnFn(usage.Error())
	case errors.Is(err, common.ErrNotConfirmed):
		printlnFn("Cancelled.")
	default:
		printlnFn("Error:", err)
	}
}
