package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/storyboard/internal/common"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
)

const defaultHistoryLimit = 20

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// sceneArg resolves the scene number in args[0].
func (a *App) sceneArg(args []string, usage string) (storyboard.Scene, error) {
	if len(args) == 0 {
		return storyboard.Scene{}, usageError(usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return storyboard.Scene{}, usageError(usage)
	}
	sc, ok := a.session.State().SceneByNumber(n)
	if !ok {
		return storyboard.Scene{}, fmt.Errorf("scene %d: %w", n, common.ErrorNotFound)
	}
	return sc, nil
}

func intArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, usageError(usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, usageError(usage)
	}
	return n, nil
}

func mediaLabel(sc storyboard.Scene) string {
	switch {
	case sc.TextBusy:
		return "rewriting"
	case sc.VideoBusy:
		return "rendering"
	case sc.HasVideo():
		return "video"
	}
	if _, ok := storyboard.StillOf(sc.Media); ok {
		return "still"
	}
	return "-"
}

func (a *App) Show(context.Context) error {
	st := a.session.State()
	cat := a.session.Catalog()

	a.println("Plot:", st.Plot)
	a.println("Style:", st.Style)
	a.println(fmt.Sprintf("Scenes: %d  Resolution: %s  Duration: %ds", st.SceneCount, st.Resolution, st.Duration))
	for i, as := range st.Assets {
		a.println(fmt.Sprintf("Asset %d: %s (%s)", i+1, as.Name, as.Kind))
	}
	for _, sc := range st.Scenes {
		a.println(fmt.Sprintf("%s [%s]", cat.Format(storyboard.LabelScene, sc.Number), mediaLabel(sc)))
		for _, f := range storyboard.Fields {
			a.println("  " + cat.Format(storyboard.LabelField, cat.FieldLabel(f), sc.Field(f)))
		}
	}
	if n := len(st.History); n > 0 {
		a.println("Last:", st.History[n-1].Action)
	}
	return nil
}

func (a *App) Plot(ctx context.Context) error {
	plot, err := GetMultiline(a.reader, "Describe the product and the story", a.out)
	if err != nil {
		return err
	}
	return a.session.SetPlot(ctx, plot)
}

func (a *App) Style(ctx context.Context, args []string) error {
	return a.session.SetStyle(ctx, strings.Join(args, " "))
}

func (a *App) Count(ctx context.Context, args []string) error {
	n, err := intArg(args, fmt.Sprintf("count <%d-%d>", common.MinSceneCount, common.MaxSceneCount))
	if err != nil {
		return err
	}
	return a.session.SetSceneCount(ctx, n)
}

func (a *App) Resolution(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("res <720p|1080p>")
	}
	r, err := storyboard.ParseResolution(args[0])
	if err != nil {
		return err
	}
	return a.session.SetResolution(ctx, r)
}

func (a *App) Duration(ctx context.Context, args []string) error {
	n, err := intArg(args, "dur <5|10|15>")
	if err != nil {
		return err
	}
	d, err := storyboard.ParseDuration(n)
	if err != nil {
		return err
	}
	return a.session.SetDuration(ctx, d)
}

func (a *App) Script(ctx context.Context) error {
	a.println("Writing the script...")
	if err := a.session.GenerateScript(ctx); err != nil {
		return err
	}
	return a.Show(ctx)
}

func (a *App) Regenerate(ctx context.Context, args []string) error {
	sc, err := a.sceneArg(args, "regen <n>")
	if err != nil {
		return err
	}
	return a.session.RegenerateScene(ctx, sc.ID)
}

func (a *App) Image(ctx context.Context, args []string) error {
	sc, err := a.sceneArg(args, "image <n>")
	if err != nil {
		return err
	}
	return a.session.GenerateImage(ctx, sc.ID)
}

func (a *App) Video(ctx context.Context, args []string) error {
	sc, err := a.sceneArg(args, "video <n>")
	if err != nil {
		return err
	}
	a.println("Rendering, this can take a few minutes...")
	return a.session.GenerateVideo(ctx, sc.ID)
}

func (a *App) Videos(ctx context.Context) error {
	res, err := a.session.GenerateAllVideos(ctx)
	if res.Generated+res.Skipped+res.Failed > 0 {
		a.println(fmt.Sprintf("Videos: %d generated, %d skipped, %d failed", res.Generated, res.Skipped, res.Failed))
	}
	return err
}

// Edit sets one field. Without a value on the command line the new text
// is prompted for.
func (a *App) Edit(ctx context.Context, args []string) error {
	const usage = "edit <n> <field> [value]"
	if len(args) < 2 {
		return usageError(usage)
	}
	sc, err := a.sceneArg(args, usage)
	if err != nil {
		return err
	}
	field, err := storyboard.ParseSceneField(args[1])
	if err != nil {
		return err
	}

	value := strings.Join(args[2:], " ")
	if value == "" {
		a.println("Current:", sc.Field(field))
		if value, err = GetSimpleText(a.reader, "New "+string(field), a.out); err != nil {
			return err
		}
	}
	return a.session.EditScene(ctx, sc.ID, field, value)
}

func (a *App) Delete(ctx context.Context, args []string) error {
	sc, err := a.sceneArg(args, "delete <n>")
	if err != nil {
		return err
	}
	return a.session.DeleteScene(ctx, sc.ID)
}

func (a *App) Assets(ctx context.Context, args []string) error {
	if len(args) == 0 {
		for i, as := range a.session.State().Assets {
			a.println(fmt.Sprintf("%d. %s (%s, %s)", i+1, as.Name, as.Kind, as.MIMEType))
		}
		return nil
	}

	switch args[0] {
	case "add":
		if len(args) != 2 {
			return usageError("assets add <path>")
		}
		as, err := a.session.AddAssetFile(ctx, args[1])
		if err != nil {
			return err
		}
		a.println(fmt.Sprintf("Added %s as %s", as.Name, as.Kind))
		return nil
	case "rm":
		n, err := intArg(args[1:], "assets rm <n>")
		if err != nil {
			return err
		}
		list := a.session.State().Assets
		if n < 1 || n > len(list) {
			return fmt.Errorf("asset %d: %w", n, common.ErrorNotFound)
		}
		return a.session.RemoveAsset(ctx, list[n-1].ID)
	}
	return usageError("assets [add <path> | rm <n>]")
}

// History prints the newest entries first. With a journal the stored
// entries are shown, otherwise the in-memory ones.
func (a *App) History(ctx context.Context, args []string) error {
	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := intArg(args, "history [n]")
		if err != nil {
			return err
		}
		if n < 1 {
			return usageError("history [n] with n >= 1")
		}
		limit = n
	}

	var items []storyboard.HistoryItem
	if a.history != nil {
		var err error
		if items, err = a.history.List(ctx, a.session.ID(), limit); err != nil {
			return err
		}
	} else {
		h := a.session.State().History
		for i := len(h) - 1; i >= 0 && len(items) < limit; i-- {
			items = append(items, h[i])
		}
	}

	for _, it := range items {
		a.println(it.Timestamp.Local().Format("15:04:05"), it.Action)
	}
	return nil
}

func (a *App) Key(ctx context.Context) error {
	return a.session.SelectCredential(ctx)
}

func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("export <videos|script|sheet>")
	}

	var locs []string
	switch storyboard.ExportKind(args[0]) {
	case storyboard.ExportVideos:
		var err error
		if locs, err = a.session.ExportVideos(ctx); err != nil {
			return err
		}
	case storyboard.ExportScript:
		loc, err := a.session.ExportScript(ctx)
		if err != nil {
			return err
		}
		locs = append(locs, loc)
	case storyboard.ExportSheet:
		loc, err := a.session.ExportContactSheet(ctx)
		if err != nil {
			return err
		}
		locs = append(locs, loc)
	default:
		return usageError("export <videos|script|sheet>")
	}

	for _, l := range locs {
		a.println("Saved", l)
	}
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	return a.session.Reset(ctx)
}
