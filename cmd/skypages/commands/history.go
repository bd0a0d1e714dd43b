package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/skypages/internal/eventstore"
	"git.home.luguber.info/inful/skypages/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit     int    `short:"n" help:"Number of builds to show" default:"20"`
	Build     string `name:"build" help:"Show one build, including its failure message"`
	JSON      bool   `name:"json" help:"Print JSON instead of a table"`
	HistoryDB string `name:"history-db" help:"Build history database (default: <project-root>/.skypages/history.db)" type:"path"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	opts := root.Runtime()
	if h.HistoryDB != "" {
		opts.HistoryDB = h.HistoryDB
	}
	layout, err := Layout(opts)
	if err != nil {
		return err
	}
	path := opts.HistoryPath(layout.ProjectRoot())
	if h.Build != "" {
		return RunHistoryBuild(context.Background(), path, h.Build, h.JSON, os.Stdout)
	}
	return RunHistory(context.Background(), path, h.Limit, h.JSON, os.Stdout)
}

// RunHistory prints the most recent builds recorded in the database at path.
func RunHistory(ctx context.Context, path string, limit int, asJSON bool, w io.Writer) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		_, err := fmt.Fprintln(w, "No builds recorded.")
		return err
	}

	store, err := eventstore.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	projection := eventstore.NewBuildHistoryProjection(store, limit)
	if err := projection.Rebuild(ctx); err != nil {
		return err
	}
	builds := projection.GetHistory()

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(builds)
	}
	if len(builds) == 0 {
		_, err := fmt.Fprintln(w, "No builds recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTATUS\tSTARTED\tDURATION\tCOMPILE\tREVISION\tERRORS\tWARNINGS")
	for _, b := range builds {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			shortID(b.BuildID),
			b.Status,
			b.StartedAt.Local().Format(time.DateTime),
			b.Duration.Round(time.Millisecond),
			dash(b.CompileMode),
			dash(b.Revision),
			b.ErrorCount,
			b.WarningCount,
		)
	}
	return tw.Flush()
}

// RunHistoryBuild prints the recorded summary of one build.
func RunHistoryBuild(ctx context.Context, path, buildID string, asJSON bool, w io.Writer) error {
	notFound := errors.NewError(errors.CategoryNotFound, fmt.Sprintf("build %s not recorded", buildID)).
		WithContext("history_db", path).
		Build()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return notFound
	}

	store, err := eventstore.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	projection := eventstore.NewBuildHistoryProjection(store, 0)
	if err := projection.Rebuild(ctx); err != nil {
		return err
	}
	b, ok := projection.GetBuild(buildID)
	if !ok {
		return notFound
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Build:\t%s\n", b.BuildID)
	_, _ = fmt.Fprintf(tw, "Status:\t%s\n", b.Status)
	_, _ = fmt.Fprintf(tw, "Started:\t%s\n", b.StartedAt.Local().Format(time.DateTime))
	_, _ = fmt.Fprintf(tw, "Duration:\t%s\n", b.Duration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(tw, "Mode:\t%s\n", dash(b.Mode))
	_, _ = fmt.Fprintf(tw, "Compile mode:\t%s\n", dash(b.CompileMode))
	_, _ = fmt.Fprintf(tw, "Revision:\t%s\n", dash(b.Revision))
	_, _ = fmt.Fprintf(tw, "Errors:\t%d\n", b.ErrorCount)
	_, _ = fmt.Fprintf(tw, "Warnings:\t%d\n", b.WarningCount)
	if b.ErrorStage != "" {
		_, _ = fmt.Fprintf(tw, "Failed in:\t%s\n", b.ErrorStage)
		_, _ = fmt.Fprintf(tw, "Failure:\t%s\n", b.ErrorMessage)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
