package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/branchlaunch/internal/eventstore"
	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
	"git.home.luguber.info/inful/branchlaunch/internal/statedir"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int  `short:"n" default:"10" help:"Number of runs to show (0 for all)"`
	JSON  bool `name:"json" help:"Print runs as JSON"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	wd, err := os.Getwd()
	if err != nil {
		return ferrors.FileSystemError("cannot determine working directory").WithCause(err).Build()
	}
	dir := statedir.NewManager(wd, cfg.StateDir)
	if !dir.Exists() {
		fmt.Fprintln(stdout, "No runs recorded yet")
		return nil
	}
	return RunHistory(context.Background(), dir.File(cfg.Journal.File), h.Limit, h.JSON)
}

// RunHistory prints the most recent runs recorded in the journal at path.
func RunHistory(ctx context.Context, path string, limit int, asJSON bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(stdout, "No runs recorded yet")
		return nil
	}

	store, err := eventstore.NewSQLiteStore(path)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryEventStore, "cannot open run journal").
			WithContext(ferrors.ContextPath, path).
			Build()
	}
	defer func() { _ = store.Close() }()

	projection := eventstore.NewRunHistoryProjection(store, 0)
	if err := projection.Rebuild(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryEventStore, "cannot read run journal").Build()
	}
	runs := projection.Recent(limit)

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(stdout, "No runs recorded yet")
		return nil
	}

	// Casers are not safe for concurrent use.
	title := cases.Title(language.English)
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTATUS\tSTARTED\tDURATION\tPROCESSES\tDETAIL")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(r.RunID),
			title.String(string(r.Status)),
			r.StartedAt.Local().Format(time.DateTime),
			duration(r),
			processes(r.Processes),
			r.ErrorMessage,
		)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func duration(r eventstore.RunSummary) string {
	if r.EndedAt == nil {
		return "-"
	}
	return r.EndedAt.Sub(r.StartedAt).Round(time.Second).String()
}

func processes(procs map[string]int) string {
	if len(procs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(procs))
	for name, pid := range procs {
		parts = append(parts, fmt.Sprintf("%s(%d)", name, pid))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
