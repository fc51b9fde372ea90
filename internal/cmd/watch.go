package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/showrunner/showrunner/internal/config"
	"github.com/showrunner/showrunner/internal/mission"
	"github.com/showrunner/showrunner/internal/studio"
	"github.com/showrunner/showrunner/internal/util"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and produce missions as they change",
	Long: `Watch a directory for mission file changes and run each changed mission
through the pipeline. Rapid saves of the same file are debounced into a
single run.

Only files matching the configured watch patterns trigger runs
(watch.patterns, default *.yaml and *.yml). The watch is not recursive.

Examples:
  # Rerun missions as they are edited
  showrunner watch ./missions

  # Slower debounce for editors that save in bursts
  SHOWRUNNER_WATCH_DEBOUNCE_MS=2000 showrunner watch ./missions`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	patterns := cfg.Watch.Patterns
	if len(patterns) == 0 {
		patterns = config.Default().Watch.Patterns
	}
	batch, err := newMissionBatch(patterns)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := args[0]
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	st, err := studio.New(cfg, studio.Offline(cfg.Offline))
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	st.Start()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render("👀 watching "+dir))
	fmt.Fprintf(out, "  %s %s\n", dimStyle.Render("patterns:"), strings.Join(patterns, ", "))
	fmt.Fprintf(out, "  %s %s\n\n", dimStyle.Render("debounce:"), cfg.Watch.Debounce())

	// Create the timer fired so the first receive drains it; it only
	// fires again once a matching event arms it.
	debounce := time.NewTimer(0)
	<-debounce.C
	defer debounce.Stop()

	for {
		select {
		case <-sigChan:
			cancel()
			fmt.Fprintln(out, dimStyle.Render("stopping"))
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if batch.add(event) {
				debounce.Reset(cfg.Watch.Debounce())
			}

		case <-debounce.C:
			for _, path := range batch.drain() {
				produceWatched(ctx, out, st, path)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "%s %v\n", warnStyle.Render("watch error:"), err)
		}
	}
}

// produceWatched runs one changed mission file. Failures are reported and
// swallowed so the watch loop keeps running.
func produceWatched(ctx context.Context, w io.Writer, st *studio.Studio, path string) {
	name := filepath.Base(path)

	m, err := mission.Load(path)
	if err != nil {
		fmt.Fprintf(w, "%s %s: %v\n", failStyle.Render("skip"), name, err)
		return
	}

	result, err := st.Produce(ctx, m)
	if err != nil {
		fmt.Fprintf(w, "%s %s: %v\n", failStyle.Render("fail"), name, err)
		return
	}

	line := fmt.Sprintf("%s %s", renderStatus(result.Status), name)
	if final := finalArtifact(result); final != nil && final.Handle != "" {
		line += " " + dimStyle.Render(final.Handle)
	}
	fmt.Fprintln(w, util.TruncateANSI(line, 96))
}

// missionBatch collects file events during the debounce window. Repeated
// events for the same path collapse into one pending run.
type missionBatch struct {
	patterns []glob.Glob
	pending  map[string]struct{}
}

func newMissionBatch(patterns []string) (*missionBatch, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile watch pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, g)
	}
	return &missionBatch{
		patterns: compiled,
		pending:  make(map[string]struct{}),
	}, nil
}

// add queues the event's path if it is a write or create of a file whose
// base name matches a watch pattern. It reports whether anything was
// queued.
func (b *missionBatch) add(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	for _, g := range b.patterns {
		if g.Match(name) {
			b.pending[event.Name] = struct{}{}
			return true
		}
	}
	return false
}

// drain returns the queued paths in sorted order and resets the batch.
func (b *missionBatch) drain() []string {
	if len(b.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(b.pending))
	for path := range b.pending {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	b.pending = make(map[string]struct{})
	return paths
}
