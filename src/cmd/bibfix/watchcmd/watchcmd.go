package watchcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"bibfix/src/internal/config"
	"bibfix/src/internal/logging"
	"bibfix/src/internal/postprocess"
	"bibfix/src/internal/stringsx"
)

// New returns the watch command: run the fix once, then again on every
// change of the export file, until interrupted.
func New() *cobra.Command {
	var output, logLevel string
	var removeNotes, braceTitles bool
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [flags] <bibliography.txt>",
		Short: "Re-run the fix whenever the export file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("remove-notes") {
				removeNotes = settings.RemoveNotes
			}
			if !cmd.Flags().Changed("brace-titles") {
				braceTitles = settings.BraceTitles
			}
			logging.Setup(stringsx.FirstNonEmpty(logLevel, settings.LogLevel), cmd.ErrOrStderr())
			opts := postprocess.Options{RemoveNotes: removeNotes, BraceTitles: braceTitles}
			task := postprocess.NewTask(args[0], output, opts)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watch(ctx, task, debounce)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: input with .txt -> .bib, whitespace -> '_')")
	cmd.Flags().BoolVar(&removeNotes, "remove-notes", false, "drop the note field from every entry")
	cmd.Flags().BoolVar(&braceTitles, "brace-titles", false, "wrap each title in an extra brace pair to protect capitalization")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, or error")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "quiet period before re-running after a change")
	return cmd
}

// watch runs the task once, then re-runs it (debounced) on every
// write/create/rename of the input file. The input's directory is watched
// rather than the file itself, because EndNote and most editors replace the
// file on save. A failing run is logged and watching continues.
func watch(ctx context.Context, task postprocess.Task, debounce time.Duration) error {
	input, err := filepath.Abs(task.Input)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", task.Input, err)
	}
	if out, err := filepath.Abs(task.Output); err == nil && out == input {
		return fmt.Errorf("output %s would overwrite the watched input", task.Output)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(input), err)
	}

	// Timer callbacks run on their own goroutines; a run slower than the
	// debounce window must not overlap the next one.
	var runMu sync.Mutex
	runOnce := func() {
		runMu.Lock()
		defer runMu.Unlock()
		if err := postprocess.Run(task); err != nil {
			slog.Error("fix failed", "error", err)
		}
	}
	runOnce()
	slog.Info("watching bibliography export", "file", input)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(input) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("export changed", "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, runOnce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "error", err)
		}
	}
}
