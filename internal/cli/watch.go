/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func (a *app) watchCmd() *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run check whenever a declaration file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := newWatcher(a.settings.Dir, a.settings.Files, debounce)
			if err != nil {
				return err
			}
			defer w.Close()

			a.report(cmd)
			changes := w.Start(cmd.Context())
			for range changes {
				a.report(cmd)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "quiet period before re-checking")
	return cmd
}

// report runs check and prints its error instead of returning it.
func (a *app) report(cmd *cobra.Command) {
	if err := a.check(cmd); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "error:", err)
	}
}

// watcher signals debounced changes of files matching a glob in one directory.
type watcher struct {
	fsw      *fsnotify.Watcher
	pattern  string
	debounce time.Duration
}

func newWatcher(dir, pattern string, debounce time.Duration) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	// Patterns are relative to dir; subdirectory patterns watch their parent.
	watchDir := filepath.Join(dir, filepath.Dir(pattern))
	if err := fsw.Add(watchDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching directory %s: %w", watchDir, err)
	}
	return &watcher{fsw: fsw, pattern: filepath.Base(pattern), debounce: debounce}, nil
}

// Start delivers one signal per burst of relevant events until ctx is done.
// The returned channel is closed when watching stops.
func (w *watcher) Start(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)
	go w.loop(ctx, out)
	return out
}

// Close releases the underlying watcher.
func (w *watcher) Close() error {
	return w.fsw.Close()
}

func (w *watcher) loop(ctx context.Context, out chan<- struct{}) {
	defer close(out)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			// Non-blocking send: a pending signal already covers this burst.
			select {
			case out <- struct{}{}:
			default:
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (w *watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	ok, _ := filepath.Match(w.pattern, filepath.Base(event.Name))
	return ok
}
