package fs

import (
	"context"
	"fmt"

	"github.com/aretw0/lifecycle"

	"github.com/quillworks/quill/pkg/core"
)

// Watch emits vault events for posts whose relative path matches pattern
// (empty pattern matches everything). The returned channel is closed when
// ctx is cancelled and the worker has drained.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	events := make(chan core.Event)
	w := newWatchWorker(r, pattern, events)

	if err := w.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		// Stop waits for the worker loop and the debouncer to drain, so
		// closing the channel afterwards is safe.
		if err := w.Stop(context.Background()); err != nil && r.config.Logger != nil {
			r.config.Logger.Debug("watcher stop failed", "error", err)
		}
		close(events)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		if r.config.ErrorHandler != nil {
			r.config.ErrorHandler(fmt.Errorf("watcher shutdown panic: %w", err))
		} else if r.config.Logger != nil {
			r.config.Logger.Error("watcher shutdown panic", "error", err)
		}
	}))

	return events, nil
}
