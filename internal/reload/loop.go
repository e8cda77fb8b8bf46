package reload

import (
	"context"
	"log/slog"
	"os"
)

// Loop reloads on every signal received on signals and every watcher event
// until ctx is done. w and signals may be nil.
func Loop(ctx context.Context, h *Handler, w *Watcher, signals <-chan os.Signal, logger *slog.Logger) {
	var events <-chan Event
	if w != nil {
		events = w.Events()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-signals:
			logger.Info("reload signal received", "signal", sig.String())
		case evt := <-events:
			logger.Info("config file changed, reloading", "path", evt.Path)
		}
		if err := h.HandleReload(ctx); err != nil {
			logger.Error("reload failed, keeping current settings", "error", err)
		}
	}
}
