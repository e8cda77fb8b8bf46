package reload

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/flemzord/clawslist-mcp/internal/config"
)

// Handler re-reads the configuration and applies the log level, the one
// setting that can change without a restart.
type Handler struct {
	configPath string
	level      *slog.LevelVar
	logger     *slog.Logger

	mu      sync.Mutex
	current *config.Config
}

// NewHandler creates a reload handler. current is the configuration the
// process started with; it is used to report settings that need a restart.
func NewHandler(configPath string, current *config.Config, level *slog.LevelVar, logger *slog.Logger) *Handler {
	return &Handler{
		configPath: configPath,
		current:    current,
		level:      level,
		logger:     logger,
	}
}

// HandleReload loads a fresh effective config (file plus environment),
// validates it, and applies it. On error the running settings are unchanged.
func (h *Handler) HandleReload(ctx context.Context) error {
	cfg, _, err := config.LoadEffective(h.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return h.HandleReloadFromConfig(ctx, cfg)
}

// HandleReloadFromConfig applies a pre-loaded, already-validated config.
func (h *Handler) HandleReloadFromConfig(ctx context.Context, cfg *config.Config) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before reload: %w", err)
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.level != nil {
		h.level.Set(level)
	}

	if stale := restartRequired(h.current, cfg); len(stale) > 0 {
		h.logger.Warn("configuration changes require a restart", "settings", stale)
	}
	h.current = cfg

	h.logger.Info("configuration reloaded", "log_level", level.String())
	return nil
}

// restartRequired lists the settings that differ but are only read at start-up.
func restartRequired(old, next *config.Config) []string {
	if old == nil {
		return nil
	}

	var stale []string
	if old.API != next.API {
		stale = append(stale, "api")
	}
	if old.Credentials != next.Credentials {
		stale = append(stale, "credentials")
	}
	if old.Server != next.Server {
		stale = append(stale, "server")
	}
	if old.Telemetry != next.Telemetry {
		stale = append(stale, "telemetry")
	}
	if old.Security.AuditFile != next.Security.AuditFile {
		stale = append(stale, "security.audit_file")
	}
	return stale
}
