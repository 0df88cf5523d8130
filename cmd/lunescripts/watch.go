// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/lunescripts/lunescripts/internal/config"
	"github.com/lunescripts/lunescripts/internal/watch"
)

// watchConfig watches the configuration files and refreshes the script tree
// when the effective script_directories change. It blocks until ctx is
// cancelled.
func (s *session) watchConfig(ctx context.Context) error {
	paths := config.WatchedPaths(s.loadOpts)
	s.logger.Debug("watching configuration", "paths", paths)

	w, err := watch.New(watch.Config{
		Targets:  watch.ForFiles(paths...),
		OnChange: s.configChangeHandler(),
		Logger:   s.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to start config watcher: %w", err)
	}
	return w.Run(ctx)
}

// configChangeHandler returns the watcher callback. It reloads the
// configuration and fires a refresh only when the directory list differs
// from the one seen last.
func (s *session) configChangeHandler() func(ctx context.Context, changed []string) error {
	last := slices.Clone(s.config().ScriptDirectories)

	return func(ctx context.Context, changed []string) error {
		cfg, err := s.reloadConfig(ctx)
		if err != nil {
			fmt.Fprintln(s.app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, s.flags.verbose))
			return nil
		}
		if slices.Equal(last, cfg.ScriptDirectories) {
			s.logger.Debug("configuration changed, script directories unchanged", "files", changed)
			return nil
		}
		s.logger.Debug("script directories changed", "from", last, "to", cfg.ScriptDirectories)
		last = slices.Clone(cfg.ScriptDirectories)
		s.supplier.Refresh()
		return nil
	}
}
