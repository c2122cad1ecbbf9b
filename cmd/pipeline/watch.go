package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/corpus-flow/internal/storage"
	"github.com/nguyentantai21042004/corpus-flow/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Ingest audio files dropped into the local inbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, cancel, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			defer a.Close()

			inbox := a.cfg.Paths.Inbox
			if inbox == "" {
				return fmt.Errorf("paths.inbox is required for watch mode")
			}
			if err := a.ensureDirectories(inbox, a.cfg.Paths.Archived, a.cfg.Paths.Output, a.cfg.Paths.Temp); err != nil {
				return err
			}
			if a.cfg.Storage.Upload {
				if err := a.openStorage(ctx); err != nil {
					return err
				}
			}
			if err := a.openDatabase(ctx); err != nil {
				return err
			}
			if err := a.openRemote(ctx); err != nil {
				return err
			}

			proc, err := a.processor(storage.NewLocal(), false)
			if err != nil {
				return err
			}

			w, err := watcher.New(inbox, proc.ProcessPath, a.log, a.cfg.Performance.MaxConcurrent)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer w.Stop()

			a.log.Info(ctx, "Monitoring: %s", inbox)
			a.log.Info(ctx, "Archive: %s", a.cfg.Paths.Archived)
			a.log.Info(ctx, "Press Ctrl+C to stop")

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			a.log.Info(ctx, "Pipeline stopped")
			return nil
		},
	}
}
