package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ingest",
		Short: "Transcribe and persist every new audio of the corpus folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, cancel, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			defer a.Close()

			folders := a.cfg.Corpus.Folders
			if v, _ := cmd.Flags().GetStringSlice("folder"); len(v) > 0 {
				folders = v
			}
			if len(folders) == 0 {
				return fmt.Errorf("no source folders: set corpus.folders or --folder")
			}

			if err := a.ensureDirectories(a.cfg.Paths.Output, a.cfg.Paths.Temp); err != nil {
				return err
			}
			if err := a.openStorage(ctx); err != nil {
				return err
			}
			if err := a.openDatabase(ctx); err != nil {
				return err
			}
			if err := a.openRemote(ctx); err != nil {
				return err
			}

			noProgress, _ := cmd.Flags().GetBool("no-progress")
			proc, err := a.processor(a.source, !noProgress)
			if err != nil {
				return err
			}

			summary, err := proc.Run(ctx, folders)
			if err != nil {
				return err
			}
			a.log.Info(ctx, "Ingested %d/%d audios (%d skipped, %d failed)", summary.Persisted, summary.Total, summary.Skipped, summary.Failed)
			return nil
		},
	}
	c.Flags().StringSlice("folder", nil, "source folder ids, overrides corpus.folders")
	c.Flags().Bool("no-progress", false, "hide the progress bar")
	return c
}
