package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/exporter"
	"github.com/nguyentantai21042004/corpus-flow/internal/persistence"
)

func newExportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "export",
		Short: "Write dataset artifacts for the committed audios of a corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, cancel, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			defer a.Close()

			if !a.cfg.Database.Enabled {
				return fmt.Errorf("export reads the database: set database.enabled")
			}
			if err := a.openDatabase(ctx); err != nil {
				return err
			}

			ec := a.cfg.Export
			corpusID := a.cfg.Corpus.ID
			if v, _ := cmd.Flags().GetInt("corpus"); v > 0 {
				corpusID = v
			}
			outDir := a.cfg.Paths.Export
			if v, _ := cmd.Flags().GetString("out"); v != "" {
				outDir = v
			}

			var originals exporter.OriginalSource
			if ec.OriginalAudios {
				if err := a.openStorage(ctx); err != nil {
					return err
				}
				loader := audio.NewLoader(a.source, a.exec, audio.LoaderOptions{
					FFmpegPath: a.cfg.FFmpeg.BinaryPath,
					TempDir:    a.cfg.Paths.Temp,
					SampleRate: ec.SampleRate,
					TopDB:      a.cfg.Audio.TopDB,
				})
				originals = exporter.NewStorageOriginals(a.source, loader, a.cfg.Corpus.Folders, a.cfg.Corpus.Format, a.normalizer.Normalize)
			}

			e := exporter.New(outDir, a.store, originals, persistence.NewFileWriter(a.exec, a.cfg.FFmpeg.BinaryPath), a.log)
			summary, err := e.Export(ctx, corpusID, exporter.Options{
				OnlyFinished:   ec.ShouldOnlyFinished(),
				CSV:            ec.CSV,
				Concatenated:   ec.Concatenated,
				BySpeaker:      ec.BySpeaker,
				Docx:           ec.Docx,
				TextGrid:       ec.TextGrid,
				Metadata:       ec.Metadata,
				OriginalAudios: ec.OriginalAudios,
				AudioFormats:   ec.AudioFormats,
			})
			if err != nil {
				return err
			}

			a.log.Info(ctx, "Exported corpus %d to %s: %d audios, %d written, %d skipped, %d failed",
				corpusID, outDir, summary.Audios, summary.Written, summary.Skipped, summary.Failed)
			if summary.Failed > 0 {
				return fmt.Errorf("%d artifacts failed", summary.Failed)
			}
			return nil
		},
	}
	c.Flags().Int("corpus", 0, "corpus id, overrides corpus.id")
	c.Flags().String("out", "", "export directory, overrides paths.export")
	return c
}
