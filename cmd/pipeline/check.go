package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/corpus-flow/internal/consistency"
)

func newCheckCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "check",
		Short: "Compare segment files and manifests on disk with the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, cancel, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			defer a.Close()

			if !a.cfg.Database.Enabled {
				return fmt.Errorf("check reads the database: set database.enabled")
			}
			if err := a.openDatabase(ctx); err != nil {
				return err
			}

			corpusID := a.cfg.Corpus.ID
			if v, _ := cmd.Flags().GetInt("corpus"); v > 0 {
				corpusID = v
			}

			checker := consistency.NewChecker(a.store, a.cfg.Paths.Output, a.cfg.Persistence.AudioFormat, a.log)
			report, err := checker.Check(ctx, corpusID)
			if err != nil {
				return err
			}
			for _, m := range report.Mismatches {
				fmt.Fprintln(cmd.OutOrStdout(), m.String())
			}
			if n := len(report.Mismatches); n > 0 {
				return fmt.Errorf("%d mismatches in %d audios", n, report.Audios)
			}
			return nil
		},
	}
	c.Flags().Int("corpus", 0, "corpus id, overrides corpus.id")
	return c
}
