package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/schollz/progressbar/v3"

	"github.com/nguyentantai21042004/corpus-flow/internal/storage"
)

// Run lists the source folders and processes every audio, one at a time.
// A failed audio is logged and counted; the run goes on with the next one.
func (p *implProcessor) Run(ctx context.Context, folderIDs []string) (*RunSummary, error) {
	files, err := p.deps.Source.ListFiles(ctx, folderIDs, p.opts.Format)
	if err != nil {
		return nil, fmt.Errorf("list source folders: %w", err)
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].FullName() < files[j].FullName() })

	summary := &RunSummary{Total: len(files)}
	p.logger.Info(ctx, "Found %d audios in %d folders", len(files), len(folderIDs))

	var out io.Writer = io.Discard
	if p.opts.ShowProgress {
		out = os.Stderr
	}
	bar := progressbar.NewOptions(
		len(files),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("ingesting audios"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Close()

	for i, file := range files {
		if ctx.Err() != nil {
			p.logger.Warn(ctx, "Run interrupted after %d/%d audios", i, len(files))
			return summary, ctx.Err()
		}

		res, err := p.Process(ctx, file)
		switch {
		case err != nil:
			p.logger.Error(ctx, "Failed to process %s: %v", file.FullName(), err)
			summary.Failed++
		case res.Skipped:
			summary.Skipped++
		default:
			summary.Persisted++
		}

		if err := bar.Add(1); err != nil {
			p.logger.Debug(ctx, "Progress bar update failed: %v", err)
		}
	}

	p.logger.Info(ctx, "Run complete: %d persisted, %d skipped, %d failed", summary.Persisted, summary.Skipped, summary.Failed)
	return summary, nil
}

// ProcessPath ingests a local file. Handled files, including already processed ones,
// are archived; failed ones stay in the inbox.
func (p *implProcessor) ProcessPath(ctx context.Context, path string) error {
	file, ok := storage.LocalFile(path)
	if !ok {
		return fmt.Errorf("not an audio file: %s", path)
	}

	if _, err := p.Process(ctx, file); err != nil {
		return err
	}

	if err := p.moveToArchived(ctx, path); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}
	return nil
}
