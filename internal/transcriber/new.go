package transcriber

import (
	"fmt"

	"github.com/nguyentantai21042004/corpus-flow/internal/config"
	"github.com/nguyentantai21042004/corpus-flow/internal/logger"
	"github.com/nguyentantai21042004/corpus-flow/pkg/executor"
)

// New builds the backend selected by cfg.Backend.
func New(cfg config.TranscriberConfig, tempDir string, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	switch cfg.Backend {
	case "", "command":
		return NewCommand(exec, CommandOptions{
			Command:  cfg.Command,
			Args:     cfg.Args,
			Language: cfg.Language,
			Model:    cfg.Model,
			TempDir:  tempDir,
		}, log)
	case "gemini":
		return NewGemini(cfg.APIKeys, cfg.Model, cfg.Language, tempDir, log)
	default:
		return nil, fmt.Errorf("unsupported transcriber backend %q", cfg.Backend)
	}
}
