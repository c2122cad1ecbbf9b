package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/config"
	"github.com/nguyentantai21042004/corpus-flow/internal/database"
	"github.com/nguyentantai21042004/corpus-flow/internal/logger"
	"github.com/nguyentantai21042004/corpus-flow/internal/metrics"
	"github.com/nguyentantai21042004/corpus-flow/internal/persistence"
	"github.com/nguyentantai21042004/corpus-flow/internal/processor"
	"github.com/nguyentantai21042004/corpus-flow/internal/remote"
	"github.com/nguyentantai21042004/corpus-flow/internal/resume"
	"github.com/nguyentantai21042004/corpus-flow/internal/storage"
	"github.com/nguyentantai21042004/corpus-flow/internal/transcriber"
	"github.com/nguyentantai21042004/corpus-flow/pkg/executor"
)

// app holds the clients of one command run. Every client is opened once and
// closed by Close in reverse order.
type app struct {
	cfg        *config.Config
	log        logger.Logger
	exec       executor.Executor
	normalizer *resume.Normalizer

	store     database.Store
	transport remote.Transport
	source    storage.Storage

	closers []func() error
}

// newApp loads the configuration and returns a context cancelled on SIGINT/SIGTERM.
func newApp(cmd *cobra.Command) (*app, context.Context, context.CancelFunc, error) {
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	if err := config.LoadEnvFiles(envFiles...); err != nil {
		return nil, nil, nil, err
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	log := logger.NewWithOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx = logger.WithRunID(ctx, uuid.NewString())

	log.Info(ctx, "========================================")
	log.Info(ctx, "Corpus Flow %s: %s", version, cmd.Name())
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s, CPU Cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Corpus: %d, output: %s", cfg.Corpus.ID, cfg.Paths.Output)

	a := &app{
		cfg:        cfg,
		log:        log,
		exec:       executor.New(),
		normalizer: resume.NewNormalizer(cfg.Corpus.StripSuffixes, cfg.Corpus.SearchKeyParts),
	}

	if cfg.Metrics.Listen != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Listen); err != nil {
				log.Error(ctx, "Metrics server stopped: %v", err)
			}
		}()
		log.Info(ctx, "Metrics exposed on %s/metrics", cfg.Metrics.Listen)
	}

	return a, ctx, cancel, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn(context.Background(), "Failed to close client: %v", err)
		}
	}
}

// ensureDirectories creates the local working directories if they don't exist
func (a *app) ensureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func (a *app) openDatabase(ctx context.Context) error {
	dbCfg := a.cfg.Database
	if !dbCfg.Enabled {
		return nil
	}
	opts := database.Options{Driver: dbCfg.Driver, DSN: dbCfg.DSN}

	var (
		store database.Store
		err   error
	)
	if dbCfg.SSH.Enabled {
		client, insecure, derr := remote.Dial(dialOptions(dbCfg.SSH))
		if derr != nil {
			return fmt.Errorf("database tunnel: %w", derr)
		}
		if insecure {
			a.log.Warn(ctx, "Database tunnel host key of %s is not verified, set database.ssh.known_hosts", dbCfg.SSH.Host)
		}
		store, err = database.OpenThroughSSH(ctx, opts, client)
		if err != nil {
			client.Close()
		}
	} else {
		store, err = database.Open(ctx, opts)
	}
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.closers = append(a.closers, store.Close)

	if dbCfg.Migrate {
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	a.store = store
	a.log.Info(ctx, "Database connected (%s)", dbCfg.Driver)
	return nil
}

func (a *app) openRemote(ctx context.Context) error {
	rc := a.cfg.Remote
	if !rc.Enabled {
		return nil
	}

	client, insecure, err := remote.Dial(dialOptions(rc.SSHConfig))
	if err != nil {
		return fmt.Errorf("remote host: %w", err)
	}
	if insecure {
		a.log.Warn(ctx, "Host key of %s is not verified, set remote.known_hosts", rc.Host)
	}

	t := remote.New(client, remote.Options{MaxSessions: rc.MaxSessions, KeepAlive: rc.KeepAlive, CopyTimeout: rc.CopyTimeout}, a.log)
	a.closers = append(a.closers, t.Close)

	if err := t.EnsureDirectory(ctx, rc.DatasetPath); err != nil {
		return fmt.Errorf("remote dataset path: %w", err)
	}

	a.transport = t
	a.log.Info(ctx, "Remote host connected: %s:%d", rc.Host, rc.Port)
	return nil
}

func (a *app) openStorage(ctx context.Context) error {
	s, err := storage.New(ctx, a.cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.source = s
	return nil
}

func dialOptions(c config.SSHConfig) remote.DialOptions {
	return remote.DialOptions{
		Host:       c.Host,
		Port:       c.Port,
		Username:   c.Username,
		Password:   c.Password,
		KeyFile:    c.KeyFile,
		KnownHosts: c.KnownHosts,
	}
}

// coordinator wires the configured sinks. Disabled sinks stay nil interfaces.
func (a *app) coordinator() persistence.Coordinator {
	var sinks persistence.Sinks
	if a.store != nil {
		sinks.Database = a.store
	}
	if a.transport != nil {
		sinks.Remote = a.transport
	}
	if a.cfg.Storage.Upload && a.source != nil {
		sinks.Cloud = a.source
	}

	return persistence.New(persistence.Options{
		OutputRoot:    a.cfg.Paths.Output,
		CorpusID:      a.cfg.Corpus.ID,
		Workers:       a.cfg.Persistence.Workers,
		AudioFormat:   a.cfg.Persistence.AudioFormat,
		RemoteRoot:    a.cfg.Remote.DatasetPath,
		CloudFolderID: a.cfg.Storage.UploadFolderID,
		MarkFinished:  a.cfg.Persistence.ShouldMarkFinished(),
	}, sinks, persistence.NewFileWriter(a.exec, a.cfg.FFmpeg.BinaryPath), a.log)
}

// processor builds the ingestion pipeline reading audio through source.
func (a *app) processor(source storage.Storage, showProgress bool) (processor.Processor, error) {
	t, err := transcriber.New(a.cfg.Transcriber, a.cfg.Paths.Temp, a.exec, a.log)
	if err != nil {
		return nil, fmt.Errorf("create transcriber: %w", err)
	}

	loader := audio.NewLoader(source, a.exec, audio.LoaderOptions{
		FFmpegPath: a.cfg.FFmpeg.BinaryPath,
		TempDir:    a.cfg.Paths.Temp,
		SampleRate: a.cfg.Audio.SampleRate,
		TopDB:      a.cfg.Audio.TopDB,
	})

	deps := processor.Deps{
		Source:      source,
		Loader:      loader,
		Normalizer:  a.normalizer,
		Transcriber: t,
		Coordinator: a.coordinator(),
	}
	if a.store != nil {
		deps.Gate = resume.NewGate(a.store)
	}

	return processor.New(deps, processor.Options{
		Format:        a.cfg.Corpus.Format,
		IgnoreErrored: a.cfg.Corpus.ShouldIgnoreErrored(),
		ArchiveDir:    a.cfg.Paths.Archived,
		ShowProgress:  showProgress,
	}, a.log), nil
}
