package config

import (
	"fmt"
	"time"
)

type Config struct {
	Corpus      CorpusConfig      `yaml:"corpus"`
	Paths       PathsConfig       `yaml:"paths"`
	Audio       AudioConfig       `yaml:"audio"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Database    DatabaseConfig    `yaml:"database"`
	Remote      RemoteConfig      `yaml:"remote"`
	Storage     StorageConfig     `yaml:"storage"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Export      ExportConfig      `yaml:"export"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Performance PerformanceConfig `yaml:"performance"`
}

type CorpusConfig struct {
	ID int `yaml:"id"`
	// Folders are the storage folder ids (Drive ids, S3 prefixes or local dirs) holding source audio.
	Folders []string `yaml:"folders"`
	// Format restricts listings to one extension, e.g. "wav". Empty lists every supported format.
	Format         string   `yaml:"format"`
	StripSuffixes  []string `yaml:"strip_suffixes"`
	SearchKeyParts int      `yaml:"search_key_parts"`
	IgnoreErrored  *bool    `yaml:"ignore_errored"`
}

type PathsConfig struct {
	Output   string `yaml:"output"`
	Temp     string `yaml:"temp"`
	Inbox    string `yaml:"inbox"`
	Archived string `yaml:"archived"`
	Export   string `yaml:"export"`
}

type AudioConfig struct {
	SampleRate int     `yaml:"sample_rate"`
	TopDB      float64 `yaml:"top_db"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type TranscriberConfig struct {
	// Backend is "command" or "gemini".
	Backend  string   `yaml:"backend"`
	Command  string   `yaml:"command"`
	Args     []string `yaml:"args"`
	Model    string   `yaml:"model"`
	Language string   `yaml:"language"`
	Prompt   string   `yaml:"prompt"`
	APIKeys  []string `yaml:"api_keys"`
}

type SSHConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	KeyFile    string `yaml:"key_file"`
	KnownHosts string `yaml:"known_hosts"`
}

type DatabaseConfig struct {
	Enabled bool `yaml:"enabled"`
	// Driver is "sqlite" or "mysql".
	Driver  string    `yaml:"driver"`
	DSN     string    `yaml:"dsn"`
	Migrate bool      `yaml:"migrate"`
	SSH     SSHConfig `yaml:"ssh"`
}

type RemoteConfig struct {
	SSHConfig   `yaml:",inline"`
	DatasetPath string        `yaml:"dataset_path"`
	KeepAlive   time.Duration `yaml:"keepalive"`
	MaxSessions int           `yaml:"max_sessions"`
	CopyTimeout time.Duration `yaml:"copy_timeout"`
}

type StorageConfig struct {
	// Backend is "gdrive", "s3" or "local".
	Backend     string `yaml:"backend"`
	Credentials string `yaml:"credentials"`
	Bucket      string `yaml:"bucket"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	Upload      bool   `yaml:"upload"`
	// UploadFolderID is the parent for segment uploads. Empty falls back to the audio's own folder.
	UploadFolderID string `yaml:"upload_folder_id"`
}

type PersistenceConfig struct {
	Workers      int    `yaml:"workers"`
	AudioFormat  string `yaml:"audio_format"`
	MarkFinished *bool  `yaml:"mark_finished"`
}

type ExportConfig struct {
	OnlyFinished   *bool    `yaml:"only_finished"`
	CSV            bool     `yaml:"csv"`
	Concatenated   bool     `yaml:"concatenated"`
	BySpeaker      bool     `yaml:"by_speaker"`
	Docx           bool     `yaml:"docx"`
	TextGrid       bool     `yaml:"textgrid"`
	Metadata       bool     `yaml:"metadata"`
	OriginalAudios bool     `yaml:"original_audios"`
	AudioFormats   []string `yaml:"audio_formats"`
	SampleRate     int      `yaml:"sample_rate"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// ShouldIgnoreErrored reports whether errored audios are eligible for reprocessing.
func (c CorpusConfig) ShouldIgnoreErrored() bool { return boolOr(c.IgnoreErrored, true) }

// ShouldMarkFinished reports whether a fully persisted audio is flagged finished.
func (c PersistenceConfig) ShouldMarkFinished() bool { return boolOr(c.MarkFinished, true) }

func (c ExportConfig) ShouldOnlyFinished() bool { return boolOr(c.OnlyFinished, true) }

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func (c *Config) Validate() error {
	if c.Corpus.ID <= 0 {
		return fmt.Errorf("corpus.id is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = "local"
	case "local", "gdrive", "s3":
	default:
		return fmt.Errorf("storage.backend %q is not supported", c.Storage.Backend)
	}
	if c.Storage.Backend == "s3" && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required for the s3 backend")
	}
	if c.Storage.Backend == "gdrive" && c.Storage.Credentials == "" {
		return fmt.Errorf("storage.credentials is required for the gdrive backend")
	}

	if c.Database.Enabled {
		switch c.Database.Driver {
		case "":
			c.Database.Driver = "sqlite"
		case "sqlite", "mysql":
		default:
			return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
		}
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required")
		}
		if c.Database.SSH.Enabled && c.Database.SSH.Host == "" {
			return fmt.Errorf("database.ssh.host is required")
		}
		if c.Database.SSH.Port == 0 {
			c.Database.SSH.Port = 22
		}
	}

	if c.Remote.Enabled {
		if c.Remote.Host == "" {
			return fmt.Errorf("remote.host is required")
		}
		if c.Remote.DatasetPath == "" {
			return fmt.Errorf("remote.dataset_path is required")
		}
	}
	if c.Remote.Port == 0 {
		c.Remote.Port = 22
	}
	if c.Remote.KeepAlive == 0 {
		c.Remote.KeepAlive = 30 * time.Second
	}
	if c.Remote.MaxSessions == 0 {
		c.Remote.MaxSessions = 8
	}

	switch c.Transcriber.Backend {
	case "":
		c.Transcriber.Backend = "command"
	case "command", "gemini":
	default:
		return fmt.Errorf("transcriber.backend %q is not supported", c.Transcriber.Backend)
	}
	if c.Transcriber.Model == "" && c.Transcriber.Backend == "gemini" {
		c.Transcriber.Model = "gemini-2.5-flash"
	}

	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Export == "" {
		c.Paths.Export = "data/export"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.TopDB == 0 {
		c.Audio.TopDB = 20
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.Corpus.StripSuffixes == nil {
		c.Corpus.StripSuffixes = []string{"_sem_cabecalho", "_sem_cabecallho", "_sem_cabeçalho"}
	}
	if c.Persistence.Workers == 0 {
		c.Persistence.Workers = 32
	}
	if c.Persistence.AudioFormat == "" {
		c.Persistence.AudioFormat = "wav"
	}
	if c.Export.SampleRate == 0 {
		c.Export.SampleRate = 48000
	}
	if len(c.Export.AudioFormats) == 0 {
		c.Export.AudioFormats = []string{"wav"}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 1
	}

	return nil
}
