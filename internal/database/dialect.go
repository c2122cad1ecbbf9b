package database

import "fmt"

type dialect struct {
	driver       string
	insertIgnore string
	schema       []string
}

var sqliteDialect = dialect{
	driver:       "sqlite",
	insertIgnore: "INSERT OR IGNORE",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS Audio (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT    NOT NULL,
			corpus_id     INTEGER NOT NULL,
			duration      REAL,
			error_flag    INTEGER,
			finished      INTEGER NOT NULL DEFAULT 0,
			json_metadata TEXT,
			created_at    TEXT    NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audio_name ON Audio(name)`,
		`CREATE INDEX IF NOT EXISTS idx_audio_corpus ON Audio(corpus_id)`,
		`CREATE TABLE IF NOT EXISTS Dataset (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			file_path      TEXT    NOT NULL,
			file_with_user INTEGER NOT NULL DEFAULT 0,
			data_gold      INTEGER NOT NULL DEFAULT 0,
			task           INTEGER NOT NULL DEFAULT 1,
			text_asr       TEXT    NOT NULL,
			audio_id       INTEGER NOT NULL REFERENCES Audio(id),
			segment_num    INTEGER NOT NULL,
			audio_lenght   INTEGER NOT NULL,
			duration       INTEGER NOT NULL,
			start_time     REAL    NOT NULL,
			end_time       REAL    NOT NULL,
			speaker_id     INTEGER,
			UNIQUE(audio_id, segment_num)
		)`,
	},
}

var mysqlDialect = dialect{
	driver:       "mysql",
	insertIgnore: "INSERT IGNORE",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS Audio (
			id            BIGINT AUTO_INCREMENT PRIMARY KEY,
			name          VARCHAR(512) NOT NULL,
			corpus_id     INT NOT NULL,
			duration      DOUBLE,
			error_flag    TINYINT,
			finished      TINYINT NOT NULL DEFAULT 0,
			json_metadata JSON,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_audio_name (name),
			INDEX idx_audio_corpus (corpus_id)
		) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin`,
		`CREATE TABLE IF NOT EXISTS Dataset (
			id             BIGINT AUTO_INCREMENT PRIMARY KEY,
			file_path      VARCHAR(1024) NOT NULL,
			file_with_user TINYINT NOT NULL DEFAULT 0,
			data_gold      TINYINT NOT NULL DEFAULT 0,
			task           INT NOT NULL DEFAULT 1,
			text_asr       TEXT NOT NULL,
			audio_id       BIGINT NOT NULL,
			segment_num    INT NOT NULL,
			audio_lenght   INT NOT NULL,
			duration       INT NOT NULL,
			start_time     DOUBLE NOT NULL,
			end_time       DOUBLE NOT NULL,
			speaker_id     INT,
			UNIQUE KEY uq_dataset_segment (audio_id, segment_num),
			FOREIGN KEY (audio_id) REFERENCES Audio(id)
		) CHARACTER SET utf8mb4`,
	},
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "", "sqlite":
		return sqliteDialect, nil
	case "mysql":
		return mysqlDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}
