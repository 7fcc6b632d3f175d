package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"ManaMerge/internal/shared/appconfig"
)

// Open 打开本地 sqlite 存档文件（纯 Go 驱动，无 cgo）。
// 单连接：存档只有一个 writer goroutine，多连接只会带来 SQLITE_BUSY。
func Open(cfg appconfig.SQLiteConfig, l *zap.Logger) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if l == nil {
		l = zap.NewNop()
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db, cfg.BusyTimeout); err != nil {
		_ = db.Close()
		return nil, err
	}

	l.Info("open sqlite success", zap.String("path", cfg.Path))
	return db, nil
}

func initPragmas(db *sql.DB, busy time.Duration) error {
	if busy <= 0 {
		busy = 5 * time.Second
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		fmt.Sprintf("PRAGMA busy_timeout=%d;", busy.Milliseconds()),
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
