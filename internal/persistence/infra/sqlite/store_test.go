package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ManaMerge/internal/shared/appconfig"
	sqliteinfra "ManaMerge/internal/shared/infrastructure/sqlite"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqliteinfra.Open(appconfig.SQLiteConfig{
		Path:        filepath.Join(t.TempDir(), "save.db"),
		BusyTimeout: time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("期望打开 sqlite 成功, err=%v", err)
	}
	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("期望建表成功, err=%v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestStore_批量写入与覆盖(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.PutBatch(ctx, map[string][]byte{"mm:v2:mana": []byte(`{"balance":1}`), "mm:v2:stats": []byte(`{}`)}); err != nil {
		t.Fatalf("期望写入成功, err=%v", err)
	}
	if err := s.PutBatch(ctx, map[string][]byte{"mm:v2:mana": []byte(`{"balance":2}`)}); err != nil {
		t.Fatalf("期望覆盖成功, err=%v", err)
	}
	got, ok, err := s.Get(ctx, "mm:v2:mana")
	if err != nil || !ok || string(got) != `{"balance":2}` {
		t.Fatalf("期望读到覆盖后的值, got=%q ok=%v err=%v", got, ok, err)
	}
	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("期望缺失 key 返回 ok=false, err=%v", err)
	}
}

func TestStore_前缀列举与删除(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_ = s.PutBatch(ctx, map[string][]byte{"mm:v2:a": {1}, "mm:v2:b": {2}, "mmt_grid": {3}})
	keys, err := s.Keys(ctx, "mm:v2:")
	if err != nil || len(keys) != 2 || keys[0] != "mm:v2:a" {
		t.Fatalf("期望列出 2 个 key, got=%v err=%v", keys, err)
	}
	if err := s.Delete(ctx, "mm:v2:a", "mmt_grid"); err != nil {
		t.Fatalf("期望删除成功, err=%v", err)
	}
	keys, _ = s.Keys(ctx, "")
	if len(keys) != 1 || keys[0] != "mm:v2:b" {
		t.Fatalf("期望只剩 mm:v2:b, got=%v", keys)
	}
}
