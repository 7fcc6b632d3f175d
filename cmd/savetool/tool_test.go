package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/economy"
	"ManaMerge/internal/persistence"
	"ManaMerge/internal/persistence/infra/memory"
	"ManaMerge/internal/shared/appconfig"
	"ManaMerge/internal/shared/gameconfig/balance"
	"ManaMerge/internal/shared/idgen"
)

func newTool(t *testing.T) (*tool, *bytes.Buffer) {
	t.Helper()
	store := memory.NewStore()
	keys := persistence.NewKeys("test")
	repo, err := persistence.NewRepository(store, keys, balance.Default(), idgen.NewSequence(1), nil)
	if err != nil {
		t.Fatalf("期望创建仓库成功, err=%v", err)
	}
	out := &bytes.Buffer{}
	return &tool{repo: repo, store: store, keys: keys, out: out}, out
}

func seed(t *testing.T, tl *tool) {
	t.Helper()
	bal := balance.Default()
	ids := idgen.NewSequence(1)
	b := domain.NewBoard(bal.Board.Width, bal.Board.Height)
	b.Place(domain.Coord{X: 0, Y: 0}, domain.NewEntity(ids, domain.KindCreature, 3, 10, domain.RegionPlains, domain.VariantNone))
	b.Place(domain.Coord{X: 1, Y: 0}, domain.NewEntity(ids, domain.KindHostile, 10, 10, domain.RegionPlains, domain.VariantSealer))
	b.SetLocked(domain.Coord{X: 2, Y: 0}, true)
	err := tl.repo.Save(context.Background(), persistence.Snapshot{
		Boards:    map[domain.RegionID]*domain.Board{domain.RegionPlains: b},
		Unlocked:  []domain.RegionID{domain.RegionPlains},
		Active:    domain.RegionPlains,
		Mana:      120,
		Upgrades:  economy.DefaultUpgrades(bal.Upgrades),
		Inventory: map[string]int{"bomb": 2},
		SavedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("期望写入存档成功, err=%v", err)
	}
}

func TestCheck_完整存档全部通过(t *testing.T) {
	tl, out := newTool(t)
	seed(t, tl)
	if err := tl.exec(context.Background(), "check", false); err != nil {
		t.Fatalf("期望校验通过, err=%v\n%s", err, out)
	}
	if !strings.Contains(out.String(), "mm:v2:test:mana") {
		t.Fatalf("期望输出包含 mana key, got=%s", out)
	}
}

func TestCheck_损坏记录返回错误(t *testing.T) {
	tl, out := newTool(t)
	seed(t, tl)
	_ = tl.store.PutBatch(context.Background(), map[string][]byte{tl.keys.Mana(): []byte("{broken")})
	if err := tl.exec(context.Background(), "check", false); err == nil {
		t.Fatalf("期望发现损坏记录, out=%s", out)
	}
}

func TestExport_打印棋盘与余额(t *testing.T) {
	tl, out := newTool(t)
	seed(t, tl)
	if err := tl.exec(context.Background(), "export", false); err != nil {
		t.Fatalf("期望导出成功, err=%v", err)
	}
	s := out.String()
	for _, want := range []string{"mana: 120", "2026-03-01T12:00:00Z", "c3 hX ## .. ..", "bomb: 2"} {
		if !strings.Contains(s, want) {
			t.Fatalf("期望输出包含 %q, got=\n%s", want, s)
		}
	}
}

func TestWipe_需要确认并清空(t *testing.T) {
	tl, out := newTool(t)
	seed(t, tl)
	if err := tl.exec(context.Background(), "wipe", false); err == nil {
		t.Fatalf("期望没有 -yes 时拒绝")
	}
	if err := tl.exec(context.Background(), "wipe", true); err != nil {
		t.Fatalf("期望清档成功, err=%v", err)
	}
	out.Reset()
	if err := tl.exec(context.Background(), "keys", false); err != nil {
		t.Fatalf("期望列出 key 成功, err=%v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("期望清档后没有 key, got=%s", out)
	}
}

func TestMigrate_当前格式与空存档(t *testing.T) {
	tl, out := newTool(t)
	if err := tl.exec(context.Background(), "migrate", false); err != nil || !strings.Contains(out.String(), "no save") {
		t.Fatalf("期望提示没有存档, err=%v out=%s", err, out)
	}
	seed(t, tl)
	out.Reset()
	if err := tl.exec(context.Background(), "migrate", false); err != nil || !strings.Contains(out.String(), "already current format") {
		t.Fatalf("期望提示已是当前格式, err=%v out=%s", err, out)
	}
}

func TestRun_内存后端与未知命令(t *testing.T) {
	conf := appconfig.Default()
	conf.Storage.Driver = appconfig.DriverMemory
	conf.Game.Slot = "test"
	out := &bytes.Buffer{}
	if err := run(context.Background(), conf, "check", false, out); err != nil {
		t.Fatalf("期望空存档校验通过, err=%v", err)
	}
	if err := run(context.Background(), conf, "dance", false, out); !errors.Is(err, errUnknownCommand) {
		t.Fatalf("期望未知命令, got=%v", err)
	}
}
