package actor

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/economy"
	"ManaMerge/internal/feedback"
	"ManaMerge/internal/game/actors"
	"ManaMerge/internal/game/session"
	"ManaMerge/internal/persistence"
	"ManaMerge/internal/shared/appconfig"
	"ManaMerge/internal/shared/gameconfig/balance"
	"ManaMerge/internal/shared/idgen"
)

type recordingRepo struct {
	mu     sync.Mutex
	saves  []persistence.Snapshot
	resets int
}

func (r *recordingRepo) Save(_ context.Context, s persistence.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, s)
	return nil
}

func (r *recordingRepo) Reset(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
	return nil
}

func (r *recordingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func (r *recordingRepo) last() persistence.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saves) == 0 {
		return persistence.Snapshot{}
	}
	return r.saves[len(r.saves)-1]
}

type fixture struct {
	rt      *Runtime
	repo    *recordingRepo
	sink    *feedback.Recorder
	mu      sync.Mutex
	rewards []session.RewardEvent
}

func (f *fixture) rewardLabels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.rewards))
	for _, r := range f.rewards {
		out = append(out, r.Label)
	}
	return out
}

var fastTimers = appconfig.TimerConfig{
	SaveDebounce: 20 * time.Millisecond,
	SaveMaxWait:  200 * time.Millisecond,
}

// newFixture 用给定余额与平原棋盘启动一个 actor；setup 向棋盘放置棋子。
func newFixture(t *testing.T, timers appconfig.TimerConfig, mana float64, setup func(b *domain.Board, ids domain.IDSource)) *fixture {
	t.Helper()
	bal := balance.Default()
	ids := idgen.NewSequence(1)
	f := &fixture{repo: &recordingRepo{}, sink: &feedback.Recorder{}}

	sess, err := session.New(bal, session.Deps{Sink: f.sink, Rand: rand.New(rand.NewSource(1)), IDs: ids})
	if err != nil {
		t.Fatalf("期望创建会话成功, err=%v", err)
	}
	b := domain.NewBoard(bal.Board.Width, bal.Board.Height)
	if setup != nil {
		setup(b, ids)
	}
	sess.Restore(&persistence.Loaded{Snapshot: persistence.Snapshot{
		Boards:   map[domain.RegionID]*domain.Board{domain.RegionPlains: b},
		Unlocked: []domain.RegionID{domain.RegionPlains},
		Active:   domain.RegionPlains,
		Mana:     mana,
		Upgrades: economy.DefaultUpgrades(bal.Upgrades),
	}}, time.Now())

	f.rt = NewRuntime(sess, f.repo, actors.Options{
		Timers: timers,
		OnReward: func(ev []session.RewardEvent) {
			f.mu.Lock()
			f.rewards = append(f.rewards, ev...)
			f.mu.Unlock()
		},
	}, 500*time.Millisecond)
	t.Cleanup(func() { _ = f.rt.Shutdown(context.Background()) })
	return f
}

func creature(ids domain.IDSource, tier int) *domain.Entity {
	return domain.NewEntity(ids, domain.KindCreature, tier, 10, domain.RegionPlains, domain.VariantNone)
}

// threeInRow 放置 (0,0)(1,0) 两个 T1，再在 (4,4) 放一个可以拖到 (2,0) 的 T1。
func threeInRow(b *domain.Board, ids domain.IDSource) {
	b.Place(domain.Coord{X: 0, Y: 0}, creature(ids, 1))
	b.Place(domain.Coord{X: 1, Y: 0}, creature(ids, 1))
	b.Place(domain.Coord{X: 4, Y: 4}, creature(ids, 1))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("期望条件在 2s 内满足")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRuntime_召唤余额不足被拒绝(t *testing.T) {
	f := newFixture(t, fastTimers, 30, nil)
	ctx := context.Background()
	if _, err := f.rt.Summon(ctx); !errors.Is(err, session.ErrInsufficientMana) {
		t.Fatalf("期望 %s, got=%v", session.CodeInsufficientMana, err)
	}
	v, err := f.rt.View(ctx)
	if err != nil {
		t.Fatalf("期望读取视图成功, err=%v", err)
	}
	if v.Mana != 30 || v.Boards[domain.RegionPlains].Count() != 0 {
		t.Fatalf("期望余额与棋盘不变, mana=%v", v.Mana)
	}
}

func TestRuntime_节奏为0时连锁立即结算(t *testing.T) {
	f := newFixture(t, fastTimers, 0, threeInRow)
	ctx := context.Background()
	res, err := f.rt.Move(ctx, domain.Coord{X: 4, Y: 4}, domain.Coord{X: 2, Y: 0})
	if err != nil || !res.Chaining {
		t.Fatalf("期望触发连锁, res=%+v err=%v", res, err)
	}
	v, _ := f.rt.View(ctx)
	if v.Chaining {
		t.Fatalf("期望连锁已结算")
	}
	if e := v.Boards[domain.RegionPlains].EntityAt(domain.Coord{X: 2, Y: 0}); e == nil || e.Tier != 2 {
		t.Fatalf("期望落点合成为 T2, got=%v", e)
	}
	if v.Mana != 10 {
		t.Fatalf("期望合成奖励 10, got=%v", v.Mana)
	}
	waitFor(t, func() bool { return len(f.rewardLabels()) == 1 })
	if got := f.rewardLabels()[0]; got != "Merged T2" {
		t.Fatalf("期望飘字 Merged T2, got=%q", got)
	}
}

func TestRuntime_连锁按节奏推进且期间拒绝移动(t *testing.T) {
	timers := fastTimers
	timers.ComboPacing = 150 * time.Millisecond
	f := newFixture(t, timers, 0, func(b *domain.Board, ids domain.IDSource) {
		threeInRow(b, ids)
		b.Place(domain.Coord{X: 3, Y: 3}, creature(ids, 5))
	})
	ctx := context.Background()
	if _, err := f.rt.Move(ctx, domain.Coord{X: 4, Y: 4}, domain.Coord{X: 2, Y: 0}); err != nil {
		t.Fatalf("期望移动成功, err=%v", err)
	}
	if _, err := f.rt.Move(ctx, domain.Coord{X: 3, Y: 3}, domain.Coord{X: 3, Y: 2}); !errors.Is(err, session.ErrBusy) {
		t.Fatalf("期望连锁中拒绝移动, got=%v", err)
	}
	waitFor(t, func() bool {
		v, err := f.rt.View(ctx)
		return err == nil && !v.Chaining
	})
	if n := f.sink.Count(feedback.CueMerge); n != 1 {
		t.Fatalf("期望播放一次 merge, got=%d", n)
	}
}

func TestRuntime_变更经防抖后落盘(t *testing.T) {
	f := newFixture(t, fastTimers, 1000, nil)
	if _, err := f.rt.Summon(context.Background()); err != nil {
		t.Fatalf("期望召唤成功, err=%v", err)
	}
	waitFor(t, func() bool { return f.repo.count() >= 1 })
	if got := f.repo.last().Mana; got != 950 {
		t.Fatalf("期望落盘余额 950, got=%v", got)
	}
}

func TestRuntime_Flush立即入队(t *testing.T) {
	f := newFixture(t, appconfig.TimerConfig{SaveDebounce: time.Hour}, 42, nil)
	v, err := f.rt.Flush(context.Background())
	if err != nil || v != 1 {
		t.Fatalf("期望版本 1, v=%d err=%v", v, err)
	}
	waitFor(t, func() bool { return f.repo.count() == 1 })
	if f.repo.last().Mana != 42 {
		t.Fatalf("期望落盘余额 42")
	}
}

func TestRuntime_关闭时写出最后一份快照(t *testing.T) {
	f := newFixture(t, appconfig.TimerConfig{SaveDebounce: time.Hour}, 500, nil)
	if err := f.rt.BeginDrag(context.Background()); err != nil {
		t.Fatalf("期望开始拖拽成功, err=%v", err)
	}
	if err := f.rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("期望关闭成功, err=%v", err)
	}
	if f.repo.count() != 1 || f.repo.last().Mana != 500 {
		t.Fatalf("期望关闭时写出一次, count=%d", f.repo.count())
	}
	if _, err := f.rt.View(context.Background()); err == nil {
		t.Fatalf("期望关闭后请求失败")
	}
}

func TestRuntime_清档删除存储并写入初始快照(t *testing.T) {
	f := newFixture(t, fastTimers, 800, threeInRow)
	if err := f.rt.Reset(context.Background()); err != nil {
		t.Fatalf("期望清档成功, err=%v", err)
	}
	waitFor(t, func() bool { return f.repo.count() >= 1 })
	f.repo.mu.Lock()
	resets := f.repo.resets
	f.repo.mu.Unlock()
	last := f.repo.last()
	if resets != 1 || last.Mana != 0 || last.Boards[domain.RegionPlains].Count() != 0 {
		t.Fatalf("期望存储被清空且写入初始快照, resets=%d mana=%v", resets, last.Mana)
	}
}

func TestRuntime_未知升级(t *testing.T) {
	f := newFixture(t, fastTimers, 1_000_000, nil)
	if _, err := f.rt.BuyUpgrade(context.Background(), economy.UpgradeKind("speed")); !errors.Is(err, session.ErrUnknownUpgrade) {
		t.Fatalf("期望 %s, got=%v", session.CodeUnknownUpgrade, err)
	}
	cost, err := f.rt.BuyUpgrade(context.Background(), economy.UpgradeSummonLuck)
	if err != nil || cost != 1000 {
		t.Fatalf("期望花费 1000, cost=%v err=%v", cost, err)
	}
}

func TestRuntime_拖到移除区结束拖拽并扣费(t *testing.T) {
	f := newFixture(t, fastTimers, 1000, func(b *domain.Board, ids domain.IDSource) {
		b.Place(domain.Coord{X: 4, Y: 4}, creature(ids, 1))
	})
	ctx := context.Background()
	if err := f.rt.BeginDrag(ctx); err != nil {
		t.Fatalf("期望开始拖拽成功, err=%v", err)
	}
	cost, err := f.rt.PurgeDrop(ctx, domain.Coord{X: 4, Y: 4})
	if err != nil {
		t.Fatalf("期望移除成功, err=%v", err)
	}
	if cost != 600 {
		t.Fatalf("期望花费 600 (10/s × 60s), got=%v", cost)
	}
	v, err := f.rt.View(ctx)
	if err != nil {
		t.Fatalf("期望读取视图成功, err=%v", err)
	}
	if v.Dragging || v.Mana != 400 || v.Boards[domain.RegionPlains].Count() != 0 {
		t.Fatalf("期望拖拽结束、余额 400、棋盘清空, got dragging=%v mana=%v", v.Dragging, v.Mana)
	}
}
