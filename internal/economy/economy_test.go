package economy

import (
	"math/rand"
	"testing"
	"time"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/shared/gameconfig/balance"
)

type seqIDs struct{ n int64 }

func (s *seqIDs) NextID() int64 { s.n++; return s.n }

func TestProductionRate_指数曲线(t *testing.T) {
	ids := &seqIDs{}
	p := balance.Production{BaseRate: 10, Growth: 2}
	b := domain.NewBoard(3, 1)
	b.Place(domain.Coord{X: 0}, domain.NewEntity(ids, domain.KindCreature, 1, 10, domain.RegionPlains, domain.VariantNone))
	b.Place(domain.Coord{X: 1}, domain.NewEntity(ids, domain.KindCreature, 3, 10, domain.RegionPlains, domain.VariantNone))
	if got := ProductionRate(b, p); got != 10+40 {
		t.Fatalf("期望 50, got=%v", got)
	}
	if got := ProductionRate(domain.NewBoard(2, 2), p); got != 0 {
		t.Fatalf("期望空棋盘为 0, got=%v", got)
	}
}

func TestTimeOfDayMultiplier_四个时段(t *testing.T) {
	bands := balance.Default().TimeOfDay
	at := func(h int) time.Time { return time.Date(2026, 1, 1, h, 30, 0, 0, time.Local) }
	cases := map[int]float64{5: 1.0, 9: 1.0, 10: 1.2, 16: 1.2, 17: 1.5, 20: 1.5, 21: 0.7, 23: 0.7, 0: 0.7, 4: 0.7}
	for h, want := range cases {
		if got := TimeOfDayMultiplier(bands, at(h)); got != want {
			t.Fatalf("%d 点期望 %v, got=%v", h, want, got)
		}
	}
	n := balance.Default().Night
	if !IsNight(n, at(19)) || !IsNight(n, at(3)) || IsNight(n, at(12)) {
		t.Fatalf("期望 18~6 点为夜间")
	}
}

func TestWallet_Consume不足时不修改(t *testing.T) {
	w := NewWallet(100)
	if w.Consume(150) {
		t.Fatalf("期望余额不足时失败")
	}
	if w.Balance() != 100 {
		t.Fatalf("期望余额不变, got=%v", w.Balance())
	}
	if !w.Consume(100) || w.Balance() != 0 {
		t.Fatalf("期望恰好扣到 0, got=%v", w.Balance())
	}
	if got := w.Drain(30); got != 0 || w.Balance() != 0 {
		t.Fatalf("期望余额为 0 时无法再扣, got=%v", got)
	}
}

func TestWallet_随机操作余额不为负(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	w := NewWallet(-5)
	for i := 0; i < 1000; i++ {
		switch rng.Intn(3) {
		case 0:
			w.Add(rng.Float64() * 100)
		case 1:
			before := w.Balance()
			amount := rng.Float64() * 150
			if !w.Consume(amount) && w.Balance() != before {
				t.Fatalf("期望失败的 Consume 不修改余额")
			}
		case 2:
			w.Drain(rng.Float64() * 200)
		}
		if w.Balance() < 0 {
			t.Fatalf("期望余额永不为负, got=%v", w.Balance())
		}
	}
}

func TestCosts(t *testing.T) {
	c := balance.Default().Costs
	if got := SummonCost(0, 0, c); got != 50 {
		t.Fatalf("期望召唤底价 50, got=%v", got)
	}
	if got := SummonCost(10000, 0, c); got != 500 {
		t.Fatalf("期望按余额 5%% 计价 500, got=%v", got)
	}
	if got := SummonCost(100, 100, c); got != 2000 {
		t.Fatalf("期望按 20 秒产出计价 2000, got=%v", got)
	}
	if got := PurgeCost(0, c); got != 100 {
		t.Fatalf("期望清除底价 100, got=%v", got)
	}
	if got := PurgeCost(10.5, c); got != 630 {
		t.Fatalf("期望清除价 630, got=%v", got)
	}
	if got := ConsumablePrice(100, balance.Consumable{MinPrice: 500, Seconds: 30}); got != 3000 {
		t.Fatalf("期望道具价 3000, got=%v", got)
	}
	if got := UpgradeCost(1000, 3); got != 8000 {
		t.Fatalf("期望升级价 8000, got=%v", got)
	}
}

func TestSpawnChance_里程碑与封顶(t *testing.T) {
	s := balance.Default().Spawn
	if got := SpawnChance(0, 0, 1, s); got != 0.05 {
		t.Fatalf("期望基础概率 0.05, got=%v", got)
	}
	if got := SpawnChance(1000, 200, 1, s); got < 0.1499 || got > 0.1501 {
		t.Fatalf("期望两个里程碑后 0.15, got=%v", got)
	}
	if got := SpawnChance(1e9, 1e9, 10, s); got != 0.8 {
		t.Fatalf("期望封顶 0.8, got=%v", got)
	}
}

func TestSummonTier_按幸运表抽取(t *testing.T) {
	table := balance.Default().Luck
	rng := rand.New(rand.NewSource(11))
	counts := map[int]int{}
	for i := 0; i < 20000; i++ {
		counts[SummonTier(table, 5, rng)]++
	}
	for tier := 1; tier <= 3; tier++ {
		want := table[4][tier-1]
		got := float64(counts[tier]) / 20000
		if got < want-0.02 || got > want+0.02 {
			t.Fatalf("tier %d 期望约 %v, got=%v", tier, want, got)
		}
	}
	if row := LuckRow(table, 99); len(row) != 3 || row[2] != 0.20 {
		t.Fatalf("期望越界等级夹到最高级, got=%v", row)
	}
}

func TestUpgrades_等级反推与上限(t *testing.T) {
	u := balance.Default().Upgrades
	up := DefaultUpgrades(u)
	if up.Level(UpgradeOfflineEfficiency, u) != 0 || up.Cost(UpgradeOfflineEfficiency, u) != 2000 {
		t.Fatalf("期望初始效率等级 0、价格 2000")
	}
	up = up.Next(UpgradeOfflineEfficiency, u).Next(UpgradeOfflineEfficiency, u)
	if up.Level(UpgradeOfflineEfficiency, u) != 2 || up.Cost(UpgradeOfflineEfficiency, u) != 8000 {
		t.Fatalf("期望等级 2、价格 8000, got level=%d", up.Level(UpgradeOfflineEfficiency, u))
	}
	for i := 0; i < 30; i++ {
		up = up.Next(UpgradeOfflineEfficiency, u)
	}
	if up.OfflineEfficiency != 1.0 || !up.Maxed(UpgradeOfflineEfficiency, u) {
		t.Fatalf("期望效率封顶 1.0, got=%v", up.OfflineEfficiency)
	}

	if up.Cost(UpgradeSummonLuck, u) != 1000 {
		t.Fatalf("期望 1 级升 2 级价格 1000")
	}
	for i := 0; i < 10; i++ {
		up = up.Next(UpgradeSummonLuck, u)
	}
	if up.SummonLuck != 5 || !up.GatedUnlocked(u) {
		t.Fatalf("期望幸运等级封顶 5 并开放门控道具, got=%d", up.SummonLuck)
	}

	up = Upgrades{SummonLuck: 0, OfflineEfficiency: 5, OfflineDuration: 1}.Normalize(u)
	if up.SummonLuck != 1 || up.OfflineEfficiency != 1 || up.OfflineDuration != 7200 {
		t.Fatalf("期望读档数值被夹回合法范围, got=%+v", up)
	}
}

func TestBuff_过期事件只触发一次(t *testing.T) {
	now := time.Unix(1000, 0)
	var b Buff
	b.Activate(2, now, 300*time.Second)
	if b.Multiplier(now.Add(299*time.Second)) != 2 {
		t.Fatalf("期望生效期内倍率 2")
	}
	if b.Expire(now.Add(299 * time.Second)) {
		t.Fatalf("期望未到期不触发")
	}
	if !b.Expire(now.Add(300 * time.Second)) {
		t.Fatalf("期望到期时触发")
	}
	if b.Expire(now.Add(400*time.Second)) || b.Multiplier(now.Add(400*time.Second)) != 1 {
		t.Fatalf("期望只触发一次并回落到 1")
	}

	b.Restore(2, now.Add(-time.Second), now)
	if b.Active() {
		t.Fatalf("期望已过期的存档不恢复")
	}
}

func TestInventory(t *testing.T) {
	inv := NewInventory("bomb")
	if inv.Use("bomb") {
		t.Fatalf("期望数量为 0 时使用失败")
	}
	inv.Add("bomb", 2)
	inv.Add("bomb", -5)
	if !inv.Use("bomb") || inv.Count("bomb") != 1 {
		t.Fatalf("期望剩余 1, got=%d", inv.Count("bomb"))
	}
}

func TestOfflineReward_单调且封顶(t *testing.T) {
	limit := 2 * time.Hour
	if OfflineReward(100, 0, limit, 0.5) != 0 || OfflineReward(0, time.Hour, limit, 0.5) != 0 {
		t.Fatalf("期望零时长或零速率收益为 0")
	}
	if OfflineReward(100, -time.Hour, limit, 0.5) != 0 {
		t.Fatalf("期望负时长按 0 处理")
	}
	prev := 0.0
	for s := 0; s <= 4*3600; s += 600 {
		got := OfflineReward(10, time.Duration(s)*time.Second, limit, 0.25)
		if got < prev {
			t.Fatalf("期望收益单调不减, s=%d got=%v prev=%v", s, got, prev)
		}
		prev = got
	}
	if a, b := OfflineReward(10, limit, limit, 0.25), OfflineReward(10, 3*limit, limit, 0.25); a != b || a != 18000 {
		t.Fatalf("期望封顶后持平为 18000, a=%v b=%v", a, b)
	}
}
