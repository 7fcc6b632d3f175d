package hostile

import (
	"math/rand"
	"testing"

	"ManaMerge/internal/board/domain"
)

type seqIDs struct{ n int64 }

func (s *seqIDs) NextID() int64 { s.n++; return s.n }

// scriptRand 按顺序返回预设的 Float64，Intn 总是返回 0。
type scriptRand struct {
	floats []float64
	i      int
}

func (s *scriptRand) Float64() float64 {
	if s.i >= len(s.floats) {
		return 0.99
	}
	f := s.floats[s.i]
	s.i++
	return f
}

func (s *scriptRand) Intn(int) int { return 0 }

func hostileAt(b *domain.Board, ids *seqIDs, at domain.Coord, tier int, v domain.Variant) {
	b.Place(at, domain.NewEntity(ids, domain.KindHostile, tier, 10, domain.RegionPlains, v))
}

func TestScenarioD_偷取被截断到余额(t *testing.T) {
	ids := &seqIDs{}
	b := domain.NewBoard(5, 5)
	hostileAt(b, ids, domain.Coord{X: 2, Y: 2}, 2, domain.VariantDrainer)

	// 第一次抽取命中偷取，第二次不扩散。
	res := Tick(b, 15, &scriptRand{floats: []float64{0.01, 0.99}}, DefaultParams(), ids)
	if res.ManaLost != 15 {
		t.Fatalf("期望损失被截断为 15, got=%v", res.ManaLost)
	}
	if balance := 15 - res.ManaLost; balance != 0 {
		t.Fatalf("期望余额为 0, got=%v", balance)
	}
}

func TestTick_多个偷取累计不超过余额(t *testing.T) {
	ids := &seqIDs{}
	b := domain.NewBoard(5, 5)
	hostileAt(b, ids, domain.Coord{X: 0, Y: 0}, 3, domain.VariantPhantom)
	hostileAt(b, ids, domain.Coord{X: 4, Y: 4}, 3, domain.VariantPhantom)

	res := Tick(b, 100, &scriptRand{floats: []float64{0.01, 0.99, 0.01, 0.99}}, DefaultParams(), ids)
	if res.ManaLost != 100 {
		t.Fatalf("期望累计损失截断为 100, got=%v", res.ManaLost)
	}
	if len(res.Steals) != 2 || res.Steals[0].Amount != 75 || res.Steals[1].Amount != 25 {
		t.Fatalf("期望第一次偷 75、第二次偷 25, got=%+v", res.Steals)
	}
}

func TestTick_扩散每tick只发生一次(t *testing.T) {
	ids := &seqIDs{}
	b := domain.NewBoard(5, 5)
	hostileAt(b, ids, domain.Coord{X: 0, Y: 0}, 1, domain.VariantDrainer)
	hostileAt(b, ids, domain.Coord{X: 4, Y: 4}, 1, domain.VariantDrainer)

	res := Tick(b, 0, &scriptRand{floats: []float64{0.99, 0.01, 0.99, 0.01}}, DefaultParams(), ids)
	if got := res.Board.CountKind(domain.KindHostile); got != 3 {
		t.Fatalf("期望只复制一次, hostiles=%d", got)
	}
	if b.CountKind(domain.KindHostile) != 2 {
		t.Fatalf("期望输入棋盘未被修改")
	}
}

func TestTick_封印锁住有棋子的邻居(t *testing.T) {
	ids := &seqIDs{}
	b := domain.NewBoard(3, 3)
	hostileAt(b, ids, domain.Coord{X: 1, Y: 1}, 1, domain.VariantSealer)
	b.Place(domain.Coord{X: 1, Y: 2}, domain.NewEntity(ids, domain.KindCreature, 1, 10, domain.RegionPlains, domain.VariantNone))

	res := Tick(b, 0, &scriptRand{floats: []float64{0.01}}, DefaultParams(), ids)
	if !res.Board.IsLocked(domain.Coord{X: 1, Y: 2}) {
		t.Fatalf("期望 (1,2) 被锁")
	}
	if res.Board.LockedCount() != 1 || b.LockedCount() != 0 {
		t.Fatalf("期望只锁一格且输入不变")
	}

	// 没有可锁目标时静默跳过。
	empty := domain.NewBoard(3, 3)
	hostileAt(empty, ids, domain.Coord{X: 1, Y: 1}, 1, domain.VariantSealer)
	res = Tick(empty, 0, &scriptRand{floats: []float64{0.01}}, DefaultParams(), ids)
	if res.Board.LockedCount() != 0 || len(res.Events) != 0 {
		t.Fatalf("期望无目标时跳过")
	}
}

func TestTick_幻影传送到空格(t *testing.T) {
	ids := &seqIDs{}
	b := domain.NewBoard(2, 1)
	hostileAt(b, ids, domain.Coord{X: 1, Y: 0}, 1, domain.VariantPhantom)

	res := Tick(b, 0, &scriptRand{floats: []float64{0.99, 0.01}}, DefaultParams(), ids)
	if res.Board.EntityAt(domain.Coord{X: 0, Y: 0}) == nil || res.Board.EntityAt(domain.Coord{X: 1, Y: 0}) != nil {
		t.Fatalf("期望幻影移动到 (0,0)")
	}
}

func TestTick_随机不变量(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := &seqIDs{}
	p := DefaultParams()
	p.DrainerStealChance, p.PhantomStealChance = 0.9, 0.9
	for round := 0; round < 300; round++ {
		b := domain.NewBoard(5, 5)
		b.ForEach(func(c domain.Cell) {
			switch rng.Intn(5) {
			case 0:
				hostileAt(b, ids, c.At, 1+rng.Intn(3), domain.Variants[rng.Intn(3)])
			case 1:
				b.Place(c.At, domain.NewEntity(ids, domain.KindCreature, 1, 10, domain.RegionPlains, domain.VariantNone))
			}
		})
		mana := float64(rng.Intn(200))
		res := Tick(b, mana, rng, p, ids)
		if res.ManaLost < 0 || res.ManaLost > mana {
			t.Fatalf("期望 0 <= 损失 <= 余额, lost=%v mana=%v", res.ManaLost, mana)
		}
		if err := res.Board.Validate(10); err != nil {
			t.Fatalf("期望结果棋盘合法, err=%v", err)
		}
		if res.Board.CountKind(domain.KindHostile) > b.CountKind(domain.KindHostile)+1 {
			t.Fatalf("期望每 tick 最多复制一个")
		}
	}
}

func TestPickVariant(t *testing.T) {
	w := Weights{domain.VariantDrainer: 1, domain.VariantPhantom: 1}
	if got := PickVariant(w, &scriptRand{floats: []float64{0.1}}); got != domain.VariantDrainer {
		t.Fatalf("期望低位抽到 drainer, got=%v", got)
	}
	if got := PickVariant(w, &scriptRand{floats: []float64{0.9}}); got != domain.VariantPhantom {
		t.Fatalf("期望高位抽到 phantom, got=%v", got)
	}
	if got := PickVariant(nil, &scriptRand{}); got != domain.VariantDrainer {
		t.Fatalf("期望空权重退化为 drainer, got=%v", got)
	}
}
