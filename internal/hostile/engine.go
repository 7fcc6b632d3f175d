package hostile

import (
	"fmt"

	"ManaMerge/internal/board/domain"
)

// Steal 记录一次偷取，用于飘字。
type Steal struct {
	At     domain.Coord
	Amount float64
}

type TickResult struct {
	Board    *domain.Board
	ManaLost float64
	Steals   []Steal
	Events   []string
}

// Tick 对棋盘上每个敌对单位执行一次行为。输入棋盘不被修改。
//
// 行优先遍历输入快照，动作作用在副本上；本 tick 新复制出的单位不行动。
// 偷取按剩余可用量截断，ManaLost 不会超过 currentMana。
func Tick(b *domain.Board, currentMana float64, rng Rand, p Params, ids domain.IDSource) TickResult {
	next := b.Clone()
	res := TickResult{Board: next}
	available := max(0, currentMana)
	spread := false

	b.ForEach(func(cell domain.Cell) {
		e := cell.Entity
		if !e.IsHostile() {
			return
		}
		// 每个分支的概率都独立抽取，与是否有可用目标无关。
		switch e.Variant {
		case domain.VariantDrainer:
			steal := rng.Float64() < p.DrainerStealChance
			dup := rng.Float64() < p.DrainerSpreadChance
			if steal {
				available = res.steal(cell.At, e, float64(e.Tier)*p.DrainerStealPerTier, available)
			}
			if dup && !spread {
				if to, ok := pickOne(emptyNeighbors(next, cell.At), rng); ok {
					next.Place(to, domain.NewEntity(ids, domain.KindHostile, e.Tier, p.MaxTier, e.Origin, e.Variant))
					res.Events = append(res.Events, fmt.Sprintf("A drainer spread to %v", to))
					spread = true
				}
			}
		case domain.VariantSealer:
			if rng.Float64() < p.SealerLockChance {
				if to, ok := pickOne(lockableNeighbors(next, cell.At), rng); ok {
					next.SetLocked(to, true)
					res.Events = append(res.Events, fmt.Sprintf("A sealer locked %v", to))
				}
			}
		case domain.VariantPhantom:
			steal := rng.Float64() < p.PhantomStealChance
			warp := rng.Float64() < p.PhantomWarpChance
			if steal {
				available = res.steal(cell.At, e, float64(e.Tier)*p.PhantomStealPerTier, available)
			}
			// 被封印的格子里的单位不能移动，幻影也不例外。
			if warp && !next.IsLocked(cell.At) {
				if to, ok := pickOne(next.EmptyUnlocked(), rng); ok {
					next.Place(to, next.Clear(cell.At))
					res.Events = append(res.Events, fmt.Sprintf("A phantom warped from %v to %v", cell.At, to))
				}
			}
		case domain.VariantNone:
		}
	})
	return res
}

func (r *TickResult) steal(at domain.Coord, e *domain.Entity, want, available float64) float64 {
	amount := min(want, available)
	if amount <= 0 {
		return available
	}
	r.ManaLost += amount
	r.Steals = append(r.Steals, Steal{At: at, Amount: amount})
	r.Events = append(r.Events, fmt.Sprintf("A %s stole %.0f mana", e.Variant, amount))
	return available - amount
}

func emptyNeighbors(b *domain.Board, at domain.Coord) []domain.Coord {
	var out []domain.Coord
	for _, n := range b.Neighbors(at) {
		if b.CanPlace(n) {
			out = append(out, n)
		}
	}
	return out
}

func lockableNeighbors(b *domain.Board, at domain.Coord) []domain.Coord {
	var out []domain.Coord
	for _, n := range b.Neighbors(at) {
		if b.EntityAt(n) != nil && !b.IsLocked(n) {
			out = append(out, n)
		}
	}
	return out
}

func pickOne(cs []domain.Coord, rng Rand) (domain.Coord, bool) {
	if len(cs) == 0 {
		return domain.Coord{}, false
	}
	return cs[rng.Intn(len(cs))], true
}
