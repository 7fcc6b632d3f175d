package match

import (
	"ManaMerge/internal/board/domain"
)

// MinMatch 是可合成的最小连通数。
const MinMatch = 3

// bonusThreshold 个及以上合成产出 2 个。
const bonusThreshold = 5

// FindMatch 从 origin 出发做四方向 BFS，收集 kind 与 tier 都和 origin 相同的连通分量。
// 结果包含 origin 自身，顺序为 BFS 访问顺序；origin 为空时返回 nil。不判断数量。
func FindMatch(b *domain.Board, origin domain.Coord) []domain.Coord {
	start := b.EntityAt(origin)
	if start == nil {
		return nil
	}

	visited := make(map[domain.Coord]bool, 8)
	visited[origin] = true
	queue := []domain.Coord{origin}
	var out []domain.Coord

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)

		for _, n := range b.Neighbors(cur) {
			if visited[n] {
				continue
			}
			if start.SameGroup(b.EntityAt(n)) {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return out
}

// Resolvable 判断匹配结果是否达到合成门槛。
func Resolvable(matched []domain.Coord) bool {
	return len(matched) >= MinMatch
}

// OutputCount 按 ≥5 规则决定产出数量。
func OutputCount(matched int) int {
	if matched >= bonusThreshold {
		return 2
	}
	return 1
}

type MergeResult struct {
	Board *domain.Board
	// Produced 按放置顺序排列，第一个位于 focus。
	Produced []*domain.Entity
	// Placed 与 Produced 一一对应；被丢弃的额外产物不出现在这里。
	Placed   []domain.Coord
	Consumed int
	// InputTier 是被消耗棋子的阶数，奖励按它计算。
	InputTier int
	Kind      domain.Kind
}

// ExecuteMerge 消耗 matched 中的全部棋子，在 focus 及其后第一个空出的匹配格产出更高一阶的棋子。
// 不修改输入棋盘。前置条件不满足时返回 ErrMergeNotEligible。
func ExecuteMerge(b *domain.Board, matched []domain.Coord, focus domain.Coord, ids domain.IDSource, maxTier int) (MergeResult, error) {
	if len(matched) < MinMatch {
		return MergeResult{}, ErrMergeNotEligible.WithData("matched", len(matched))
	}
	sample := b.EntityAt(matched[0])
	if sample == nil {
		return MergeResult{}, ErrMergeNotEligible.WithData("empty", matched[0].String())
	}

	seen := make(map[domain.Coord]bool, len(matched))
	focusIn := false
	for _, c := range matched {
		if seen[c] {
			return MergeResult{}, ErrMergeNotEligible.WithData("duplicate", c.String())
		}
		seen[c] = true
		if !sample.SameGroup(b.EntityAt(c)) {
			return MergeResult{}, ErrMergeNotEligible.WithData("mixed", c.String())
		}
		if c == focus {
			focusIn = true
		}
	}
	if !focusIn {
		return MergeResult{}, ErrMergeNotEligible.WithData("focus", focus.String())
	}

	next := b.Clone()
	for _, c := range matched {
		next.Clear(c)
	}

	res := MergeResult{
		Board:     next,
		Consumed:  len(matched),
		InputTier: sample.Tier,
		Kind:      sample.Kind,
	}
	nextTier := domain.ClampTier(sample.Tier+1, maxTier)
	for i := 0; i < OutputCount(len(matched)); i++ {
		at, ok := focus, i == 0
		if !ok {
			at, ok = firstEmpty(next, matched, focus)
		}
		if !ok {
			// 额外产物没有位置时直接丢弃。
			continue
		}
		e := domain.NewEntity(ids, sample.Kind, nextTier, maxTier, sample.Origin, sample.Variant)
		next.Place(at, e)
		res.Produced = append(res.Produced, e)
		res.Placed = append(res.Placed, at)
	}
	return res, nil
}

// firstEmpty 找 focus 之外第一个空出且未被封印的匹配格。被封印的棋子可以参与合成，
// 但它的格子仍然锁着，不能放产物。
func firstEmpty(b *domain.Board, matched []domain.Coord, focus domain.Coord) (domain.Coord, bool) {
	for _, c := range matched {
		if c != focus && b.EntityAt(c) == nil && !b.IsLocked(c) {
			return c, true
		}
	}
	return domain.Coord{}, false
}

// CanMove 判断一次移动是否合法：两端在界内且不同、from 有棋子且未锁、to 为空且未锁。
func CanMove(b *domain.Board, from, to domain.Coord) bool {
	if from == to || !b.InBounds(from) || !b.InBounds(to) {
		return false
	}
	if b.EntityAt(from) == nil || b.IsLocked(from) {
		return false
	}
	return b.CanPlace(to)
}

// MoveEntity 把棋子移到空格。不合法时原样返回输入棋盘（同一个指针），不交换。
// 是否触发合成由调用方在目标格上再调用 FindMatch。
func MoveEntity(b *domain.Board, from, to domain.Coord) *domain.Board {
	if !CanMove(b, from, to) {
		return b
	}
	next := b.Clone()
	next.Place(to, next.Clear(from))
	return next
}
