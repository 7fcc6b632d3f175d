package economy

import (
	"math"
	"time"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/shared/gameconfig/balance"
)

// EntityRate 是单个 tier 棋子的每秒产出：base × growth^(tier-1)。
func EntityRate(tier int, p balance.Production) float64 {
	return p.BaseRate * math.Pow(p.Growth, float64(tier-1))
}

// ProductionRate 对棋盘上所有被占据的格子求和（敌对单位同样计入）。
func ProductionRate(b *domain.Board, p balance.Production) float64 {
	if b == nil {
		return 0
	}
	total := 0.0
	b.ForEach(func(c domain.Cell) {
		if c.Entity != nil {
			total += EntityRate(c.Entity.Tier, p)
		}
	})
	return total
}

// TimeOfDayMultiplier 返回 now 所在时段的倍率；[Start,End)，End<=Start 表示跨午夜。
func TimeOfDayMultiplier(bands []balance.TimeBand, now time.Time) float64 {
	band, ok := TimeBandAt(bands, now)
	if !ok {
		return 1
	}
	return band.Multiplier
}

func TimeBandAt(bands []balance.TimeBand, now time.Time) (balance.TimeBand, bool) {
	h := now.Hour()
	for _, b := range bands {
		if inHours(h, b.Start, b.End) {
			return b, true
		}
	}
	return balance.TimeBand{}, false
}

// IsNight 用于展示层主题切换。
func IsNight(n balance.Night, now time.Time) bool {
	return inHours(now.Hour(), n.Start, n.End)
}

func inHours(h, start, end int) bool {
	if start < end {
		return h >= start && h < end
	}
	return h >= start || h < end
}
