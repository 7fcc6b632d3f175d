package economy

import (
	"math"

	"ManaMerge/internal/shared/gameconfig/balance"
)

// SummonCost = max(floor, fraction×余额, 秒数×速率)，向下取整。
func SummonCost(mana, rate float64, c balance.Costs) float64 {
	return math.Floor(max(c.SummonFloor, c.SummonBalanceFraction*mana, c.SummonSeconds*rate))
}

// PurgeCost 与余额无关，避免玩家先花光余额再清除。
func PurgeCost(rate float64, c balance.Costs) float64 {
	return math.Floor(max(c.PurgeFloor, c.PurgeSeconds*rate))
}

func ConsumablePrice(rate float64, c balance.Consumable) float64 {
	return math.Floor(max(c.MinPrice, c.Seconds*rate))
}

// UpgradeCost = base × 2^level，level 从 0 开始计。
func UpgradeCost(base float64, level int) float64 {
	return math.Floor(base * math.Pow(2, float64(max(0, level))))
}

// LevelFromStat 从持久化的数值反推等级：round((stat-base)/increment)。
func LevelFromStat(stat float64, u balance.StatUpgrade) int {
	if u.Increment <= 0 {
		return 0
	}
	return max(0, int(math.Round((stat-u.Base)/u.Increment)))
}

// SpawnChance 召唤时生成敌对单位的概率：(base + 每个达成里程碑的加成) × 区域风险，封顶 cap。
func SpawnChance(mana, rate, risk float64, s balance.Spawn) float64 {
	met := 0
	for _, m := range s.Milestones {
		if (m.Mana > 0 && mana >= m.Mana) || (m.Rate > 0 && rate >= m.Rate) {
			met++
		}
	}
	chance := (s.Base + s.PerMilestone*float64(met)) * risk
	return min(max(0, chance), s.Cap)
}
