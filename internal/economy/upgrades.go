package economy

import (
	"fmt"

	"ManaMerge/internal/shared/gameconfig/balance"
)

// UpgradeKind 是可购买的升级种类。
type UpgradeKind string

const (
	UpgradeSummonLuck        UpgradeKind = "summon_luck"
	UpgradeOfflineEfficiency UpgradeKind = "offline_efficiency"
	UpgradeOfflineDuration   UpgradeKind = "offline_duration"
)

var UpgradeKinds = []UpgradeKind{UpgradeSummonLuck, UpgradeOfflineEfficiency, UpgradeOfflineDuration}

func ParseUpgradeKind(s string) (UpgradeKind, error) {
	switch k := UpgradeKind(s); k {
	case UpgradeSummonLuck, UpgradeOfflineEfficiency, UpgradeOfflineDuration:
		return k, nil
	default:
		return "", fmt.Errorf("unknown upgrade %q", s)
	}
}

// Upgrades 只增不减。离线两项持久化的是数值本身，等级由数值反推。
type Upgrades struct {
	SummonLuck        int
	OfflineEfficiency float64
	OfflineDuration   float64 // 秒
}

func DefaultUpgrades(u balance.Upgrades) Upgrades {
	return Upgrades{
		SummonLuck:        1,
		OfflineEfficiency: u.OfflineEfficiency.Base,
		OfflineDuration:   u.OfflineDuration.Base,
	}
}

// Normalize 把读档得到的值夹回合法范围。
func (up Upgrades) Normalize(u balance.Upgrades) Upgrades {
	up.SummonLuck = min(max(up.SummonLuck, 1), max(1, u.SummonLuck.MaxLevel))
	up.OfflineEfficiency = min(max(up.OfflineEfficiency, u.OfflineEfficiency.Base), u.OfflineEfficiency.Max)
	up.OfflineDuration = min(max(up.OfflineDuration, u.OfflineDuration.Base), u.OfflineDuration.Max)
	return up
}

// Level 返回从 0 开始的已购买次数。
func (up Upgrades) Level(kind UpgradeKind, u balance.Upgrades) int {
	switch kind {
	case UpgradeSummonLuck:
		return up.SummonLuck - 1
	case UpgradeOfflineEfficiency:
		return LevelFromStat(up.OfflineEfficiency, u.OfflineEfficiency)
	case UpgradeOfflineDuration:
		return LevelFromStat(up.OfflineDuration, u.OfflineDuration)
	default:
		return 0
	}
}

// Maxed 判断是否已达上限。
func (up Upgrades) Maxed(kind UpgradeKind, u balance.Upgrades) bool {
	switch kind {
	case UpgradeSummonLuck:
		return up.SummonLuck >= u.SummonLuck.MaxLevel
	case UpgradeOfflineEfficiency:
		return up.OfflineEfficiency >= u.OfflineEfficiency.Max
	case UpgradeOfflineDuration:
		return up.OfflineDuration >= u.OfflineDuration.Max
	default:
		return true
	}
}

// Cost 下一级的价格：base × 2^level。
func (up Upgrades) Cost(kind UpgradeKind, u balance.Upgrades) float64 {
	base := 0.0
	switch kind {
	case UpgradeSummonLuck:
		base = u.SummonLuck.BaseCost
	case UpgradeOfflineEfficiency:
		base = u.OfflineEfficiency.BaseCost
	case UpgradeOfflineDuration:
		base = u.OfflineDuration.BaseCost
	}
	return UpgradeCost(base, up.Level(kind, u))
}

// Next 返回升一级后的状态，已满级时原样返回。
func (up Upgrades) Next(kind UpgradeKind, u balance.Upgrades) Upgrades {
	if up.Maxed(kind, u) {
		return up
	}
	switch kind {
	case UpgradeSummonLuck:
		up.SummonLuck++
	case UpgradeOfflineEfficiency:
		up.OfflineEfficiency = min(u.OfflineEfficiency.Max, up.OfflineEfficiency+u.OfflineEfficiency.Increment)
	case UpgradeOfflineDuration:
		up.OfflineDuration = min(u.OfflineDuration.Max, up.OfflineDuration+u.OfflineDuration.Increment)
	}
	return up
}

// GatedUnlocked 满幸运等级后开放门控道具。
func (up Upgrades) GatedUnlocked(u balance.Upgrades) bool {
	return up.SummonLuck >= u.SummonLuck.MaxLevel
}
