package persistence

import (
	"time"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/economy"
)

// Snapshot 是一次完整存档的内存形态。Boards 由调用方保证不再被修改（克隆后交出）。
type Snapshot struct {
	Version   uint64
	Boards    map[domain.RegionID]*domain.Board
	Unlocked  []domain.RegionID
	Active    domain.RegionID
	Mana      float64
	Upgrades  economy.Upgrades
	Inventory map[string]int
	Boost     BoostState
	Defeats   int
	SavedAt   time.Time
}

type BoostState struct {
	Multiplier float64
	ExpiresAt  time.Time
}

func (b BoostState) Active() bool {
	return b.Multiplier > 1 && !b.ExpiresAt.IsZero()
}

// Loaded 是读档结果。缺失或损坏的记录已用默认值替代。
type Loaded struct {
	Snapshot
	// HasSavedAt 为 false 时没有离线时长可算。
	HasSavedAt bool
	// Migrated 表示本次读档从旧格式迁移而来。
	Migrated bool
	// Fallbacks 记录回退到默认值的 key（损坏的记录）。
	Fallbacks []string
}

// 存储层的记录形态，字段名即 JSON schema。

type boardRecord struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Cells  []cellRecord `json:"cells"`
}

type cellRecord struct {
	X      int           `json:"x"`
	Y      int           `json:"y"`
	Locked bool          `json:"locked,omitempty"`
	Entity *entityRecord `json:"entity,omitempty"`
}

type entityRecord struct {
	Kind    string `json:"kind"`
	Tier    int    `json:"tier"`
	Origin  string `json:"origin,omitempty"`
	Variant string `json:"variant,omitempty"`
}

type regionsRecord struct {
	Unlocked []string `json:"unlocked"`
	Active   string   `json:"active"`
}

type manaRecord struct {
	Balance float64 `json:"balance"`
}

type upgradesRecord struct {
	SummonLuck int `json:"summon_luck"`
}

type inventoryRecord struct {
	Counts map[string]int `json:"counts"`
}

type offlineRecord struct {
	Efficiency float64 `json:"efficiency"`
	MaxSeconds float64 `json:"max_seconds"`
}

type buffsRecord struct {
	Boost *boostRecord `json:"boost,omitempty"`
}

type boostRecord struct {
	Multiplier  float64 `json:"multiplier"`
	ExpiresAtMS int64   `json:"expires_at_ms"`
}

type statsRecord struct {
	Defeats int `json:"defeats"`
}

type savedAtRecord struct {
	UnixMS int64 `json:"unix_ms"`
}
