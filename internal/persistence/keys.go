package persistence

import (
	"ManaMerge/internal/board/domain"
)

const (
	keyRoot = "mm:v2:"

	LegacyKeyGrid = "mmt_grid"
	LegacyKeyMana = "mmt_mana"
	LegacyKeyTime = "mmt_time"
)

// Keys 生成某个存档槽的记录 key；默认槽不带槽名，兼容旧 key。
type Keys struct {
	prefix string
	legacy bool
}

func NewKeys(slot string) Keys {
	if slot == "" || slot == "default" {
		return Keys{prefix: keyRoot, legacy: true}
	}
	return Keys{prefix: keyRoot + slot + ":"}
}

func (k Keys) Prefix() string { return k.prefix }

func (k Keys) Board(id domain.RegionID) string { return k.prefix + "board:" + string(id) }
func (k Keys) Regions() string                 { return k.prefix + "regions" }
func (k Keys) Mana() string                    { return k.prefix + "mana" }
func (k Keys) Upgrades() string                { return k.prefix + "upgrades" }
func (k Keys) Inventory() string               { return k.prefix + "inventory" }
func (k Keys) Offline() string                 { return k.prefix + "offline" }
func (k Keys) Buffs() string                   { return k.prefix + "buffs" }
func (k Keys) Stats() string                   { return k.prefix + "stats" }
func (k Keys) SavedAt() string                 { return k.prefix + "saved_at" }

// All 返回当前格式的全部 key。
func (k Keys) All() []string {
	out := make([]string, 0, len(domain.Regions)+8)
	for _, id := range domain.Regions {
		out = append(out, k.Board(id))
	}
	return append(out, k.Regions(), k.Mana(), k.Upgrades(), k.Inventory(), k.Offline(), k.Buffs(), k.Stats(), k.SavedAt())
}

// Legacy 返回旧版单棋盘格式的 key；非默认槽没有旧格式。
func (k Keys) Legacy() []string {
	if !k.legacy {
		return nil
	}
	return []string{LegacyKeyGrid, LegacyKeyMana, LegacyKeyTime}
}
