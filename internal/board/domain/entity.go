package domain

import "fmt"

// Kind 区分玩家棋子与敌对单位。
type Kind uint8

const (
	KindCreature Kind = iota + 1
	KindHostile
)

func (k Kind) String() string {
	switch k {
	case KindCreature:
		return "creature"
	case KindHostile:
		return "hostile"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "creature":
		return KindCreature, nil
	case "hostile":
		return KindHostile, nil
	default:
		return 0, fmt.Errorf("unknown kind %q", s)
	}
}

// Variant 是敌对单位的行为模板，封闭枚举。
type Variant uint8

const (
	VariantNone Variant = iota
	VariantDrainer
	VariantSealer
	VariantPhantom
)

// Variants 按固定顺序列出全部敌对变体。
var Variants = []Variant{VariantDrainer, VariantSealer, VariantPhantom}

func (v Variant) String() string {
	switch v {
	case VariantNone:
		return ""
	case VariantDrainer:
		return "drainer"
	case VariantSealer:
		return "sealer"
	case VariantPhantom:
		return "phantom"
	default:
		return fmt.Sprintf("variant(%d)", uint8(v))
	}
}

func ParseVariant(s string) (Variant, error) {
	switch s {
	case "":
		return VariantNone, nil
	case "drainer":
		return VariantDrainer, nil
	case "sealer":
		return VariantSealer, nil
	case "phantom":
		return VariantPhantom, nil
	default:
		return VariantNone, fmt.Errorf("unknown hostile variant %q", s)
	}
}

// RegionID 是区域标识，封闭枚举。
type RegionID string

const (
	RegionPlains RegionID = "plains"
	RegionMine   RegionID = "mine"
	RegionSky    RegionID = "sky"
)

// Regions 按解锁顺序列出全部区域，第一个是默认区域。
var Regions = []RegionID{RegionPlains, RegionMine, RegionSky}

func (r RegionID) Valid() bool {
	switch r {
	case RegionPlains, RegionMine, RegionSky:
		return true
	default:
		return false
	}
}

func ParseRegion(s string) (RegionID, error) {
	r := RegionID(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown region %q", s)
	}
	return r, nil
}

// EntityID 只用于展示层的临时身份，不作为持久化外键。
type EntityID int64

// IDSource 产生进程内唯一 id。
type IDSource interface {
	NextID() int64
}

type Entity struct {
	ID      EntityID
	Kind    Kind
	Tier    int
	Origin  RegionID
	Variant Variant
}

// NewEntity 创建棋子，tier 被夹在 [1, maxTier]。
func NewEntity(ids IDSource, kind Kind, tier, maxTier int, origin RegionID, variant Variant) *Entity {
	if kind != KindHostile {
		variant = VariantNone
	}
	return &Entity{
		ID:      EntityID(ids.NextID()),
		Kind:    kind,
		Tier:    ClampTier(tier, maxTier),
		Origin:  origin,
		Variant: variant,
	}
}

func ClampTier(tier, maxTier int) int {
	if maxTier < 1 {
		maxTier = 1
	}
	return min(max(tier, 1), maxTier)
}

func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

// SameGroup 判断两个棋子能否组成匹配：kind 与 tier 都相同。
func (e *Entity) SameGroup(o *Entity) bool {
	return e != nil && o != nil && e.Kind == o.Kind && e.Tier == o.Tier
}

func (e *Entity) IsHostile() bool {
	return e != nil && e.Kind == KindHostile
}

func (e *Entity) String() string {
	if e == nil {
		return "<empty>"
	}
	if e.Kind == KindHostile {
		return fmt.Sprintf("%s T%d", e.Variant, e.Tier)
	}
	return fmt.Sprintf("%s T%d", e.Kind, e.Tier)
}
