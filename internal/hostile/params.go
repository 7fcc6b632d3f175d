package hostile

import (
	"sort"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/shared/gameconfig/balance"
)

// Rand 是引擎需要的最小随机源，*rand.Rand 直接满足。
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type Params struct {
	DrainerStealChance  float64
	DrainerStealPerTier float64
	DrainerSpreadChance float64
	SealerLockChance    float64
	PhantomStealChance  float64
	PhantomStealPerTier float64
	PhantomWarpChance   float64
	MaxTier             int
}

func DefaultParams() Params {
	return ParamsFrom(balance.Default())
}

func ParamsFrom(b *balance.Balance) Params {
	h := b.Hostile
	return Params{
		DrainerStealChance:  h.DrainerStealChance,
		DrainerStealPerTier: h.DrainerStealPerTier,
		DrainerSpreadChance: h.DrainerSpreadChance,
		SealerLockChance:    h.SealerLockChance,
		PhantomStealChance:  h.PhantomStealChance,
		PhantomStealPerTier: h.PhantomStealPerTier,
		PhantomWarpChance:   h.PhantomWarpChance,
		MaxTier:             b.Board.MaxTier,
	}
}

// Weights 是某个区域生成各变体的相对权重。
type Weights map[domain.Variant]float64

func WeightsFrom(in map[string]float64) (Weights, error) {
	out := make(Weights, len(in))
	for name, w := range in {
		v, err := domain.ParseVariant(name)
		if err != nil {
			return nil, err
		}
		if v != domain.VariantNone && w > 0 {
			out[v] = w
		}
	}
	return out, nil
}

// PickVariant 按权重抽取变体；权重为空时退化为 drainer。
func PickVariant(w Weights, rng Rand) domain.Variant {
	total := 0.0
	keys := make([]domain.Variant, 0, len(w))
	for v, weight := range w {
		total += weight
		keys = append(keys, v)
	}
	if total <= 0 {
		return domain.VariantDrainer
	}
	// map 遍历无序，固定顺序才能让同一随机序列得到同一结果。
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	roll := rng.Float64() * total
	for _, v := range keys {
		roll -= w[v]
		if roll < 0 {
			return v
		}
	}
	return keys[len(keys)-1]
}
