package balance

import (
	"errors"
	"fmt"
	"math"
)

const probabilityEpsilon = 1e-9

func (b *Balance) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(b.Board.Width > 0 && b.Board.Height > 0, "board: size must be positive, got %dx%d", b.Board.Width, b.Board.Height)
	check(b.Board.MaxTier >= 2, "board: max_tier must be >= 2, got %d", b.Board.MaxTier)
	check(b.Production.BaseRate >= 0 && b.Production.Growth >= 1, "production: base_rate >= 0 and growth >= 1")
	check(b.Spawn.Cap > 0 && b.Spawn.Cap <= 1, "spawn: cap must be in (0,1], got %v", b.Spawn.Cap)

	check(len(b.Luck) > 0, "luck: table is empty")
	for i, row := range b.Luck {
		sum := 0.0
		for _, p := range row {
			check(p >= 0, "luck[%d]: negative probability %v", i, p)
			sum += p
		}
		check(math.Abs(sum-1) < probabilityEpsilon, "luck[%d]: row sums to %v, want 1", i, sum)
	}

	check(len(b.AttackBands) > 0, "attack_bands: table is empty")
	for i, band := range b.AttackBands {
		if i == 0 {
			check(band.MinTier == 1, "attack_bands[0]: min_tier must be 1, got %d", band.MinTier)
			continue
		}
		check(band.MinTier > b.AttackBands[i-1].MinTier, "attack_bands[%d]: min_tier must ascend", i)
	}

	for _, p := range []float64{
		b.Hostile.DrainerStealChance, b.Hostile.DrainerSpreadChance, b.Hostile.SealerLockChance,
		b.Hostile.PhantomStealChance, b.Hostile.PhantomWarpChance,
	} {
		check(p >= 0 && p <= 1, "hostile: chance %v out of [0,1]", p)
	}

	check(len(b.TimeOfDay) > 0, "time_of_day: table is empty")
	for _, band := range b.TimeOfDay {
		check(band.Start >= 0 && band.Start < 24 && band.End >= 0 && band.End <= 24, "time_of_day %s: hours out of range", band.Name)
	}

	check(len(b.Regions) > 0, "regions: table is empty")
	if len(b.Regions) > 0 {
		check(b.Regions[0].UnlockCost == 0, "regions[0] %s: default region must be free", b.Regions[0].ID)
	}
	for _, r := range b.Regions {
		check(r.Risk >= 0, "region %s: negative risk", r.ID)
		check(r.TimeOfDay || r.Multiplier > 0, "region %s: multiplier must be positive", r.ID)
	}

	check(b.Boost.Multiplier >= 1 && b.Boost.Duration > 0, "boost: multiplier >= 1 and duration > 0")
	check(b.Upgrades.SummonLuck.MaxLevel == len(b.Luck), "upgrades.summon_luck.max_level %d must equal luck levels %d", b.Upgrades.SummonLuck.MaxLevel, len(b.Luck))
	for name, u := range map[string]StatUpgrade{
		"offline_efficiency": b.Upgrades.OfflineEfficiency,
		"offline_duration":   b.Upgrades.OfflineDuration,
	} {
		check(u.Increment > 0 && u.Max >= u.Base, "upgrades.%s: increment > 0 and max >= base", name)
	}
	check(b.Upgrades.OfflineEfficiency.Max <= 1, "upgrades.offline_efficiency.max must be <= 1")
	check(b.LogCapacity > 0, "log_capacity must be positive")

	return errors.Join(errs...)
}
