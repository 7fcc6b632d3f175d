package persistence

import (
	"time"

	"ManaMerge/internal/economy"
)

// OfflineReport 描述一次读档时的离线收益结算。
type OfflineReport struct {
	Elapsed    time.Duration
	Effective  time.Duration
	Rate       float64
	Efficiency float64
	Reward     float64
}

// ComputeOffline 用读档时的总产出速率结算离线收益，每次读档只调用一次。
func ComputeOffline(l *Loaded, rate float64, now time.Time) OfflineReport {
	if l == nil || !l.HasSavedAt {
		return OfflineReport{Rate: rate}
	}
	elapsed := max(0, now.Sub(l.SavedAt))
	limit := time.Duration(l.Upgrades.OfflineDuration * float64(time.Second))
	return OfflineReport{
		Elapsed:    elapsed,
		Effective:  min(elapsed, limit),
		Rate:       rate,
		Efficiency: l.Upgrades.OfflineEfficiency,
		Reward:     economy.OfflineReward(rate, elapsed, limit, l.Upgrades.OfflineEfficiency),
	}
}
