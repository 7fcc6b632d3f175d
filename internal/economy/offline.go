package economy

import (
	"math"
	"time"
)

// OfflineReward = floor(速率 × min(elapsed, maxDuration) × efficiency)。
// elapsed 为负时按 0 处理；超过上限后收益不再增长。
func OfflineReward(rate float64, elapsed, maxDuration time.Duration, efficiency float64) float64 {
	if rate <= 0 || elapsed <= 0 || maxDuration <= 0 {
		return 0
	}
	effective := min(elapsed, maxDuration).Seconds()
	efficiency = min(max(0, efficiency), 1)
	return math.Floor(rate * effective * efficiency)
}
