package economy

import "time"

// Buff 是限时产出倍率（boost 道具）。
type Buff struct {
	multiplier float64
	expiresAt  time.Time
	active     bool
}

// Activate 开启倍率；已生效时在原到期时间上顺延。
func (b *Buff) Activate(mult float64, now time.Time, d time.Duration) {
	start := now
	if b.active && b.expiresAt.After(now) {
		start = b.expiresAt
	}
	b.multiplier = mult
	b.expiresAt = start.Add(d)
	b.active = true
}

// Restore 从存档恢复；已过期的不恢复。
func (b *Buff) Restore(mult float64, expiresAt, now time.Time) {
	if mult <= 1 || !expiresAt.After(now) {
		*b = Buff{}
		return
	}
	*b = Buff{multiplier: mult, expiresAt: expiresAt, active: true}
}

// Multiplier 未生效或已过期时为 1。
func (b *Buff) Multiplier(now time.Time) float64 {
	if !b.active || !now.Before(b.expiresAt) {
		return 1
	}
	return b.multiplier
}

// Expire 在第一次观察到过期时返回 true，之后恒为 false。
func (b *Buff) Expire(now time.Time) bool {
	if !b.active || now.Before(b.expiresAt) {
		return false
	}
	*b = Buff{}
	return true
}

func (b *Buff) Active() bool { return b.active }

func (b *Buff) ExpiresAt() time.Time { return b.expiresAt }

func (b *Buff) Raw() float64 {
	if !b.active {
		return 1
	}
	return b.multiplier
}

// Remaining 剩余时长，未生效为 0。
func (b *Buff) Remaining(now time.Time) time.Duration {
	if !b.active {
		return 0
	}
	return max(0, b.expiresAt.Sub(now))
}
