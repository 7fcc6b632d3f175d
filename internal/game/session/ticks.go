package session

import (
	"time"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/feedback"
	"ManaMerge/internal/game/logbook"
	"ManaMerge/internal/hostile"
)

type HostileOutcome struct {
	ManaLost float64
	Events   []string
}

// HostileTick 让激活区域的敌对单位行动一次。连锁结算中或拖拽中跳过本次，返回 false。
func (s *Session) HostileTick(now time.Time) (HostileOutcome, bool) {
	if s.chain != nil || s.dragging {
		return HostileOutcome{}, false
	}
	id := s.world.ActiveID()
	b := s.world.Board(id)
	if b.CountKind(domain.KindHostile) == 0 {
		return HostileOutcome{}, true
	}
	res := hostile.Tick(b, s.wallet.Balance(), s.rng, s.hostile, s.ids)
	s.world.SetBoard(id, res.Board)
	lost := s.wallet.Drain(res.ManaLost)

	for _, st := range res.Steals {
		s.reward(id, st.At, -st.Amount, "-"+fmtMana(st.Amount))
	}
	for _, ev := range res.Events {
		s.logf(logbook.SeverityDanger, now, "%s", ev)
	}
	if lost > 0 || len(res.Events) > 0 {
		s.sink.PlayCue(feedback.CueAlarm, 1)
		s.markDirty()
	}
	return HostileOutcome{ManaLost: lost, Events: res.Events}, true
}

// Accrue 按全部已解锁区域的总产出与限时倍率累积 interval 的收益，返回本次收益。
// 限时倍率到期时只记录一次日志。
func (s *Session) Accrue(now time.Time, interval time.Duration) float64 {
	gain := s.rate(now) * s.boost.Multiplier(now) * interval.Seconds()
	s.wallet.Add(gain)
	if s.boost.Expire(now) {
		s.logf(logbook.SeverityInfo, now, "Production boost expired")
		s.markDirty()
	}
	if gain > 0 {
		s.markDirty()
	}
	return gain
}
