package session

import (
	"fmt"
	"time"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/board/match"
	"ManaMerge/internal/feedback"
	"ManaMerge/internal/game/logbook"
)

const maxComboPitch = 2.0

// chain 是一次移动触发的连锁，focus 固定为落点。
type chain struct {
	region domain.RegionID
	at     domain.Coord
	combo  int
}

// ChainStep 是一步连锁合成的结果。
type ChainStep struct {
	Combo   int
	Tier    int
	Placed  []domain.Coord
	Defeats []match.Defeat
	Bonus   float64
	Reward  float64
	// More 为 true 表示落点上还有下一步。
	More bool
}

// ComboPitch = 1 + 0.1×(combo−1)，上限 2。
func ComboPitch(combo int) float64 {
	return min(maxComboPitch, 1+0.1*float64(max(combo, 1)-1))
}

// startChain 在落点可合成时开启连锁。
func (s *Session) startChain(id domain.RegionID, at domain.Coord) bool {
	if !match.Resolvable(match.FindMatch(s.world.Board(id), at)) {
		return false
	}
	s.chain = &chain{region: id, at: at}
	return true
}

// StepChain 执行一步连锁。没有进行中的连锁或落点不再可合成时返回 false。
// 每一步至少减少一个棋子，所以连锁必然结束。
func (s *Session) StepChain(now time.Time) (ChainStep, bool) {
	c := s.chain
	if c == nil {
		return ChainStep{}, false
	}
	b := s.world.Board(c.region)
	matched := match.FindMatch(b, c.at)
	if !match.Resolvable(matched) {
		s.chain = nil
		return ChainStep{}, false
	}
	res, err := match.ExecuteMerge(b, matched, c.at, s.ids, s.bal.Board.MaxTier)
	if err != nil {
		s.chain = nil
		return ChainStep{}, false
	}

	c.combo++
	tier := res.Produced[0].Tier
	next, defeats := match.ApplyAttack(res.Board, c.at, tier, s.bands)
	s.world.SetBoard(c.region, next)

	step := ChainStep{
		Combo:   c.combo,
		Tier:    tier,
		Placed:  res.Placed,
		Defeats: defeats,
		Bonus:   s.bal.Rewards.MergeBonusPerTier * float64(tier) * float64(c.combo),
		Reward:  s.bal.Rewards.DefeatPerTier * float64(tier) * float64(len(defeats)),
	}
	s.wallet.Add(step.Bonus + step.Reward)
	s.world.AddDefeats(len(defeats))

	s.sink.PlayCue(feedback.CueMerge, ComboPitch(c.combo))
	label := fmt.Sprintf("Combo x%d", c.combo)
	if c.combo == 1 {
		label = fmt.Sprintf("Merged T%d", tier)
	}
	s.reward(c.region, c.at, step.Bonus, label)
	if c.combo > 1 {
		s.logf(logbook.SeverityInfo, now, "Combo x%d! Merged %d into T%d", c.combo, res.Consumed, tier)
	} else {
		s.logf(logbook.SeverityInfo, now, "Merged %d into T%d", res.Consumed, tier)
	}
	if len(defeats) > 0 {
		s.sink.PlayCue(feedback.CuePop, ComboPitch(c.combo))
		per := s.bal.Rewards.DefeatPerTier * float64(tier)
		for _, d := range defeats {
			s.reward(c.region, d.At, per, "+"+fmtMana(per))
		}
		s.logf(logbook.SeveritySuccess, now, "Defeated %d hostile(s) for %s mana", len(defeats), fmtMana(step.Reward))
	}
	s.markDirty()

	step.More = match.Resolvable(match.FindMatch(next, c.at))
	if !step.More {
		s.chain = nil
	}
	return step, true
}

// ResolveChain 不带间隔地结算整条连锁，返回全部步骤。
func (s *Session) ResolveChain(now time.Time) []ChainStep {
	var steps []ChainStep
	for {
		st, ok := s.StepChain(now)
		if !ok {
			return steps
		}
		steps = append(steps, st)
		if !st.More {
			return steps
		}
	}
}
