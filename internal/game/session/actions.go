package session

import (
	"errors"
	"math"
	"time"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/board/match"
	"ManaMerge/internal/economy"
	"ManaMerge/internal/feedback"
	"ManaMerge/internal/game/logbook"
	"ManaMerge/internal/hostile"
	"ManaMerge/internal/region"
)

const (
	ItemShuffle    = "shuffle"
	ItemBomb       = "bomb"
	ItemBarrier    = "barrier"
	ItemBoost      = "boost"
	ItemElixir     = "elixir"
	ItemArmageddon = "armageddon"
)

type MoveResult struct {
	// Chaining 为 true 时落点可合成，调用方按节奏调用 StepChain。
	Chaining bool
}

// Move 把激活区域 from 处的生物移到空格 to，并在落点可合成时开启连锁。
func (s *Session) Move(from, to domain.Coord) (MoveResult, error) {
	s.dragging = false
	if s.chain != nil {
		return MoveResult{}, ErrBusy
	}
	id := s.world.ActiveID()
	b := s.world.Board(id)
	if reason, ok := moveRejection(b, from, to); !ok {
		return MoveResult{}, ErrInvalidMove.WithReason(reason).WithData("from", from.String()).WithData("to", to.String())
	}
	next := match.MoveEntity(b, from, to)
	if next == b {
		return MoveResult{}, ErrInvalidMove.WithData("from", from.String()).WithData("to", to.String())
	}
	s.world.SetBoard(id, next)
	s.markDirty()
	return MoveResult{Chaining: s.startChain(id, to)}, nil
}

// moveRejection 给出移动不合法的具体原因。敌对单位不能被玩家移动。
func moveRejection(b *domain.Board, from, to domain.Coord) (Reason, bool) {
	switch {
	case !b.InBounds(from) || !b.InBounds(to):
		return ReasonOutOfBounds, false
	case from == to:
		return ReasonSameCell, false
	case b.EntityAt(from) == nil:
		return ReasonSourceEmpty, false
	case b.EntityAt(from).IsHostile():
		return ReasonSourceHostile, false
	case b.IsLocked(from):
		return ReasonSourceLocked, false
	case b.IsLocked(to):
		return ReasonTargetLocked, false
	case b.EntityAt(to) != nil:
		return ReasonTargetOccupied, false
	}
	return Reason{}, true
}

func (s *Session) BeginDrag() { s.dragging = true }

func (s *Session) EndDrag() { s.dragging = false }

type SummonResult struct {
	At     domain.Coord
	Entity *domain.Entity
	Cost   float64
}

// Summon 付费在激活区域的随机空格召唤一个单位，有一定概率召唤出敌对单位。
func (s *Session) Summon(now time.Time) (SummonResult, error) {
	if s.chain != nil {
		return SummonResult{}, ErrBusy
	}
	r := s.world.Active()
	empties := r.Board.EmptyUnlocked()
	if len(empties) == 0 {
		return SummonResult{}, ErrBoardFull.WithData("region", string(r.ID))
	}
	mana, rate := s.wallet.Balance(), s.rate(now)
	cost := economy.SummonCost(mana, rate, s.bal.Costs)
	if !s.wallet.Consume(cost) {
		return SummonResult{}, s.insufficient(ReasonSummonCost, cost)
	}

	var e *domain.Entity
	if s.rng.Float64() < economy.SpawnChance(mana, rate, r.Risk, s.bal.Spawn) {
		v := hostile.PickVariant(r.Weights, s.rng)
		e = domain.NewEntity(s.ids, domain.KindHostile, 1, s.bal.Board.MaxTier, r.ID, v)
	} else {
		tier := economy.SummonTier(s.bal.Luck, s.upgrades.SummonLuck, s.rng)
		e = domain.NewEntity(s.ids, domain.KindCreature, tier, s.bal.Board.MaxTier, r.ID, domain.VariantNone)
	}
	at := empties[s.rng.Intn(len(empties))]
	next := r.Board.Clone()
	next.Place(at, e)
	s.world.SetBoard(r.ID, next)

	if e.IsHostile() {
		s.sink.PlayCue(feedback.CueAlarm, 1)
		s.logf(logbook.SeverityWarning, now, "A %s appeared at %v!", e.Variant, at)
	} else {
		s.sink.PlayCue(feedback.CuePop, 1)
		s.logf(logbook.SeverityInfo, now, "Summoned T%d for %s mana", e.Tier, fmtMana(cost))
	}
	s.markDirty()
	return SummonResult{At: at, Entity: e, Cost: cost}, nil
}

// PurgeAt 付费移除一个未被封印的单位；移除敌对单位计入击败数但没有奖励。
func (s *Session) PurgeAt(at domain.Coord, now time.Time) (float64, error) {
	if s.chain != nil {
		return 0, ErrBusy
	}
	id := s.world.ActiveID()
	b := s.world.Board(id)
	e := b.EntityAt(at)
	switch {
	case !b.InBounds(at):
		return 0, ErrInvalidTarget.WithReason(ReasonOutOfBounds).WithData("at", at.String())
	case e == nil:
		return 0, ErrInvalidTarget.WithReason(ReasonSourceEmpty).WithData("at", at.String())
	case b.IsLocked(at):
		return 0, ErrInvalidTarget.WithReason(ReasonTargetLocked).WithData("at", at.String())
	}
	cost := economy.PurgeCost(s.rate(now), s.bal.Costs)
	if !s.wallet.Consume(cost) {
		return 0, s.insufficient(ReasonPurgeCost, cost)
	}
	next := b.Clone()
	next.Clear(at)
	s.world.SetBoard(id, next)
	if e.IsHostile() {
		s.world.AddDefeats(1)
	}
	s.sink.PlayCue(feedback.CuePurge, 1)
	s.logf(logbook.SeverityInfo, now, "Purged %s for %s mana", e, fmtMana(cost))
	s.markDirty()
	return cost, nil
}

// PurgeDrop 是把单位拖到移除区：结束拖拽后按 PurgeAt 处理。
func (s *Session) PurgeDrop(from domain.Coord, now time.Time) (float64, error) {
	s.dragging = false
	return s.PurgeAt(from, now)
}

// Shuffle 使用一个 shuffle 道具。
func (s *Session) Shuffle(now time.Time) error {
	return s.UseConsumable(ItemShuffle, now)
}

// UseConsumable 使用一个库存道具。
func (s *Session) UseConsumable(item string, now time.Time) error {
	if _, ok := s.bal.Consumable(item); !ok {
		return ErrUnknownItem.WithData("item", item)
	}
	if s.inv.Count(item) <= 0 {
		return ErrItemEmpty.WithData("item", item)
	}
	switch item {
	case ItemShuffle, ItemBomb, ItemBarrier, ItemArmageddon:
		if s.chain != nil {
			return ErrBusy
		}
	}

	switch item {
	case ItemShuffle:
		s.shuffleActive()
		s.sink.PlayCue(feedback.CueShuffle, 1)
		s.logf(logbook.SeverityInfo, now, "The board was shuffled")
	case ItemBomb:
		id := s.world.ActiveID()
		next, defeats := match.ClearHostiles(s.world.Board(id))
		s.world.SetBoard(id, next)
		s.world.AddDefeats(len(defeats))
		s.sink.PlayCue(feedback.CuePurge, 1)
		s.logf(logbook.SeveritySuccess, now, "Bomb cleared %d hostile(s)", len(defeats))
	case ItemBarrier:
		id := s.world.ActiveID()
		b := s.world.Board(id)
		next := b.Clone()
		n := 0
		b.ForEach(func(c domain.Cell) {
			if c.Locked {
				next.SetLocked(c.At, false)
				n++
			}
		})
		s.world.SetBoard(id, next)
		s.sink.PlayCue(feedback.CueButton, 1)
		s.logf(logbook.SeveritySuccess, now, "Barrier released %d sealed cell(s)", n)
	case ItemBoost:
		s.boost.Activate(s.bal.Boost.Multiplier, now, s.bal.Boost.Duration)
		s.sink.PlayCue(feedback.CueButton, 1)
		s.logf(logbook.SeveritySuccess, now, "Production x%g until %s", s.bal.Boost.Multiplier, s.boost.ExpiresAt().Format("15:04:05"))
	case ItemElixir:
		amount := math.Floor(max(0, s.rate(now)*s.bal.ElixirSecs))
		s.wallet.Add(amount)
		s.reward(s.world.ActiveID(), domain.Coord{}, amount, "+"+fmtMana(amount))
		s.sink.PlayCue(feedback.CueMerge, maxComboPitch)
		s.logf(logbook.SeveritySuccess, now, "Elixir granted %s mana", fmtMana(amount))
	case ItemArmageddon:
		total, count := 0.0, 0
		for _, id := range s.world.Unlocked() {
			next, defeats := match.ClearHostiles(s.world.Board(id))
			s.world.SetBoard(id, next)
			for _, d := range defeats {
				per := s.bal.Rewards.DefeatPerTier * float64(d.Entity.Tier)
				total += per
				s.reward(id, d.At, per, "+"+fmtMana(per))
			}
			count += len(defeats)
		}
		s.wallet.Add(total)
		s.world.AddDefeats(count)
		s.sink.PlayCue(feedback.CuePurge, maxComboPitch)
		s.logf(logbook.SeveritySuccess, now, "Armageddon defeated %d hostile(s) for %s mana", count, fmtMana(total))
	default:
		return ErrUnknownItem.WithData("item", item)
	}
	s.inv.Use(item)
	s.markDirty()
	return nil
}

// shuffleActive 把激活区域未封印格里的单位随机重排到未封印格中，封印格不动。
func (s *Session) shuffleActive() {
	id := s.world.ActiveID()
	b := s.world.Board(id)
	var cells []domain.Coord
	var ents []*domain.Entity
	b.ForEach(func(c domain.Cell) {
		if c.Locked {
			return
		}
		cells = append(cells, c.At)
		if c.Entity != nil {
			ents = append(ents, c.Entity)
		}
	})
	for i := len(cells) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		cells[i], cells[j] = cells[j], cells[i]
	}
	next := b.Clone()
	for _, c := range cells {
		next.Clear(c)
	}
	for i, e := range ents {
		next.Place(cells[i], e.Clone())
	}
	s.world.SetBoard(id, next)
}

// BuyConsumable 按当前产出速率定价购买一个道具；门控道具需要满级幸运。
func (s *Session) BuyConsumable(item string, now time.Time) (float64, error) {
	c, ok := s.bal.Consumable(item)
	if !ok {
		return 0, ErrUnknownItem.WithData("item", item)
	}
	if c.Gated && !s.upgrades.GatedUnlocked(s.bal.Upgrades) {
		return 0, ErrItemGated.WithData("item", item).WithData("luck", s.upgrades.SummonLuck)
	}
	price := economy.ConsumablePrice(s.rate(now), c)
	if !s.wallet.Consume(price) {
		return 0, s.insufficient(ReasonShopPrice, price)
	}
	s.inv.Add(item, 1)
	s.sink.PlayCue(feedback.CueButton, 1)
	s.logf(logbook.SeverityInfo, now, "Bought %s for %s mana", item, fmtMana(price))
	s.markDirty()
	return price, nil
}

// BuyUpgrade 购买一级升级。
func (s *Session) BuyUpgrade(kind economy.UpgradeKind, now time.Time) (float64, error) {
	if _, err := economy.ParseUpgradeKind(string(kind)); err != nil {
		return 0, ErrUnknownUpgrade.WithData("kind", string(kind))
	}
	if s.upgrades.Maxed(kind, s.bal.Upgrades) {
		return 0, ErrUpgradeMaxed.WithData("kind", string(kind))
	}
	cost := s.upgrades.Cost(kind, s.bal.Upgrades)
	if !s.wallet.Consume(cost) {
		return 0, s.insufficient(ReasonUpgradeCost, cost)
	}
	wasGated := s.upgrades.GatedUnlocked(s.bal.Upgrades)
	s.upgrades = s.upgrades.Next(kind, s.bal.Upgrades)
	s.sink.PlayCue(feedback.CueButton, 1)
	s.logf(logbook.SeveritySuccess, now, "Upgraded %s to level %d", kind, s.upgrades.Level(kind, s.bal.Upgrades)+1)
	if !wasGated && s.upgrades.GatedUnlocked(s.bal.Upgrades) {
		s.logf(logbook.SeveritySuccess, now, "Max luck reached: forbidden items unlocked")
	}
	s.markDirty()
	return cost, nil
}

// UnlockRegion 付费解锁区域，击败数未达到门槛时拒绝。
func (s *Session) UnlockRegion(id domain.RegionID, now time.Time) error {
	if err := s.world.Unlock(id, s.wallet); err != nil {
		if errors.Is(err, region.ErrInsufficientMana) {
			r, _ := s.world.Region(id)
			return s.insufficient(ReasonUnlockCost, r.UnlockCost)
		}
		return err
	}
	s.sink.PlayCue(feedback.CueButton, 1)
	s.logf(logbook.SeveritySuccess, now, "Unlocked %s", id)
	s.markDirty()
	return nil
}

// SwitchRegion 切换激活区域。进行中的连锁绑定在原区域，不受影响。
func (s *Session) SwitchRegion(id domain.RegionID, now time.Time) error {
	s.dragging = false
	if err := s.world.Switch(id); err != nil {
		if errors.Is(err, region.ErrLocked) {
			return ErrRegionLocked.WithData("region", string(id))
		}
		return err
	}
	s.logf(logbook.SeverityInfo, now, "Travelled to %s", id)
	s.markDirty()
	return nil
}
