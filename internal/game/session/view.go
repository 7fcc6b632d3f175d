package session

import (
	"time"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/economy"
	"ManaMerge/internal/game/logbook"
)

// View 是给展示层的只读快照，棋盘已克隆。
type View struct {
	Boards     map[domain.RegionID]*domain.Board
	Active     domain.RegionID
	Unlocked   []domain.RegionID
	Mana       float64
	Rate       float64
	Multiplier float64
	// BoostLeft 是限时倍率剩余时间，未生效为 0。
	BoostLeft time.Duration
	Defeats   int
	Night     bool
	Chaining  bool
	Dragging  bool
	Logs      []logbook.Entry
	Inventory map[string]int
	Upgrades  economy.Upgrades
	Prices    Prices
}

// Prices 是当前各项操作的价格。
type Prices struct {
	Summon      float64
	Purge       float64
	Consumables map[string]float64
	Upgrades    map[economy.UpgradeKind]float64
	Regions     map[domain.RegionID]float64
}

func (s *Session) View(now time.Time) View {
	rate := s.rate(now)
	boards := make(map[domain.RegionID]*domain.Board, len(domain.Regions))
	for _, id := range domain.Regions {
		boards[id] = s.world.Board(id).Clone()
	}
	return View{
		Boards:     boards,
		Active:     s.world.ActiveID(),
		Unlocked:   s.world.Unlocked(),
		Mana:       s.wallet.Balance(),
		Rate:       rate,
		Multiplier: s.boost.Multiplier(now),
		BoostLeft:  s.boost.Remaining(now),
		Defeats:    s.world.Defeats(),
		Night:      economy.IsNight(s.bal.Night, now),
		Chaining:   s.chain != nil,
		Dragging:   s.dragging,
		Logs:       s.book.Entries(),
		Inventory:  s.inv.Snapshot(),
		Upgrades:   s.upgrades,
		Prices:     s.prices(rate),
	}
}

func (s *Session) prices(rate float64) Prices {
	p := Prices{
		Summon:      economy.SummonCost(s.wallet.Balance(), rate, s.bal.Costs),
		Purge:       economy.PurgeCost(rate, s.bal.Costs),
		Consumables: make(map[string]float64, len(s.bal.Consumables)),
		Upgrades:    make(map[economy.UpgradeKind]float64, len(economy.UpgradeKinds)),
		Regions:     make(map[domain.RegionID]float64, len(domain.Regions)),
	}
	for _, c := range s.bal.Consumables {
		p.Consumables[c.ID] = economy.ConsumablePrice(rate, c)
	}
	for _, k := range economy.UpgradeKinds {
		if !s.upgrades.Maxed(k, s.bal.Upgrades) {
			p.Upgrades[k] = s.upgrades.Cost(k, s.bal.Upgrades)
		}
	}
	for _, id := range domain.Regions {
		if r, ok := s.world.Region(id); ok && !r.Unlocked {
			p.Regions[id] = r.UnlockCost
		}
	}
	return p
}
