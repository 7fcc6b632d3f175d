package session

import (
	"fmt"
	"math"
	"time"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/board/match"
	"ManaMerge/internal/economy"
	"ManaMerge/internal/feedback"
	"ManaMerge/internal/game/logbook"
	"ManaMerge/internal/hostile"
	"ManaMerge/internal/persistence"
	"ManaMerge/internal/region"
	"ManaMerge/internal/shared/gameconfig/balance"
)

// Rand 同时满足 hostile.Rand 与 economy.Rand，*rand.Rand 直接可用。
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type Deps struct {
	Sink feedback.Sink
	Rand Rand
	IDs  domain.IDSource
}

// RewardEvent 是给展示层的飘字：位置、数额（负数为损失）和文案。
type RewardEvent struct {
	Region domain.RegionID
	At     domain.Coord
	Amount float64
	Label  string
}

// Session 持有一局游戏的全部可变状态。非并发安全，只由 GameActor 调用。
type Session struct {
	bal     *balance.Balance
	bands   []match.AttackBand
	hostile hostile.Params

	world    *region.World
	wallet   *economy.Wallet
	upgrades economy.Upgrades
	inv      *economy.Inventory
	boost    economy.Buff
	book     *logbook.Book

	sink feedback.Sink
	rng  Rand
	ids  domain.IDSource

	chain    *chain
	dragging bool
	dirty    bool
	rewards  []RewardEvent
}

func New(bal *balance.Balance, deps Deps) (*Session, error) {
	bands, err := match.BandsFrom(bal.AttackBands)
	if err != nil {
		return nil, err
	}
	world, err := region.NewWorld(bal)
	if err != nil {
		return nil, err
	}
	if deps.Rand == nil || deps.IDs == nil {
		return nil, fmt.Errorf("session: rand and id source are required")
	}
	ids := make([]string, 0, len(bal.Consumables))
	for _, c := range bal.Consumables {
		ids = append(ids, c.ID)
	}
	return &Session{
		bal:      bal,
		bands:    bands,
		hostile:  hostile.ParamsFrom(bal),
		world:    world,
		wallet:   economy.NewWallet(0),
		upgrades: economy.DefaultUpgrades(bal.Upgrades),
		inv:      economy.NewInventory(ids...),
		book:     logbook.New(bal.LogCapacity),
		sink:     feedback.OrNop(deps.Sink),
		rng:      deps.Rand,
		ids:      deps.IDs,
	}, nil
}

// Restore 用读档结果替换当前状态。余额直接 Set，不做累加。
func (s *Session) Restore(l *persistence.Loaded, now time.Time) {
	s.resetState()
	if l == nil {
		return
	}
	for id, b := range l.Boards {
		s.world.SetBoard(id, b)
	}
	s.world.Restore(l.Unlocked, l.Active)
	s.world.SetDefeats(l.Defeats)
	s.wallet.Set(l.Mana)
	s.upgrades = l.Upgrades.Normalize(s.bal.Upgrades)
	for id, n := range l.Inventory {
		if _, ok := s.bal.Consumable(id); ok {
			s.inv.Set(id, n)
		}
	}
	s.boost.Restore(l.Boost.Multiplier, l.Boost.ExpiresAt, now)
}

// GrantOffline 结算并发放离线收益，每次读档调用一次。
func (s *Session) GrantOffline(l *persistence.Loaded, now time.Time) persistence.OfflineReport {
	rep := persistence.ComputeOffline(l, s.world.AggregateRate(now), now)
	if rep.Reward <= 0 {
		return rep
	}
	s.wallet.Add(rep.Reward)
	s.logf(logbook.SeveritySuccess, now, "Welcome back! Earned %s mana while away (%s)", fmtMana(rep.Reward), rep.Effective.Round(time.Second))
	s.reward(s.world.ActiveID(), domain.Coord{}, rep.Reward, "Offline +"+fmtMana(rep.Reward))
	s.markDirty()
	return rep
}

// Reset 清档：回到初始状态。存储的删除由调用方负责。
func (s *Session) Reset(now time.Time) {
	s.resetState()
	s.logf(logbook.SeverityWarning, now, "Save wiped, starting over")
	s.markDirty()
}

func (s *Session) resetState() {
	s.world.Reset()
	s.wallet.Set(0)
	s.upgrades = economy.DefaultUpgrades(s.bal.Upgrades)
	for _, id := range s.inv.IDs() {
		s.inv.Set(id, 0)
	}
	s.boost = economy.Buff{}
	s.book.Reset()
	s.chain = nil
	s.dragging = false
	s.rewards = nil
}

// Snapshot 生成存档快照，棋盘已克隆。
func (s *Session) Snapshot(now time.Time) persistence.Snapshot {
	boards := make(map[domain.RegionID]*domain.Board, len(domain.Regions))
	for _, id := range domain.Regions {
		boards[id] = s.world.Board(id).Clone()
	}
	snap := persistence.Snapshot{
		Boards:    boards,
		Unlocked:  s.world.Unlocked(),
		Active:    s.world.ActiveID(),
		Mana:      s.wallet.Balance(),
		Upgrades:  s.upgrades,
		Inventory: s.inv.Snapshot(),
		Defeats:   s.world.Defeats(),
		SavedAt:   now,
	}
	if s.boost.Active() {
		snap.Boost = persistence.BoostState{Multiplier: s.boost.Raw(), ExpiresAt: s.boost.ExpiresAt()}
	}
	return snap
}

// TakeDirty 返回自上次调用以来是否有状态变化，并清除标记。
func (s *Session) TakeDirty() bool {
	d := s.dirty
	s.dirty = false
	return d
}

// DrainRewards 取走累积的飘字事件。
func (s *Session) DrainRewards() []RewardEvent {
	out := s.rewards
	s.rewards = nil
	return out
}

func (s *Session) Mana() float64 { return s.wallet.Balance() }

func (s *Session) Chaining() bool { return s.chain != nil }

func (s *Session) Dragging() bool { return s.dragging }

func (s *Session) World() *region.World { return s.world }

func (s *Session) Upgrades() economy.Upgrades { return s.upgrades }

func (s *Session) Inventory() *economy.Inventory { return s.inv }

func (s *Session) Logs() []logbook.Entry { return s.book.Entries() }

func (s *Session) markDirty() { s.dirty = true }

func (s *Session) logf(sev logbook.Severity, now time.Time, format string, args ...any) {
	s.book.Add(sev, fmt.Sprintf(format, args...), now)
}

func (s *Session) reward(id domain.RegionID, at domain.Coord, amount float64, label string) {
	s.rewards = append(s.rewards, RewardEvent{Region: id, At: at, Amount: amount, Label: label})
}

func (s *Session) rate(now time.Time) float64 {
	return s.world.AggregateRate(now)
}

func (s *Session) insufficient(reason Reason, need float64) error {
	return ErrInsufficientMana.WithReason(reason).WithData("need", need).WithData("have", math.Floor(s.wallet.Balance()))
}

func fmtMana(v float64) string {
	return fmt.Sprintf("%.0f", math.Floor(v))
}
