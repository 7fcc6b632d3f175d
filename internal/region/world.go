package region

import (
	"time"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/economy"
	"ManaMerge/internal/hostile"
	"ManaMerge/internal/shared/gameconfig/balance"
)

// Spec 是区域的静态配置。
type Spec struct {
	ID              domain.RegionID
	UnlockCost      float64
	RequiredDefeats int
	Multiplier      float64
	TimeOfDay       bool
	Risk            float64
	Weights         hostile.Weights
}

type Region struct {
	Spec
	Board    *domain.Board
	Unlocked bool
}

// World 持有全部区域的棋盘与解锁状态。只由 actor 访问。
type World struct {
	regions    map[domain.RegionID]*Region
	active     domain.RegionID
	defeats    int
	width      int
	height     int
	timeBands  []balance.TimeBand
	production balance.Production
}

// NewWorld 按配置创建全部区域的空棋盘，默认区域解锁并激活。
func NewWorld(b *balance.Balance) (*World, error) {
	w := &World{
		regions:    make(map[domain.RegionID]*Region, len(domain.Regions)),
		width:      b.Board.Width,
		height:     b.Board.Height,
		timeBands:  b.TimeOfDay,
		production: b.Production,
	}
	for _, id := range domain.Regions {
		cfg, ok := b.Region(string(id))
		if !ok {
			return nil, ErrUnknown.WithData("region", string(id))
		}
		weights, err := hostile.WeightsFrom(cfg.HostileWeights)
		if err != nil {
			return nil, err
		}
		w.regions[id] = &Region{
			Spec: Spec{
				ID:              id,
				UnlockCost:      cfg.UnlockCost,
				RequiredDefeats: cfg.RequiredDefeats,
				Multiplier:      cfg.Multiplier,
				TimeOfDay:       cfg.TimeOfDay,
				Risk:            cfg.Risk,
				Weights:         weights,
			},
			Board: domain.NewBoard(w.width, w.height),
		}
	}
	w.Reset()
	return w, nil
}

// Reset 清空全部棋盘和击败数，只保留默认区域解锁。
func (w *World) Reset() {
	for _, id := range domain.Regions {
		r := w.regions[id]
		r.Board = domain.NewBoard(w.width, w.height)
		r.Unlocked = id == domain.Regions[0]
	}
	w.active = domain.Regions[0]
	w.defeats = 0
}

func (w *World) Width() int  { return w.width }
func (w *World) Height() int { return w.height }

func (w *World) Region(id domain.RegionID) (*Region, bool) {
	r, ok := w.regions[id]
	return r, ok
}

func (w *World) Active() *Region {
	return w.regions[w.active]
}

func (w *World) ActiveID() domain.RegionID {
	return w.active
}

func (w *World) Board(id domain.RegionID) *domain.Board {
	if r, ok := w.regions[id]; ok {
		return r.Board
	}
	return nil
}

// SetBoard 替换区域棋盘；尺寸不符的棋盘被忽略。
func (w *World) SetBoard(id domain.RegionID, b *domain.Board) bool {
	r, ok := w.regions[id]
	if !ok || b == nil || b.Width() != w.width || b.Height() != w.height {
		return false
	}
	r.Board = b
	return true
}

func (w *World) Defeats() int { return w.defeats }

func (w *World) AddDefeats(n int) {
	if n > 0 {
		w.defeats += n
	}
}

func (w *World) SetDefeats(n int) {
	w.defeats = max(0, n)
}

// Unlocked 按固定顺序返回已解锁区域。
func (w *World) Unlocked() []domain.RegionID {
	var out []domain.RegionID
	for _, id := range domain.Regions {
		if w.regions[id].Unlocked {
			out = append(out, id)
		}
	}
	return out
}

// Restore 读档时设置解锁列表与激活区域；默认区域总是解锁，激活区域必须已解锁。
func (w *World) Restore(unlocked []domain.RegionID, active domain.RegionID) {
	for _, id := range domain.Regions {
		w.regions[id].Unlocked = id == domain.Regions[0]
	}
	for _, id := range unlocked {
		if r, ok := w.regions[id]; ok {
			r.Unlocked = true
		}
	}
	w.active = domain.Regions[0]
	if r, ok := w.regions[active]; ok && r.Unlocked {
		w.active = active
	}
}

// CheckUnlock 校验解锁门槛（不含法力）。
func (w *World) CheckUnlock(id domain.RegionID) (*Region, error) {
	r, ok := w.regions[id]
	if !ok {
		return nil, ErrUnknown.WithData("region", string(id))
	}
	if r.Unlocked {
		return nil, ErrAlreadyUnlocked.WithData("region", string(id))
	}
	if w.defeats < r.RequiredDefeats {
		return nil, ErrDefeatsRequired.
			WithData("region", string(id)).
			WithData("need", r.RequiredDefeats).
			WithData("have", w.defeats)
	}
	return r, nil
}

// Unlock 校验门槛并从钱包扣费；任何一步失败都不修改状态。
func (w *World) Unlock(id domain.RegionID, wallet *economy.Wallet) error {
	r, err := w.CheckUnlock(id)
	if err != nil {
		return err
	}
	if !wallet.Consume(r.UnlockCost) {
		return ErrInsufficientMana.
			WithData("region", string(id)).
			WithData("need", r.UnlockCost).
			WithData("have", wallet.Balance())
	}
	r.Unlocked = true
	return nil
}

// Switch 切换激活区域，只能切到已解锁区域。
func (w *World) Switch(id domain.RegionID) error {
	r, ok := w.regions[id]
	if !ok {
		return ErrUnknown.WithData("region", string(id))
	}
	if !r.Unlocked {
		return ErrLocked.WithData("region", string(id))
	}
	w.active = id
	return nil
}

// Multiplier 返回区域在 now 的产出倍率。
func (w *World) Multiplier(id domain.RegionID, now time.Time) float64 {
	r, ok := w.regions[id]
	if !ok {
		return 0
	}
	if r.TimeOfDay {
		return economy.TimeOfDayMultiplier(w.timeBands, now)
	}
	return r.Multiplier
}

// RegionRate 是单个区域未乘倍率的产出。
func (w *World) RegionRate(id domain.RegionID) float64 {
	return economy.ProductionRate(w.Board(id), w.production)
}

// AggregateRate = Σ 已解锁区域 产出 × 倍率。
func (w *World) AggregateRate(now time.Time) float64 {
	total := 0.0
	for _, id := range w.Unlocked() {
		total += w.RegionRate(id) * w.Multiplier(id, now)
	}
	return total
}
