package actors

import (
	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/economy"
)

// 外部意图。每个意图都通过 RequestFuture 发送，actor 回复 *Response。

type MoveRequest struct {
	From domain.Coord
	To   domain.Coord
}

type BeginDragRequest struct{}

type EndDragRequest struct{}

type SummonRequest struct{}

type PurgeRequest struct {
	At domain.Coord
}

// PurgeDropRequest 把拖拽中的棋子丢到移除区，同时结束拖拽。
type PurgeDropRequest struct {
	From domain.Coord
}

type ShuffleRequest struct{}

type UseItemRequest struct {
	Item string
}

type BuyItemRequest struct {
	Item string
}

type BuyUpgradeRequest struct {
	Kind economy.UpgradeKind
}

type UnlockRegionRequest struct {
	Region domain.RegionID
}

type SwitchRegionRequest struct {
	Region domain.RegionID
}

// ResetRequest 清档：内存状态与存储都回到初始。
type ResetRequest struct{}

type ViewRequest struct{}

// FlushRequest 立即入队一份快照，不等防抖。
type FlushRequest struct{}

// Response 是所有意图的统一回复。Err 为 nil 表示成功，Value 的类型由意图决定：
// Move -> session.MoveResult，Summon -> session.SummonResult，
// Purge/PurgeDrop/BuyItem/BuyUpgrade -> float64（花费），View -> session.View，Flush -> uint64（版本）。
type Response struct {
	Value any
	Err   error
}

func ok(v any) *Response { return &Response{Value: v} }

func fail(err error) *Response { return &Response{Err: err} }

// 内部定时消息，不影响 ReceiveTimeout。

type hostileTick struct{}

func (hostileTick) NotInfluenceReceiveTimeout() {}

type accrualTick struct{}

func (accrualTick) NotInfluenceReceiveTimeout() {}

type saveDue struct{}

func (saveDue) NotInfluenceReceiveTimeout() {}

// comboStep 携带连锁代次，过期的 step 直接丢弃。
type comboStep struct {
	gen uint64
}

func (comboStep) NotInfluenceReceiveTimeout() {}
