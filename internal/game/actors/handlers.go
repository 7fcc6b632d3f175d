package actors

import (
	"context"
	"time"
)

type GameHandler struct{}

// 全局实例
var GH = &GameHandler{}

func (h *GameHandler) HandleMove(_ context.Context, g *GameActor, _ time.Time, req *MoveRequest) (any, error) {
	res, err := g.sess.Move(req.From, req.To)
	if err != nil {
		return nil, err
	}
	if res.Chaining {
		g.startCombo()
	}
	return res, nil
}

func (h *GameHandler) HandleBeginDrag(_ context.Context, g *GameActor, _ time.Time, _ *BeginDragRequest) (any, error) {
	g.sess.BeginDrag()
	return nil, nil
}

func (h *GameHandler) HandleEndDrag(_ context.Context, g *GameActor, _ time.Time, _ *EndDragRequest) (any, error) {
	g.sess.EndDrag()
	return nil, nil
}

func (h *GameHandler) HandleSummon(_ context.Context, g *GameActor, now time.Time, _ *SummonRequest) (any, error) {
	res, err := g.sess.Summon(now)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (h *GameHandler) HandlePurge(_ context.Context, g *GameActor, now time.Time, req *PurgeRequest) (any, error) {
	return wrapCost(g.sess.PurgeAt(req.At, now))
}

func (h *GameHandler) HandlePurgeDrop(_ context.Context, g *GameActor, now time.Time, req *PurgeDropRequest) (any, error) {
	return wrapCost(g.sess.PurgeDrop(req.From, now))
}

func (h *GameHandler) HandleShuffle(_ context.Context, g *GameActor, now time.Time, _ *ShuffleRequest) (any, error) {
	return nil, g.sess.Shuffle(now)
}

func (h *GameHandler) HandleUseItem(_ context.Context, g *GameActor, now time.Time, req *UseItemRequest) (any, error) {
	return nil, g.sess.UseConsumable(req.Item, now)
}

func (h *GameHandler) HandleBuyItem(_ context.Context, g *GameActor, now time.Time, req *BuyItemRequest) (any, error) {
	return wrapCost(g.sess.BuyConsumable(req.Item, now))
}

func (h *GameHandler) HandleBuyUpgrade(_ context.Context, g *GameActor, now time.Time, req *BuyUpgradeRequest) (any, error) {
	return wrapCost(g.sess.BuyUpgrade(req.Kind, now))
}

func (h *GameHandler) HandleUnlockRegion(_ context.Context, g *GameActor, now time.Time, req *UnlockRegionRequest) (any, error) {
	return nil, g.sess.UnlockRegion(req.Region, now)
}

func (h *GameHandler) HandleSwitchRegion(_ context.Context, g *GameActor, now time.Time, req *SwitchRegionRequest) (any, error) {
	return nil, g.sess.SwitchRegion(req.Region, now)
}

// HandleReset 先清内存再删存储，最后立即写入一份初始快照。
// 删除失败时仍然写入初始快照，全量写会覆盖旧记录。
func (h *GameHandler) HandleReset(ctx context.Context, g *GameActor, now time.Time, _ *ResetRequest) (any, error) {
	g.cancelCombo()
	g.sess.Reset(now)
	err := g.repo.Reset(ctx)
	g.saveNow(ctx)
	return nil, err
}

func (h *GameHandler) HandleView(_ context.Context, g *GameActor, now time.Time, _ *ViewRequest) (any, error) {
	return g.sess.View(now), nil
}

func (h *GameHandler) HandleFlush(ctx context.Context, g *GameActor, _ time.Time, _ *FlushRequest) (any, error) {
	return g.saveNow(ctx), nil
}

func wrapCost(cost float64, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return cost, nil
}
