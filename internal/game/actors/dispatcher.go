package actors

import (
	"context"
	"reflect"
	"time"

	"ManaMerge/modules/kit/tracex"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	action string
	fn     func(ctx context.Context, g *GameActor, now time.Time, req any) (any, error)
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, "move", GH.HandleMove)
	register(d, "begin_drag", GH.HandleBeginDrag)
	register(d, "end_drag", GH.HandleEndDrag)
	register(d, "summon", GH.HandleSummon)
	register(d, "purge", GH.HandlePurge)
	register(d, "purge_drop", GH.HandlePurgeDrop)
	register(d, "shuffle", GH.HandleShuffle)
	register(d, "use_item", GH.HandleUseItem)
	register(d, "buy_item", GH.HandleBuyItem)
	register(d, "buy_upgrade", GH.HandleBuyUpgrade)
	register(d, "unlock_region", GH.HandleUnlockRegion)
	register(d, "switch_region", GH.HandleSwitchRegion)
	register(d, "reset", GH.HandleReset)
	register(d, "view", GH.HandleView)
	register(d, "flush", GH.HandleFlush)
}

// register 按请求类型注册处理函数，要求 Req 是指针类型。
func register[Req any](
	d *Dispatcher,
	action string,
	fn func(ctx context.Context, g *GameActor, now time.Time, req Req) (any, error),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType.Kind() != reflect.Ptr {
		panic("dispatcher req type must be pointer message")
	}
	d.handlers[reqType] = Handler{
		action: action,
		fn: func(ctx context.Context, g *GameActor, now time.Time, req any) (any, error) {
			return fn(ctx, g, now, req.(Req))
		},
	}
}

func (d *Dispatcher) Knows(msg any) bool {
	_, ok := d.handlers[reflect.TypeOf(msg)]
	return ok
}

// Dispatch 执行 msg 对应的处理函数；没有注册时返回 false。
func (d *Dispatcher) Dispatch(g *GameActor, msg any) (*Response, bool) {
	h, found := d.handlers[reflect.TypeOf(msg)]
	if !found {
		return nil, false
	}
	if reflect.ValueOf(msg).IsNil() {
		return fail(ErrUnknownRequest.WithData("action", h.action)), true
	}
	ctx := tracex.Start(context.Background(), h.action)
	v, err := h.fn(ctx, g, g.now(), msg)
	g.report(ctx, h.action, err)
	if err != nil {
		return fail(err), true
	}
	return ok(v), true
}
