package actor

import (
	"context"
	"fmt"
	"sync"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/economy"
	"ManaMerge/internal/game/actors"
	"ManaMerge/internal/game/session"
	"ManaMerge/modules/kit/errx"
)

const defaultAskTimeout = 3 * time.Second

const CodeActorUnavailable errx.Code = "GAME_ACTOR_UNAVAILABLE"

var ErrActorUnavailable = errx.NewSys(CodeActorUnavailable, "actor 请求失败")

// Runtime 是游戏 actor 的外部入口：展示层与命令行只通过它下发意图。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	game    *protoactor.PID
	timeout time.Duration

	stopOnce sync.Once
	stopped  chan struct{}
	stopErr  error
}

func NewRuntime(sess *session.Session, repo actors.Repository, opts actors.Options, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	props := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewGameActor(sess, repo, opts)
	})
	// 单局单 actor，不需要 manager 路由。
	game := root.Spawn(props)

	return &Runtime{
		system:  system,
		root:    root,
		game:    game,
		timeout: askTimeout,
		stopped: make(chan struct{}),
	}
}

// Shutdown 等待 actor 写出最后一份快照后关闭 ActorSystem，重复调用返回第一次的结果。
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil || r.system == nil {
		return nil
	}
	r.stopOnce.Do(func() {
		close(r.stopped)
		done := make(chan error, 1)
		go func() { done <- r.root.StopFuture(r.game).Wait() }()
		select {
		case r.stopErr = <-done:
		case <-ctx.Done():
			r.stopErr = ctx.Err()
		}
		r.system.Shutdown()
	})
	return r.stopErr
}

func (r *Runtime) request(ctx context.Context, msg any) (any, error) {
	if r == nil || r.root == nil || r.game == nil {
		return nil, ErrActorUnavailable.WithData("reason", "runtime not initialized")
	}
	select {
	case <-r.stopped:
		return nil, ErrActorUnavailable.WithData("reason", "runtime stopped")
	default:
	}
	// 注册一个 future 作为 Sender，阻塞到 actor Respond 或超时。
	res, err := r.root.RequestFuture(r.game, msg, r.timeoutFromContext(ctx)).Result()
	if err != nil {
		return nil, ErrActorUnavailable.WithData("request", fmt.Sprintf("%T", msg)).WithCause(err)
	}
	resp, ok := res.(*actors.Response)
	if !ok || resp == nil {
		return nil, ErrActorUnavailable.WithData("response", fmt.Sprintf("%T", res))
	}
	return resp.Value, resp.Err
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	return min(remain, r.timeout)
}

func (r *Runtime) Move(ctx context.Context, from, to domain.Coord) (session.MoveResult, error) {
	v, err := r.request(ctx, &actors.MoveRequest{From: from, To: to})
	if err != nil {
		return session.MoveResult{}, err
	}
	res, _ := v.(session.MoveResult)
	return res, nil
}

func (r *Runtime) BeginDrag(ctx context.Context) error {
	_, err := r.request(ctx, &actors.BeginDragRequest{})
	return err
}

func (r *Runtime) EndDrag(ctx context.Context) error {
	_, err := r.request(ctx, &actors.EndDragRequest{})
	return err
}

func (r *Runtime) Summon(ctx context.Context) (session.SummonResult, error) {
	v, err := r.request(ctx, &actors.SummonRequest{})
	if err != nil {
		return session.SummonResult{}, err
	}
	res, _ := v.(session.SummonResult)
	return res, nil
}

func (r *Runtime) Purge(ctx context.Context, at domain.Coord) (float64, error) {
	return r.cost(ctx, &actors.PurgeRequest{At: at})
}

func (r *Runtime) PurgeDrop(ctx context.Context, from domain.Coord) (float64, error) {
	return r.cost(ctx, &actors.PurgeDropRequest{From: from})
}

func (r *Runtime) Shuffle(ctx context.Context) error {
	_, err := r.request(ctx, &actors.ShuffleRequest{})
	return err
}

func (r *Runtime) UseItem(ctx context.Context, item string) error {
	_, err := r.request(ctx, &actors.UseItemRequest{Item: item})
	return err
}

func (r *Runtime) BuyItem(ctx context.Context, item string) (float64, error) {
	return r.cost(ctx, &actors.BuyItemRequest{Item: item})
}

func (r *Runtime) BuyUpgrade(ctx context.Context, kind economy.UpgradeKind) (float64, error) {
	return r.cost(ctx, &actors.BuyUpgradeRequest{Kind: kind})
}

func (r *Runtime) UnlockRegion(ctx context.Context, id domain.RegionID) error {
	_, err := r.request(ctx, &actors.UnlockRegionRequest{Region: id})
	return err
}

func (r *Runtime) SwitchRegion(ctx context.Context, id domain.RegionID) error {
	_, err := r.request(ctx, &actors.SwitchRegionRequest{Region: id})
	return err
}

func (r *Runtime) Reset(ctx context.Context) error {
	_, err := r.request(ctx, &actors.ResetRequest{})
	return err
}

func (r *Runtime) View(ctx context.Context) (session.View, error) {
	v, err := r.request(ctx, &actors.ViewRequest{})
	if err != nil {
		return session.View{}, err
	}
	view, _ := v.(session.View)
	return view, nil
}

// Flush 立即入队一份快照，返回它的版本号。
func (r *Runtime) Flush(ctx context.Context) (uint64, error) {
	v, err := r.request(ctx, &actors.FlushRequest{})
	if err != nil {
		return 0, err
	}
	version, _ := v.(uint64)
	return version, nil
}

func (r *Runtime) cost(ctx context.Context, msg any) (float64, error) {
	v, err := r.request(ctx, msg)
	if err != nil {
		return 0, err
	}
	c, _ := v.(float64)
	return c, nil
}
