package actors

import (
	"context"
	"errors"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"ManaMerge/internal/game/session"
	"ManaMerge/internal/persistence/dc"
	"ManaMerge/internal/shared/appconfig"
	"ManaMerge/modules/kit/errx"
	"ManaMerge/modules/kit/logx"
	"ManaMerge/modules/kit/tracex"
)

type State int

const (
	None State = iota
	Online
	Stopping
	Stopped
)

const closeTimeout = 3 * time.Second

// Repository 是 actor 需要的存储能力：写快照与清档。
type Repository interface {
	dc.Saver
	Reset(ctx context.Context) error
}

type Options struct {
	Timers appconfig.TimerConfig
	Logger logx.Logger
	// Now 为空时使用 time.Now。
	Now func() time.Time
	// OnReward 在 actor 协程里调用，不能阻塞。
	OnReward func([]session.RewardEvent)
}

// GameActor 独占 Session：所有意图、定时器和存档都在它的邮箱里串行执行。
type GameActor struct {
	state      State
	sess       *session.Session
	repo       Repository
	dc         *dc.SaveDC
	debounce   *dc.Debouncer
	dispatcher *Dispatcher
	timers     appconfig.TimerConfig
	log        logx.Logger
	now        func() time.Time
	onReward   func([]session.RewardEvent)

	self      *actor.PID
	root      *actor.RootContext
	tickStops []chan struct{}

	comboGen   uint64
	comboTimer *time.Timer
}

func NewGameActor(sess *session.Session, repo Repository, opts Options) *GameActor {
	l := logx.OrNop(opts.Logger)
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &GameActor{
		state:      None,
		sess:       sess,
		repo:       repo,
		dc:         dc.NewSaveDC(repo, l),
		dispatcher: NewDispatcher(),
		timers:     opts.Timers,
		log:        l,
		now:        now,
		onReward:   opts.OnReward,
	}
}

func (g *GameActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		g.start(ctx)
		return
	case *actor.Stopping:
		g.shutdown()
		g.state = Stopping
		return
	case *actor.Stopped:
		g.stopLoops()
		g.state = Stopped
		return
	case *actor.Restarting:
		g.stopLoops()
		g.cancelCombo()
		return
	case hostileTick:
		if g.state != Online {
			return
		}
		g.onHostileTick()
	case accrualTick:
		if g.state != Online {
			return
		}
		g.sess.Accrue(g.now(), g.timers.Accrual)
	case saveDue:
		if g.state != Online {
			return
		}
		g.saveNow(tracex.Start(context.Background(), "save"))
	case comboStep:
		if g.state != Online || msg.gen != g.comboGen {
			return
		}
		g.onComboStep()
	default:
		if g.state != Online {
			if g.dispatcher.Knows(msg) {
				ctx.Respond(fail(ErrNotReady))
			}
			return
		}
		resp, handled := g.dispatcher.Dispatch(g, msg)
		if !handled {
			return
		}
		ctx.Respond(resp)
	}
	g.afterMessage()
}

func (g *GameActor) start(ctx actor.Context) {
	g.self = ctx.Self()
	g.root = ctx.ActorSystem().Root
	self, root := g.self, g.root
	g.debounce = dc.NewDebouncer(g.timers.SaveDebounce, g.timers.SaveMaxWait, func() {
		root.Send(self, saveDue{})
	})
	g.startLoop(g.timers.HostileTick, hostileTick{})
	g.startLoop(g.timers.Accrual, accrualTick{})
	g.state = Online
	// 读档后可能已有待结算的变化（离线收益）。
	g.afterMessage()
}

// shutdown 停掉定时器，结算未完成的连锁，并把最后一份快照写出。
func (g *GameActor) shutdown() {
	if g.state != Online {
		return
	}
	g.stopLoops()
	g.cancelCombo()
	if g.debounce != nil {
		g.debounce.Stop()
	}
	now := g.now()
	if g.sess.Chaining() {
		g.sess.ResolveChain(now)
	}
	g.sess.TakeDirty()
	g.dc.Enqueue(g.sess.Snapshot(now))

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := g.dc.Close(ctx); err != nil {
		logx.ReportSysErrorWithLoggerContext(tracex.Start(ctx, "save_close"), g.log, logx.NewSysLog("save_close", err))
	}
}

// afterMessage 把本条消息造成的变化交给防抖与展示层。
func (g *GameActor) afterMessage() {
	if g.sess.TakeDirty() && g.debounce != nil {
		g.debounce.Touch()
	}
	if rewards := g.sess.DrainRewards(); len(rewards) > 0 && g.onReward != nil {
		g.onReward(rewards)
	}
}

func (g *GameActor) onHostileTick() {
	out, ran := g.sess.HostileTick(g.now())
	if !ran || (out.ManaLost == 0 && len(out.Events) == 0) {
		return
	}
	ctx := tracex.Start(context.Background(), "hostile_tick")
	g.log.WithContext(ctx).Info("hostile acted",
		zap.Float64("mana_lost", out.ManaLost),
		zap.Strings("events", out.Events),
	)
}

// startCombo 开始结算连锁：节奏为 0 时一次结算完。
func (g *GameActor) startCombo() {
	g.cancelCombo()
	if g.timers.ComboPacing <= 0 {
		g.sess.ResolveChain(g.now())
		return
	}
	g.scheduleCombo()
}

func (g *GameActor) scheduleCombo() {
	gen := g.comboGen
	self, root := g.self, g.root
	g.comboTimer = time.AfterFunc(g.timers.ComboPacing, func() {
		root.Send(self, comboStep{gen: gen})
	})
}

func (g *GameActor) onComboStep() {
	g.comboTimer = nil
	step, ok := g.sess.StepChain(g.now())
	if ok && step.More {
		g.scheduleCombo()
	}
}

// cancelCombo 让已发出的 comboStep 失效。
func (g *GameActor) cancelCombo() {
	g.comboGen++
	if g.comboTimer != nil {
		g.comboTimer.Stop()
		g.comboTimer = nil
	}
}

// saveNow 立即入队一份快照并清除防抖。
func (g *GameActor) saveNow(ctx context.Context) uint64 {
	if g.debounce != nil {
		g.debounce.Cancel()
	}
	g.sess.TakeDirty()
	v := g.dc.Enqueue(g.sess.Snapshot(g.now()))
	g.log.WithContext(ctx).Debug("snapshot enqueued", zap.Uint64("version", v))
	return v
}

func (g *GameActor) startLoop(every time.Duration, msg any) {
	if every <= 0 {
		return
	}
	stop := make(chan struct{})
	g.tickStops = append(g.tickStops, stop)
	self, root := g.self, g.root

	go func(stop <-chan struct{}) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, msg)
			case <-stop:
				return
			}
		}
	}(stop)
}

func (g *GameActor) stopLoops() {
	for _, stop := range g.tickStops {
		close(stop)
	}
	g.tickStops = nil
}

// report 按错误类型打印 access 与拒绝/错误日志。
func (g *GameActor) report(ctx context.Context, action string, err error) {
	if err == nil {
		logx.ReportAccessWithLoggerContext(ctx, g.log, action, accessOK)
		return
	}
	code := zap.String("error_code", string(errx.CodeOf(err)))
	if errx.IsBiz(err) {
		var e *errx.Error
		errors.As(err, &e)
		reason := e.Reason()
		if reason == "" {
			reason = e.CodeText()
		}
		logx.ReportBizWithLoggerContext(ctx, g.log, logx.NewBizLog(action, reason, e.Msg()))
		logx.ReportAccessWithLoggerContext(ctx, g.log, action, accessBiz, code)
		return
	}
	logx.ReportSysErrorWithLoggerContext(ctx, g.log, logx.NewSysLog(action, err))
	logx.ReportAccessWithLoggerContext(ctx, g.log, action, accessSys, code)
}

func (g *GameActor) State() State { return g.state }

func (g *GameActor) Session() *session.Session { return g.sess }

func (g *GameActor) DC() *dc.SaveDC { return g.dc }
