package main

import (
	"context"
	"flag"
	"math/rand"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gopxl/beep"
	"go.uber.org/zap"

	"ManaMerge/internal/feedback"
	"ManaMerge/internal/feedback/speaker"
	"ManaMerge/internal/feedback/synth"
	gameactor "ManaMerge/internal/game/actor"
	"ManaMerge/internal/game/actors"
	"ManaMerge/internal/game/session"
	"ManaMerge/internal/persistence"
	"ManaMerge/internal/persistence/infra"
	"ManaMerge/internal/shared/appconfig"
	"ManaMerge/internal/shared/gameconfig/balance"
	"ManaMerge/internal/shared/idgen"
	"ManaMerge/internal/shared/logs"
	"ManaMerge/modules/kit/logx"
)

// 当前生效的合成器，配置热更新时调整音量。
var activeSynth atomic.Pointer[synth.Sink]

func main() {
	cfgPath := flag.String("config", "", "配置文件路径，为空时向上查找 configs/conf.yml")
	statusEvery := flag.Duration("status", 30*time.Second, "状态日志间隔，0 表示关闭")
	flag.Parse()

	conf, err := appconfig.Watch(*cfgPath, func(c appconfig.Config) {
		if s := activeSynth.Load(); s != nil {
			s.SetVolume(c.Audio.Volume)
			logs.Info("audio volume reloaded", zap.Float64("volume", c.Audio.Volume))
		}
	})
	if err != nil {
		panic(err)
	}
	if err := logs.Init("game", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", conf))
	logger := logs.Logger()

	bal, err := balance.Load(conf.Game.Balance)
	if err != nil {
		logs.Fatal("load balance failed", zap.Error(err))
	}
	ids, err := idgen.NewSnowflake(1)
	if err != nil {
		logs.Fatal("init id generator failed", zap.Error(err))
	}

	opened, err := infra.Open(conf.Storage, logger)
	if err != nil {
		logs.Fatal("open storage failed", zap.String("driver", conf.Storage.Driver), zap.Error(err))
	}
	defer func() {
		if err := opened.Close(context.Background()); err != nil {
			logs.Error("close storage failed", zap.Error(err))
		}
	}()

	log := logx.NewZapLogger(logger)
	repo, err := persistence.NewRepository(opened.Store, persistence.NewKeys(conf.Game.Slot), bal, ids, log.Named("persistence"))
	if err != nil {
		logs.Fatal("init repository failed", zap.Error(err))
	}

	sink, closeAudio := openAudio(conf.Audio)
	defer closeAudio()

	seed := conf.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sess, err := session.New(bal, session.Deps{Sink: sink, Rand: rand.New(rand.NewSource(seed)), IDs: ids})
	if err != nil {
		logs.Fatal("init session failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loaded, err := repo.Load(ctx)
	if err != nil {
		logs.Fatal("load save failed", zap.Error(err))
	}
	now := time.Now()
	sess.Restore(loaded, now)
	report := sess.GrantOffline(loaded, now)
	if loaded != nil {
		logs.Info("save loaded",
			zap.String("slot", conf.Game.Slot),
			zap.Bool("migrated", loaded.Migrated),
			zap.Strings("fallbacks", loaded.Fallbacks),
			zap.Duration("offline", report.Effective),
			zap.Float64("offline_reward", report.Reward),
		)
	} else {
		logs.Info("no save found, starting fresh", zap.String("slot", conf.Game.Slot))
	}

	rt := gameactor.NewRuntime(sess, repo, actors.Options{
		Timers: conf.Timers,
		Logger: log.Named("actor"),
		OnReward: func(events []session.RewardEvent) {
			for _, ev := range events {
				logs.Debug("reward", zap.String("region", string(ev.Region)), zap.String("at", ev.At.String()), zap.String("label", ev.Label))
			}
		},
	}, 0)
	logs.Info("game started", zap.String("driver", conf.Storage.Driver), zap.Int64("seed", seed))

	if *statusEvery > 0 {
		go reportStatus(ctx, rt, *statusEvery)
	}

	<-ctx.Done()
	logs.Info("收到退出信号，准备优雅退出")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rt.Shutdown(shutdownCtx); err != nil {
		logs.Error("runtime shutdown failed", zap.Error(err))
	}
}

// openAudio 声卡不可用时退回静音，不影响模拟。
func openAudio(cfg appconfig.AudioConfig) (feedback.Sink, func()) {
	if !cfg.Enabled {
		return feedback.Nop(), func() {}
	}
	out, err := speaker.Open(beep.SampleRate(cfg.SampleRate), 100*time.Millisecond)
	if err != nil {
		logs.Warn("audio unavailable, running muted", zap.Error(err))
		return feedback.Nop(), func() {}
	}
	s := synth.NewSink(cfg, out)
	activeSynth.Store(s)
	return s, out.Close
}

func reportStatus(ctx context.Context, rt *gameactor.Runtime, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v, err := rt.View(ctx)
			if err != nil {
				logs.Warn("status view failed", zap.Error(err))
				continue
			}
			logs.Info("status",
				zap.String("region", string(v.Active)),
				zap.Float64("mana", v.Mana),
				zap.Float64("rate", v.Rate),
				zap.Float64("multiplier", v.Multiplier),
				zap.Int("defeats", v.Defeats),
				zap.Bool("night", v.Night),
			)
		}
	}
}
