package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"ManaMerge/internal/persistence"
	"ManaMerge/internal/persistence/infra"
	"ManaMerge/internal/shared/appconfig"
	"ManaMerge/internal/shared/gameconfig/balance"
	"ManaMerge/internal/shared/idgen"
	"ManaMerge/internal/shared/logs"
	"ManaMerge/modules/kit/logx"
)

const usage = `usage: savetool [flags] <command>

commands:
  check     逐条校验存档记录
  export    以 YAML 打印读档结果
  keys      列出当前槽位的全部 key
  migrate   读档一次（旧格式会被迁移并删除）
  wipe      删除当前槽位的全部记录（需要 -yes）

flags:
`

func main() {
	fs := flag.NewFlagSet("savetool", flag.ExitOnError)
	cfgPath := fs.String("config", "", "配置文件路径，为空时向上查找 configs/conf.yml")
	slot := fs.String("slot", "", "存档槽，为空时使用配置里的 game.slot")
	yes := fs.Bool("yes", false, "确认执行 wipe")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	conf, err := appconfig.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	conf.Log.FileDir = ""
	if err := logs.Init("savetool", conf.Log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logs.Sync()
	if *slot != "" {
		conf.Game.Slot = *slot
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, conf, fs.Arg(0), *yes, os.Stdout); err != nil {
		logs.Error("savetool failed", zap.String("command", fs.Arg(0)), zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, conf appconfig.Config, cmd string, yes bool, out io.Writer) error {
	bal, err := balance.Load(conf.Game.Balance)
	if err != nil {
		return err
	}
	opened, err := infra.Open(conf.Storage, logs.Logger())
	if err != nil {
		return err
	}
	defer func() { _ = opened.Close(context.Background()) }()

	keys := persistence.NewKeys(conf.Game.Slot)
	repo, err := persistence.NewRepository(opened.Store, keys, bal, idgen.NewSequence(1), logx.NewZapLogger(logs.Logger()))
	if err != nil {
		return err
	}
	t := &tool{repo: repo, store: opened.Store, keys: keys, out: out}
	return t.exec(ctx, cmd, yes)
}

var errUnknownCommand = errors.New("unknown command")

func (t *tool) exec(ctx context.Context, cmd string, yes bool) error {
	switch cmd {
	case "check":
		return t.check(ctx)
	case "export":
		return t.export(ctx)
	case "keys":
		return t.listKeys(ctx)
	case "migrate":
		return t.migrate(ctx)
	case "wipe":
		if !yes {
			return errors.New("wipe needs -yes")
		}
		return t.wipe(ctx)
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, cmd)
	}
}
