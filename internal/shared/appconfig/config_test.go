package appconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_缺省字段回填默认值(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yml")
	body := "storage:\n  driver: Memory\ntimers:\n  hostile_tick: 2s\n  combo_pacing: 0s\naudio:\n  volume: 3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("写配置失败: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("期望加载成功, err=%v", err)
	}
	if c.Storage.Driver != DriverMemory {
		t.Fatalf("期望 driver 归一为 memory, got=%q", c.Storage.Driver)
	}
	if c.Timers.HostileTick != 2*time.Second || c.Timers.Accrual != time.Second {
		t.Fatalf("期望 hostile_tick=2s accrual=1s, got=%+v", c.Timers)
	}
	if c.Timers.ComboPacing != 0 {
		t.Fatalf("期望 combo_pacing 允许为 0, got=%v", c.Timers.ComboPacing)
	}
	if c.Audio.Volume != 1 {
		t.Fatalf("期望音量被夹到 1, got=%v", c.Audio.Volume)
	}
	if c.Game.Slot != "default" {
		t.Fatalf("期望默认存档槽 default, got=%q", c.Game.Slot)
	}
}

func TestWatch_首次加载并归一(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yml")
	if err := os.WriteFile(path, []byte("audio:\n  volume: -1\n"), 0o644); err != nil {
		t.Fatalf("写配置失败: %v", err)
	}
	c, err := Watch(path, func(Config) {})
	if err != nil {
		t.Fatalf("期望加载成功, err=%v", err)
	}
	if c.Audio.Volume != 0 || c.Storage.Driver != DriverSQLite {
		t.Fatalf("期望音量夹到 0 且使用默认 driver, got=%+v", c)
	}
}
