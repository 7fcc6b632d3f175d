package appconfig

import (
	"strings"
	"time"

	"ManaMerge/internal/shared/config"
)

const (
	DriverMemory  = "memory"
	DriverSQLite  = "sqlite"
	DriverMySQL   = "mysql"
	DriverMongoDB = "mongodb"
)

// Default 返回未配置时使用的值。
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", MaxSize: 64, MaxBackups: 3, MaxAge: 7},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			SQLite: SQLiteConfig{Path: "data/manamerge.db", BusyTimeout: 5 * time.Second},
			MongoDB: MongoDBConfig{
				Database:        "manamerge",
				Collection:      "saves",
				ConnectTimeoutS: 3,
			},
		},
		Timers: TimerConfig{
			HostileTick:  5 * time.Second,
			Accrual:      time.Second,
			SaveDebounce: time.Second,
			SaveMaxWait:  10 * time.Second,
			ComboPacing:  250 * time.Millisecond,
		},
		Audio: AudioConfig{Enabled: false, SampleRate: 44100, Volume: 0.6},
		Game:  GameConfig{Slot: "default"},
	}
}

// Load 从 cfgName（为空则向上查找 configs/conf.yml）加载，缺省字段回填默认值。
func Load(cfgName string) (Config, error) {
	c := Default()
	if err := config.Load(cfgName, &c); err != nil {
		return Config{}, err
	}
	c.normalize()
	return c, nil
}

func (c *Config) normalize() {
	d := Default()
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = d.Storage.Driver
	}
	if c.Timers.HostileTick <= 0 {
		c.Timers.HostileTick = d.Timers.HostileTick
	}
	if c.Timers.Accrual <= 0 {
		c.Timers.Accrual = d.Timers.Accrual
	}
	if c.Timers.SaveDebounce <= 0 {
		c.Timers.SaveDebounce = d.Timers.SaveDebounce
	}
	if c.Timers.SaveMaxWait < c.Timers.SaveDebounce {
		c.Timers.SaveMaxWait = 10 * c.Timers.SaveDebounce
	}
	// pacing 允许为 0（立即结算整条连锁）。
	if c.Timers.ComboPacing < 0 {
		c.Timers.ComboPacing = 0
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = d.Audio.SampleRate
	}
	c.Audio.Volume = min(1, max(0, c.Audio.Volume))
	if c.Game.Slot == "" {
		c.Game.Slot = d.Game.Slot
	}
}

// Watch 加载配置并在文件变更时回调 onChange（在 fsnotify 的 goroutine 里执行）。
// 只有音量这类无状态的设置适合热更新，存储与定时器仍以启动时为准。
func Watch(cfgName string, onChange func(Config)) (Config, error) {
	c := Default()
	err := config.LoadWithOptions(cfgName, &c, config.Options{
		Watch: true,
		OnChange: func() {
			var next Config
			config.View(func() { next = c })
			next.normalize()
			onChange(next)
		},
	})
	if err != nil {
		return Config{}, err
	}
	var out Config
	config.View(func() { out = c })
	out.normalize()
	return out, nil
}
