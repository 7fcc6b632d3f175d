package appconfig

import "time"

type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Timers  TimerConfig   `yaml:"timers" mapstructure:"timers"`
	Audio   AudioConfig   `yaml:"audio" mapstructure:"audio"`
	Game    GameConfig    `yaml:"game" mapstructure:"game"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// StorageConfig 选择存档后端：memory / sqlite / mysql / mongodb。
type StorageConfig struct {
	Driver  string        `yaml:"driver" mapstructure:"driver"`
	SQLite  SQLiteConfig  `yaml:"sqlite" mapstructure:"sqlite"`
	MySQL   MySQLConfig   `yaml:"mysql" mapstructure:"mysql"`
	MongoDB MongoDBConfig `yaml:"mongodb" mapstructure:"mongodb"`
}

type SQLiteConfig struct {
	Path        string        `yaml:"path" mapstructure:"path"`
	BusyTimeout time.Duration `yaml:"busy_timeout" mapstructure:"busy_timeout"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	Collection      string `yaml:"collection" mapstructure:"collection"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

// TimerConfig 是 actor 内部各定时器的周期。
type TimerConfig struct {
	HostileTick  time.Duration `yaml:"hostile_tick" mapstructure:"hostile_tick"`
	Accrual      time.Duration `yaml:"accrual" mapstructure:"accrual"`
	SaveDebounce time.Duration `yaml:"save_debounce" mapstructure:"save_debounce"`
	SaveMaxWait  time.Duration `yaml:"save_max_wait" mapstructure:"save_max_wait"`
	ComboPacing  time.Duration `yaml:"combo_pacing" mapstructure:"combo_pacing"`
}

type AudioConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	SampleRate int     `yaml:"sample_rate" mapstructure:"sample_rate"`
	Volume     float64 `yaml:"volume" mapstructure:"volume"` // 0..1
}

type GameConfig struct {
	// Slot 区分同一个存储里的多个存档，作为 key 前缀的一部分。
	Slot string `yaml:"slot" mapstructure:"slot"`
	// Balance 为空时使用内置 balance.yaml。
	Balance string `yaml:"balance" mapstructure:"balance"`
	Seed    int64  `yaml:"seed" mapstructure:"seed"`
}
