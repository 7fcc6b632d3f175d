package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix 是环境变量覆盖前缀，例如 MANAMERGE_STORAGE_DRIVER=memory。
const EnvPrefix = "MANAMERGE"

// Options 控制一次加载的行为。
type Options struct {
	// Watch 为 true 时监听文件变更并重新解码到 out。
	Watch bool
	// OnChange 在热更新成功解码后回调（在 fsnotify 的 goroutine 里执行）。
	OnChange func()
}

// 热更新与读取方共享的锁：Snapshot 读取时持有读锁。
var reloadMu sync.RWMutex

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

func load(configPath string, out any, opt Options) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", configPath, err)
	}
	if err := bindEnvKeys(v); err != nil {
		return err
	}
	if err := v.Unmarshal(out, decodeHook()); err != nil {
		return fmt.Errorf("unmarshal config %s: %w", configPath, err)
	}

	if opt.Watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Println("配置文件变更:", e.Name)
			reloadMu.Lock()
			err := v.Unmarshal(out, decodeHook())
			reloadMu.Unlock()
			if err != nil {
				log.Printf("viper unmarshal change config data: err=%v\n", err)
				return
			}
			if opt.OnChange != nil {
				opt.OnChange()
			}
		})
		v.WatchConfig()
	}
	return nil
}

// AutomaticEnv 只对 viper 已知的 key 生效，这里把文件里出现过的 key 都显式绑定一次。
func bindEnvKeys(v *viper.Viper) error {
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
