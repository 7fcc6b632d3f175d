package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConf struct {
	Name  string        `mapstructure:"name"`
	Tick  time.Duration `mapstructure:"tick"`
	Inner struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"inner"`
}

func writeConf(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("写配置失败: %v", err)
	}
	return path
}

func TestLoad_解析时长字符串(t *testing.T) {
	path := writeConf(t, "name: mm\ntick: 5s\ninner:\n  level: info\n")
	var c testConf
	if err := Load(path, &c); err != nil {
		t.Fatalf("期望加载成功, err=%v", err)
	}
	if c.Name != "mm" || c.Tick != 5*time.Second || c.Inner.Level != "info" {
		t.Fatalf("期望字段正确解码, got=%+v", c)
	}
}

func TestLoad_环境变量覆盖(t *testing.T) {
	path := writeConf(t, "name: mm\ninner:\n  level: info\n")
	t.Setenv("MANAMERGE_INNER_LEVEL", "debug")
	var c testConf
	if err := Load(path, &c); err != nil {
		t.Fatalf("期望加载成功, err=%v", err)
	}
	if c.Inner.Level != "debug" {
		t.Fatalf("期望环境变量覆盖为 debug, got=%q", c.Inner.Level)
	}
}

func TestLoad_文件不存在返回错误(t *testing.T) {
	var c testConf
	if err := Load(filepath.Join(t.TempDir(), "missing.yml"), &c); err == nil {
		t.Fatalf("期望文件不存在时报错")
	}
}
