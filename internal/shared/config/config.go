package config

import (
	"errors"
	"os"
	"path/filepath"
)

const DefaultConfigRelPath = "configs/conf.yml"

// Load 读取配置到 out。
//
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Load(cfgName string, out any) error {
	return LoadWithOptions(cfgName, out, Options{})
}

func LoadWithOptions(cfgName string, out any, opt Options) error {
	path, err := Resolve(cfgName)
	if err != nil {
		return err
	}
	return load(path, out, opt)
}

// View 在热更新锁保护下读取配置。
func View(fn func()) {
	reloadMu.RLock()
	defer reloadMu.RUnlock()
	fn()
}

// Resolve 返回最终使用的配置文件绝对路径。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName, nil
		}
		return filepath.Join(curDir, cfgName), nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, DefaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("config file not exist, searched configs/conf.yml from: " + startDir)
		}
		dir = parent
	}
}
