package balance

import (
	"strings"
	"testing"
	"time"
)

func TestDefault_内置表合法(t *testing.T) {
	b := Default()
	if b.Board.Width != 5 || b.Board.Height != 5 || b.Board.MaxTier != 10 {
		t.Fatalf("期望 5x5 棋盘、最高 10 阶, got=%+v", b.Board)
	}
	if b.MaxLuckLevel() != 5 {
		t.Fatalf("期望 5 级幸运表, got=%d", b.MaxLuckLevel())
	}
	if b.Boost.Duration != 300*time.Second || b.Boost.Multiplier != 2 {
		t.Fatalf("期望 boost x2 持续 300s, got=%+v", b.Boost)
	}
	if r, ok := b.Region("sky"); !ok || !r.TimeOfDay {
		t.Fatalf("期望 sky 区域使用昼夜倍率, got=%+v ok=%v", r, ok)
	}
	if c, ok := b.Consumable("elixir"); !ok || !c.Gated {
		t.Fatalf("期望 elixir 为门控道具, got=%+v", c)
	}
}

func TestValidate_幸运表行和不为1(t *testing.T) {
	raw := strings.Replace(string(defaultYAML), "[0.75, 0.20, 0.05]", "[0.75, 0.20, 0.10]", 1)
	if _, err := Parse([]byte(raw)); err == nil || !strings.Contains(err.Error(), "luck[0]") {
		t.Fatalf("期望 luck[0] 校验失败, err=%v", err)
	}
}

func TestValidate_攻击档位必须递增(t *testing.T) {
	raw := strings.Replace(string(defaultYAML), "{ min_tier: 5, shape: cross2 }", "{ min_tier: 3, shape: cross2 }", 1)
	if _, err := Parse([]byte(raw)); err == nil || !strings.Contains(err.Error(), "attack_bands[2]") {
		t.Fatalf("期望 attack_bands[2] 校验失败, err=%v", err)
	}
}

func TestLoad_空路径使用内置表(t *testing.T) {
	b, err := Load("")
	if err != nil || b == nil {
		t.Fatalf("期望使用内置表, err=%v", err)
	}
}
