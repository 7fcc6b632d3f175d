package errx

import (
	"errors"
	"testing"
)

func TestError_Is_只按code比较语义(t *testing.T) {
	e1 := NewBiz("GAME_X", "x").WithData("k", "v").WithCause(errors.New("cause1"))
	e2 := NewBiz("GAME_X", "x2").WithData("k2", "v2")
	if !errors.Is(e1, e2) {
		t.Fatalf("期望 errors.Is(e1, e2)==true，e1=%v e2=%v", e1, e2)
	}
}

func TestError_业务错误不捕获栈_但保留cause链(t *testing.T) {
	cause := errors.New("board full")
	err := NewBiz("GAME_BOARD_FULL", "棋盘已满").WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("期望业务错误不捕获栈，got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望 cause 链不丢，err=%v", err)
	}
	if !IsBiz(err) {
		t.Fatalf("期望 IsBiz==true")
	}
}

func TestError_系统错误捕获一次栈_且不重复捕获(t *testing.T) {
	sys := NewSys("SYS_STORE", "存储不可用").WithCause(errors.New("disk I/O error"))
	if got := sys.Stack(); len(got) == 0 {
		t.Fatalf("期望系统错误捕获栈")
	}
	sys2 := NewSys("SYS_SAVE", "保存失败").WithCause(sys)
	if got := sys2.Stack(); got != nil {
		t.Fatalf("期望上层系统错误不重复捕获栈，got=%v", got)
	}
	if IsBiz(sys2) {
		t.Fatalf("期望系统错误 IsBiz==false")
	}
}

func TestError_WithData_不污染原哨兵(t *testing.T) {
	base := NewBiz("GAME_X", "")
	derived := base.WithData("need", 100)
	if base.Data() != nil {
		t.Fatalf("期望哨兵错误 data 保持为空，got=%v", base.Data())
	}
	if derived.Data()["need"] != 100 {
		t.Fatalf("期望派生错误携带 need=100，got=%v", derived.Data())
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(nil); got != "" {
		t.Fatalf("期望 nil 错误码为空，got=%q", got)
	}
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Fatalf("期望非 errx 错误归为 INTERNAL_ERROR，got=%q", got)
	}
	if got := CodeOf(ErrCorrupt.WithData("key", "mm:v2:mana")); got != CodeCorrupt {
		t.Fatalf("期望 DATA_CORRUPT，got=%q", got)
	}
}
