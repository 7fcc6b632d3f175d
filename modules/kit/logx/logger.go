package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是模拟核心使用的最小日志接口。
//
// 约束：
// - 只承载结构化字段 + ctx 透传（trace_id / action 等）
// - 纯函数层（board/match/hostile/economy）不依赖它，只有编排层打印日志
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	WithContext(ctx context.Context) Logger
}

type nopLogger struct{}

func (nopLogger) Info(string, ...zap.Field)            {}
func (nopLogger) Error(string, ...zap.Field)           {}
func (nopLogger) Debug(string, ...zap.Field)           {}
func (nopLogger) Warn(string, ...zap.Field)            {}
func (n nopLogger) WithContext(context.Context) Logger { return n }

// Nop 返回丢弃所有输出的 Logger，便于测试和未注入日志时兜底。
func Nop() Logger {
	return nopLogger{}
}

// OrNop 在 l 为 nil 时返回 Nop。
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}
