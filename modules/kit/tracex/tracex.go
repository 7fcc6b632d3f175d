package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type traceIDKey struct{}
type actionKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(traceIDKey{}).(string)
	return s, ok && s != ""
}

// WithAction 标记当前处理的意图或定时任务名（move / hostile_tick / save ...）。
func WithAction(ctx context.Context, action string) context.Context {
	return context.WithValue(ctx, actionKey{}, action)
}

func ActionFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(actionKey{}).(string)
	return s, ok && s != ""
}

// NewTraceID 生成 8 字节随机 trace_id（hex）。单机模拟不需要 16 字节。
func NewTraceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}

// Start 为一次意图/定时任务生成上下文：沿用已有 trace_id，否则新建。
func Start(ctx context.Context, action string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := TraceIDFrom(ctx); !ok {
		ctx = WithTraceID(ctx, NewTraceID())
	}
	return WithAction(ctx, action)
}
