package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestStart_沿用已有trace并标记action(t *testing.T) {
	ctx := Start(WithTraceID(context.Background(), "keep"), "hostile_tick")
	if got, _ := TraceIDFrom(ctx); got != "keep" {
		t.Fatalf("期望沿用已有 trace_id, got=%q", got)
	}
	if got, ok := ActionFrom(ctx); !ok || got != "hostile_tick" {
		t.Fatalf("期望 action=hostile_tick, got=%q", got)
	}

	fresh := Start(context.Background(), "move")
	if got, ok := TraceIDFrom(fresh); !ok || len(got) != 16 {
		t.Fatalf("期望新建 16 位 hex trace_id, got=%q", got)
	}
}
