package logbook

import (
	"fmt"
	"testing"
	"time"
)

func TestBook_最新在前且有上限(t *testing.T) {
	b := New(3)
	now := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		b.Add(SeverityInfo, fmt.Sprintf("e%d", i), now.Add(time.Duration(i)*time.Second))
	}
	got := b.Entries()
	if len(got) != 3 {
		t.Fatalf("期望保留 3 条, got=%d", len(got))
	}
	if got[0].Text != "e4" || got[2].Text != "e2" {
		t.Fatalf("期望 e4,e3,e2, got=%v", got)
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Fatalf("期望 id 唯一且非空")
	}
}

func TestBook_默认容量与清空(t *testing.T) {
	b := New(0)
	if b.Cap() != DefaultCapacity {
		t.Fatalf("期望默认容量 %d, got=%d", DefaultCapacity, b.Cap())
	}
	b.Add(SeverityDanger, "x", time.Now())
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("期望清空")
	}
}
