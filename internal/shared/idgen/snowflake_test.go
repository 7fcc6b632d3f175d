package idgen

import (
	"testing"
	"time"
)

func TestSnowflake_同一毫秒内严格递增(t *testing.T) {
	s, err := NewSnowflake(1)
	if err != nil {
		t.Fatalf("期望创建成功, err=%v", err)
	}
	fixed := time.UnixMilli(1704067200000 + 1000)
	s.now = func() time.Time { return fixed }

	seen := make(map[int64]bool)
	var last int64
	for i := 0; i < 5000; i++ {
		id := s.NextID()
		if seen[id] {
			t.Fatalf("期望 id 唯一, 重复=%d", id)
		}
		if id <= last {
			t.Fatalf("期望 id 递增, last=%d got=%d", last, id)
		}
		seen[id] = true
		last = id
	}
}

func TestSnowflake_节点越界(t *testing.T) {
	if _, err := NewSnowflake(maxNodeID + 1); err == nil {
		t.Fatalf("期望 node id 越界报错")
	}
}

func TestSequence(t *testing.T) {
	s := NewSequence(7)
	if a, b := s.NextID(), s.NextID(); a != 7 || b != 8 {
		t.Fatalf("期望 7,8, got=%d,%d", a, b)
	}
}
