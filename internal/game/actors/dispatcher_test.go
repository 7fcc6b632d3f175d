package actors

import "testing"

func TestDispatcher_全部意图已注册(t *testing.T) {
	d := NewDispatcher()
	msgs := []any{
		&MoveRequest{}, &BeginDragRequest{}, &EndDragRequest{}, &SummonRequest{}, &PurgeRequest{}, &PurgeDropRequest{}, &ShuffleRequest{},
		&UseItemRequest{}, &BuyItemRequest{}, &BuyUpgradeRequest{}, &UnlockRegionRequest{},
		&SwitchRegionRequest{}, &ResetRequest{}, &ViewRequest{}, &FlushRequest{},
	}
	for _, m := range msgs {
		if !d.Knows(m) {
			t.Fatalf("期望 %T 已注册", m)
		}
	}
	if d.Knows(MoveRequest{}) || d.Knows(hostileTick{}) {
		t.Fatalf("期望值类型与内部消息不走分发")
	}
}

func TestDispatcher_nil请求被拒绝(t *testing.T) {
	d := NewDispatcher()
	var req *SummonRequest
	resp, handled := d.Dispatch(&GameActor{}, req)
	if !handled || resp.Err == nil {
		t.Fatalf("期望 nil 请求返回错误, resp=%+v", resp)
	}
}
