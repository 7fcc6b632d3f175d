package speaker

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Output 把 streamer 混入常驻 mixer，由声卡播放。
type Output struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	inited bool
}

// Open 初始化声卡。失败时调用方应退回到 feedback.Nop。
func Open(rate beep.SampleRate, buffer time.Duration) (*Output, error) {
	if buffer <= 0 {
		buffer = 100 * time.Millisecond
	}
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return nil, err
	}
	o := &Output{mixer: &beep.Mixer{}, inited: true}
	speaker.Play(o.mixer)
	return o, nil
}

func (o *Output) Play(s beep.Streamer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.inited {
		return
	}
	speaker.Lock()
	o.mixer.Add(s)
	speaker.Unlock()
}

func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.inited {
		return
	}
	o.inited = false
	speaker.Clear()
	speaker.Close()
}
