package synth

import (
	"sync"

	"github.com/gopxl/beep"

	"ManaMerge/internal/feedback"
	"ManaMerge/internal/shared/appconfig"
)

const maxPitch = 4.0

// Output 播放合成好的 streamer；实现不能阻塞调用方。
type Output interface {
	Play(s beep.Streamer)
}

// Sink 按提示音名合成声音并交给 Output。
type Sink struct {
	rate beep.SampleRate
	out  Output

	mu     sync.RWMutex
	volume float64
}

var _ feedback.Sink = (*Sink)(nil)

func NewSink(cfg appconfig.AudioConfig, out Output) *Sink {
	rate := beep.SampleRate(cfg.SampleRate)
	if rate <= 0 {
		rate = 44100
	}
	return &Sink{rate: rate, volume: min(max(cfg.Volume, 0), 1), out: out}
}

func (s *Sink) SampleRate() beep.SampleRate { return s.rate }

// SetVolume 调整主音量，0 为静音。
func (s *Sink) SetVolume(v float64) {
	s.mu.Lock()
	s.volume = min(max(v, 0), 1)
	s.mu.Unlock()
}

func (s *Sink) Volume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

func (s *Sink) PlayCue(cue feedback.Cue, intensity float64) {
	vol := s.Volume()
	if s.out == nil || vol <= 0 {
		return
	}
	st := Build(cue, min(max(intensity, 0.1), maxPitch), vol, s.rate)
	if st == nil {
		return
	}
	s.out.Play(st)
}
