package synth

import (
	"math"
	"testing"

	"github.com/gopxl/beep"

	"ManaMerge/internal/feedback"
	"ManaMerge/internal/shared/appconfig"
)

const testRate = beep.SampleRate(8000)

type captureOutput struct {
	played []beep.Streamer
}

func (c *captureOutput) Play(s beep.Streamer) { c.played = append(c.played, s) }

func peak(samples [][2]float64) float64 {
	p := 0.0
	for _, s := range samples {
		p = math.Max(p, math.Abs(s[0]))
	}
	return p
}

// zeroCrossings 粗略估计频率。
func zeroCrossings(samples [][2]float64) int {
	n := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1][0] < 0) != (samples[i][0] < 0) {
			n++
		}
	}
	return n
}

func TestBuild_所有提示音都能合成(t *testing.T) {
	for _, cue := range feedback.Cues {
		s := Build(cue, 1, 1, testRate)
		if s == nil {
			t.Fatalf("期望 %s 可合成", cue)
		}
		out := Render(s)
		if len(out) == 0 {
			t.Fatalf("期望 %s 有采样", cue)
		}
		if p := peak(out); p <= 0 || p > 1 {
			t.Fatalf("期望 %s 峰值在 (0,1], got=%f", cue, p)
		}
	}
	if Build("unknown", 1, 1, testRate) != nil {
		t.Fatalf("期望未知提示音返回 nil")
	}
}

func TestBuild_时长符合音色(t *testing.T) {
	out := Render(Build(feedback.CueMerge, 1, 1, testRate))
	if want := testRate.N(300 * ms); len(out) != want {
		t.Fatalf("期望 merge 采样数 %d, got=%d", want, len(out))
	}
	// shuffle 三个音依次错开 50ms，总长 150ms。
	out = Render(Build(feedback.CueShuffle, 1, 1, testRate))
	if want := testRate.N(150 * ms); len(out) != want {
		t.Fatalf("期望 shuffle 采样数 %d, got=%d", want, len(out))
	}
}

func TestBuild_音高随倍率升高(t *testing.T) {
	low := zeroCrossings(Render(Build(feedback.CueMerge, 1, 1, testRate)))
	high := zeroCrossings(Render(Build(feedback.CueMerge, 2, 1, testRate)))
	if high <= low {
		t.Fatalf("期望倍率 2 的过零次数更多, low=%d high=%d", low, high)
	}
}

func TestSink_静音或无输出时不播放(t *testing.T) {
	out := &captureOutput{}
	NewSink(appconfig.AudioConfig{SampleRate: 8000, Volume: 0}, out).PlayCue(feedback.CueMerge, 1)
	if len(out.played) != 0 {
		t.Fatalf("期望音量 0 时不播放")
	}
	NewSink(appconfig.AudioConfig{SampleRate: 8000, Volume: 0.5}, nil).PlayCue(feedback.CueMerge, 1)

	s := NewSink(appconfig.AudioConfig{SampleRate: 8000, Volume: 0.5}, out)
	s.PlayCue(feedback.CuePurge, 1)
	s.PlayCue("unknown", 1)
	if len(out.played) != 1 {
		t.Fatalf("期望只播放 1 次, got=%d", len(out.played))
	}
	if p := peak(Render(out.played[0])); p > 0.5*0.3+1e-9 {
		t.Fatalf("期望音量被缩放, peak=%f", p)
	}
}

func TestSink_热更新音量(t *testing.T) {
	out := &captureOutput{}
	s := NewSink(appconfig.AudioConfig{SampleRate: 8000, Volume: 0.5}, out)
	s.SetVolume(0)
	s.PlayCue(feedback.CueButton, 1)
	if len(out.played) != 0 {
		t.Fatalf("期望静音后不播放")
	}
	s.SetVolume(7)
	if s.Volume() != 1 {
		t.Fatalf("期望音量被夹到 1, got=%v", s.Volume())
	}
	s.PlayCue(feedback.CueButton, 1)
	if len(out.played) != 1 {
		t.Fatalf("期望恢复播放")
	}
}
