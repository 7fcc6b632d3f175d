package synth

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

type Wave int

const (
	WaveSine Wave = iota
	WaveTriangle
	WaveSquare
	WaveSaw
)

// sweep 是频率按指数曲线从 from 滑到 to 的振荡器，滑音时长 glide，之后保持 to。
type sweep struct {
	rate     beep.SampleRate
	wave     Wave
	from, to float64
	glide    int
	total    int
	pos      int
	phase    float64
}

func newSweep(wave Wave, from, to float64, glide, total time.Duration, rate beep.SampleRate) *sweep {
	return &sweep{
		rate:  rate,
		wave:  wave,
		from:  from,
		to:    to,
		glide: rate.N(glide),
		total: rate.N(total),
	}
}

func (s *sweep) freq() float64 {
	if s.glide <= 0 || s.pos >= s.glide || s.from <= 0 || s.to <= 0 {
		return s.to
	}
	t := float64(s.pos) / float64(s.glide)
	return s.from * math.Pow(s.to/s.from, t)
}

func (s *sweep) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		var v float64
		switch s.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * s.phase)
		case WaveTriangle:
			v = 4*math.Abs(s.phase-0.5) - 1
		case WaveSquare:
			if s.phase < 0.5 {
				v = 1
			} else {
				v = -1
			}
		case WaveSaw:
			v = 2 * (s.phase - 0.5)
		}
		samples[i][0] = v
		samples[i][1] = v

		s.phase += s.freq() / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// decay 把增益从 start 指数衰减到 end（时长 total）。
type decay struct {
	src        beep.Streamer
	start, end float64
	total      int
	pos        int
}

func newDecay(src beep.Streamer, start, end float64, total time.Duration, rate beep.SampleRate) *decay {
	return &decay{src: src, start: start, end: end, total: rate.N(total)}
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.src.Stream(samples)
	for i := 0; i < n; i++ {
		g := d.end
		if d.total > 0 && d.pos < d.total {
			g = d.start * math.Pow(d.end/d.start, float64(d.pos)/float64(d.total))
		}
		samples[i][0] *= g
		samples[i][1] *= g
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error { return d.src.Err() }

// Tone 描述一个单音：波形、滑音起止频率、时长和起止增益。
type Tone struct {
	Wave      Wave
	From, To  float64
	Glide     time.Duration
	Duration  time.Duration
	GainStart float64
	GainEnd   float64
	// Delay 是相对提示音开始的延迟。
	Delay time.Duration
}

func (t Tone) streamer(rate beep.SampleRate) beep.Streamer {
	osc := newSweep(t.Wave, t.From, t.To, t.Glide, t.Duration, rate)
	voice := beep.Streamer(newDecay(osc, t.GainStart, t.GainEnd, t.Duration, rate))
	if t.Delay > 0 {
		voice = beep.Seq(beep.Silence(rate.N(t.Delay)), voice)
	}
	return voice
}

// volume 的 0 需要单独处理：log2(0) 为 -Inf。
func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}
