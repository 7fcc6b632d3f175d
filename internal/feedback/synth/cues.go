package synth

import (
	"time"

	"github.com/gopxl/beep"

	"ManaMerge/internal/feedback"
)

const ms = time.Millisecond

// Tones 返回某个提示音的音色组成，pitch 缩放所有频率。未知提示音返回 nil。
func Tones(cue feedback.Cue, pitch float64) []Tone {
	if pitch <= 0 {
		pitch = 1
	}
	switch cue {
	case feedback.CueMerge:
		return []Tone{{Wave: WaveSine, From: 440 * pitch, To: 880 * pitch, Glide: 100 * ms, Duration: 300 * ms, GainStart: 0.3, GainEnd: 0.01}}
	case feedback.CuePop:
		return []Tone{{Wave: WaveTriangle, From: 300 * pitch, To: 50 * pitch, Glide: 100 * ms, Duration: 100 * ms, GainStart: 0.3, GainEnd: 0.01}}
	case feedback.CueButton:
		return []Tone{{Wave: WaveSine, From: 880 * pitch, To: 440 * pitch, Glide: 50 * ms, Duration: 50 * ms, GainStart: 0.2, GainEnd: 0.01}}
	case feedback.CueShuffle:
		out := make([]Tone, 0, 3)
		for i := 0; i < 3; i++ {
			out = append(out, Tone{
				Wave: WaveSquare, From: (200 + float64(i)*100) * pitch, To: 100 * pitch,
				Glide: 50 * ms, Duration: 50 * ms, GainStart: 0.1, GainEnd: 0.01,
				Delay: time.Duration(i) * 50 * ms,
			})
		}
		return out
	case feedback.CuePurge:
		return []Tone{{Wave: WaveSaw, From: 150 * pitch, To: 40 * pitch, Glide: 200 * ms, Duration: 200 * ms, GainStart: 0.3, GainEnd: 0.01}}
	case feedback.CueAlarm:
		return []Tone{
			{Wave: WaveSquare, From: 660 * pitch, To: 660 * pitch, Duration: 120 * ms, GainStart: 0.15, GainEnd: 0.05},
			{Wave: WaveSquare, From: 520 * pitch, To: 520 * pitch, Duration: 120 * ms, GainStart: 0.15, GainEnd: 0.01, Delay: 140 * ms},
		}
	default:
		return nil
	}
}

// Build 把提示音合成为一个有限长度的 streamer。
func Build(cue feedback.Cue, pitch, vol float64, rate beep.SampleRate) beep.Streamer {
	tones := Tones(cue, pitch)
	if len(tones) == 0 {
		return nil
	}
	voices := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		voices = append(voices, t.streamer(rate))
	}
	return volume(beep.Mix(voices...), vol)
}

// Render 把 streamer 读完，返回全部采样。
func Render(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}
