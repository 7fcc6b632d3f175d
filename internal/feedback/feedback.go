package feedback

import "sync"

// Cue 是核心请求播放的提示音名，播放方式由宿主决定。
type Cue string

const (
	CueMerge   Cue = "merge"
	CuePop     Cue = "pop"
	CueButton  Cue = "button"
	CueShuffle Cue = "shuffle"
	CuePurge   Cue = "purge"
	CueAlarm   Cue = "alarm"
)

var Cues = []Cue{CueMerge, CuePop, CueButton, CueShuffle, CuePurge, CueAlarm}

// Sink 接收提示音请求。intensity 是音高/强度倍率，1 为基准。
// 实现必须不阻塞调用方。
type Sink interface {
	PlayCue(cue Cue, intensity float64)
}

type nop struct{}

func (nop) PlayCue(Cue, float64) {}

// Nop 丢弃所有请求。
func Nop() Sink { return nop{} }

// OrNop 在 s 为 nil 时返回 Nop。
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop()
	}
	return s
}

// Call 是一次被记录的请求。
type Call struct {
	Cue       Cue
	Intensity float64
}

// Recorder 记录所有请求，供测试与无声运行时的日志使用。
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

func (r *Recorder) PlayCue(cue Cue, intensity float64) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Cue: cue, Intensity: intensity})
	r.mu.Unlock()
}

func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Count 返回某个提示音被请求的次数。
func (r *Recorder) Count(cue Cue) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Cue == cue {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

// Tee 把请求同时转给多个 Sink。
type Tee []Sink

func (t Tee) PlayCue(cue Cue, intensity float64) {
	for _, s := range t {
		if s != nil {
			s.PlayCue(cue, intensity)
		}
	}
}
