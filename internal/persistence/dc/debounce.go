package dc

import (
	"sync"
	"time"
)

// Debouncer 合并连续的变更通知：静默 quiet 之后触发一次 onDue；
// 持续变更时最迟 maxWait 触发一次，maxWait 为 0 表示不设上限。
type Debouncer struct {
	quiet   time.Duration
	maxWait time.Duration
	onDue   func()

	mu      sync.Mutex
	timer   *time.Timer
	first   time.Time
	gen     uint64
	stopped bool
	now     func() time.Time
}

func NewDebouncer(quiet, maxWait time.Duration, onDue func()) *Debouncer {
	return &Debouncer{quiet: quiet, maxWait: maxWait, onDue: onDue, now: time.Now}
}

// Touch 记录一次变更并重启静默计时。
func (d *Debouncer) Touch() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	now := d.now()
	if d.timer == nil {
		d.first = now
	} else {
		d.timer.Stop()
	}
	wait := d.quiet
	if d.maxWait > 0 {
		if left := d.first.Add(d.maxWait).Sub(now); left < wait {
			wait = max(0, left)
		}
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(wait, func() { d.fire(gen) })
}

// Armed 表示是否有一次触发在等待。
func (d *Debouncer) Armed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel 取消等待中的触发，之后的 Touch 照常生效。
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

// Stop 取消等待中的触发，之后的 Touch 都被忽略。返回是否取消了一次等待。
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

// fire 只认最新一代计时器，已被 Touch 替换的旧计时器直接丢弃。
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || d.timer == nil || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.onDue()
}
