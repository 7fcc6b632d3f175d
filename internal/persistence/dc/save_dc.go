package dc

import (
	"context"
	"sync"
	"time"

	"ManaMerge/internal/persistence"
	"ManaMerge/modules/kit/logx"
)

// Saver 是写入端口，persistence.Repository 实现它。
type Saver interface {
	Save(ctx context.Context, s persistence.Snapshot) error
}

// SaveDC 持有最新一份待写快照，由单独的写协程落盘。
// 调用方（GameActor）只管 Enqueue；写库慢或失败都不会阻塞 actor。
type SaveDC struct {
	saver      Saver
	log        logx.Logger
	retryDelay time.Duration
	// closeRetries 限制关闭时失败重试的次数，存储彻底不可用时也能退出。
	closeRetries int

	mu      sync.Mutex
	pending *persistence.Snapshot
	version uint64
	written uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewSaveDC(saver Saver, l logx.Logger) *SaveDC {
	d := &SaveDC{
		saver:        saver,
		log:          logx.OrNop(l),
		retryDelay:   200 * time.Millisecond,
		closeRetries: 3,
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

// Enqueue 给快照分配版本号并替换待写快照，返回分配的版本。
func (d *SaveDC) Enqueue(s persistence.Snapshot) uint64 {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return 0
	}
	d.version++
	s.Version = d.version
	d.pending = &s
	d.mu.Unlock()

	d.notify()
	return s.Version
}

// Written 返回已成功落盘的最高版本。
func (d *SaveDC) Written() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.written
}

// Pending 表示是否还有未写出的快照。
func (d *SaveDC) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Close 写出最后一份快照后停止写协程。
func (d *SaveDC) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *SaveDC) notify() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *SaveDC) popPending() *persistence.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

// requeue 只在没有更新的快照时放回失败的那份。
func (d *SaveDC) requeue(s *persistence.Snapshot) {
	d.mu.Lock()
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()
}

func (d *SaveDC) markWritten(v uint64) {
	d.mu.Lock()
	if v > d.written {
		d.written = v
	}
	d.mu.Unlock()
}

func (d *SaveDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending(-1)
		case <-d.stop:
			d.consumePending(d.closeRetries)
			return
		}
	}
}

// consumePending 写到没有待写快照为止。retries < 0 表示失败后无限重试。
func (d *SaveDC) consumePending(retries int) {
	failures := 0
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		ctx := context.Background()
		if err := d.saver.Save(ctx, *s); err != nil {
			logx.ReportSysErrorWithLoggerContext(ctx, d.log, logx.NewSysLog("save_snapshot", err))
			failures++
			if retries >= 0 && failures > retries {
				return
			}
			// 写库失败时重排当前快照；若已有更新快照，会被更高 version 覆盖。
			d.requeue(s)
			select {
			case <-time.After(d.retryDelay):
			case <-d.stop:
				if retries < 0 {
					// 关闭流程接管剩余快照。
					return
				}
			}
			continue
		}
		d.markWritten(s.Version)
	}
}
