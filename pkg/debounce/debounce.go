// Package debounce 提供可取消的防抖计时器
//
// 典型用法：搜索框每次输入都Trigger，停止输入delay之后才真正发起查询。
// 计时器归调用方所有，Cancel/Flush可以在任何时候调用。
package debounce

import (
	"sync"
	"time"
)

// Debouncer 防抖器
// 同一时刻最多只有一个待执行任务，新的Trigger会替换旧任务并重新计时
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
	gen     uint64 // 每次Trigger/Cancel/Flush递增，过期的timer回调据此放弃执行
}

// New 创建防抖器
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay 防抖间隔
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger 取消待执行任务，delay后执行fn
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Cancel 取消待执行任务，返回是否确实取消了任务
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	had := d.pending != nil
	d.stopLocked()
	d.gen++
	return had
}

// Flush 立即在当前goroutine执行待执行任务，返回是否执行了任务
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	d.stopLocked()
	d.gen++
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending 是否有待执行任务
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
