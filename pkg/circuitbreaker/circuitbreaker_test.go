package circuitbreaker

import (
	"errors"
	"sync"
	"testing"
	"time"
)

var errUnavailable = errors.New("service unavailable")

// fakeClock 可手动推进的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBreaker(clock *fakeClock) *CircuitBreaker {
	return NewCircuitBreaker("test", Config{
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		Now: clock.Now,
	})
}

func fail() error    { return errUnavailable }
func succeed() error { return nil }

// TestCircuitBreaker_ClosedState 测试关闭状态（正常）
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := newTestBreaker(newFakeClock())

	for i := 0; i < 10; i++ {
		if err := cb.Execute(succeed); err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalSuccesses != 10 {
		t.Errorf("期望成功10次，实际%d次", counts.TotalSuccesses)
	}
}

// TestCircuitBreaker_OpenState 连续失败后快速失败
func TestCircuitBreaker_OpenState(t *testing.T) {
	cb := newTestBreaker(newFakeClock())

	for i := 0; i < 3; i++ {
		if err := cb.Execute(fail); !errors.Is(err, errUnavailable) {
			t.Fatalf("期望返回业务错误，实际%v", err)
		}
	}

	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrOpenState) {
		t.Errorf("期望ErrOpenState，实际%v", err)
	}
	if called {
		t.Error("熔断状态下不应执行请求")
	}
}

// TestCircuitBreaker_SuccessResetsConsecutiveFailures 成功会打断连续失败
func TestCircuitBreaker_SuccessResetsConsecutiveFailures(t *testing.T) {
	cb := newTestBreaker(newFakeClock())

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	_ = cb.Execute(succeed)
	_ = cb.Execute(fail)
	_ = cb.Execute(fail)

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenState 超时后放行探测请求，成功则恢复
func TestCircuitBreaker_HalfOpenState(t *testing.T) {
	clock := newFakeClock()
	cb := newTestBreaker(clock)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}

	clock.Advance(30 * time.Second)
	if cb.State() != StateHalfOpen {
		t.Fatalf("期望状态为HALF_OPEN，实际%s", cb.State())
	}

	if err := cb.Execute(succeed); err != nil {
		t.Fatalf("探测请求应被放行: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("探测成功后期望CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenToOpen 探测失败重新熔断
func TestCircuitBreaker_HalfOpenToOpen(t *testing.T) {
	clock := newFakeClock()
	cb := newTestBreaker(clock)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	clock.Advance(31 * time.Second)

	_ = cb.Execute(fail)
	if cb.State() != StateOpen {
		t.Errorf("探测失败后期望OPEN，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenLimit 半开状态只放行MaxRequests个请求
func TestCircuitBreaker_HalfOpenLimit(t *testing.T) {
	clock := newFakeClock()
	cb := newTestBreaker(clock)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	clock.Advance(30 * time.Second)

	var inner error
	err := cb.Execute(func() error {
		// 第一个探测请求尚未完成时，第二个请求被拒绝
		inner = cb.Execute(succeed)
		return nil
	})
	if err != nil {
		t.Fatalf("第一个探测请求应被放行: %v", err)
	}
	if !errors.Is(inner, ErrTooManyRequests) {
		t.Errorf("期望ErrTooManyRequests，实际%v", inner)
	}
}

// TestCircuitBreaker_IsSuccessful 业务错误不计入失败
func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	errNotFound := errors.New("not found")
	cb := NewCircuitBreaker("test", Config{
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNotFound)
		},
	})

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return errNotFound }); !errors.Is(err, errNotFound) {
			t.Fatalf("业务错误应原样返回: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("业务错误不应触发熔断，实际%s", cb.State())
	}
}

// TestCircuitBreaker_IntervalReset 统计窗口过期后重置计数
func TestCircuitBreaker_IntervalReset(t *testing.T) {
	clock := newFakeClock()
	cb := newTestBreaker(clock)

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	clock.Advance(11 * time.Second)
	_ = cb.Execute(fail)

	if cb.State() != StateClosed {
		t.Errorf("窗口重置后不应熔断，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.ConsecutiveFailures != 1 {
		t.Errorf("期望连续失败1次，实际%d", counts.ConsecutiveFailures)
	}
}

// TestCircuitBreaker_StateChangeCallback 状态变化回调
func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	clock := newFakeClock()
	cb := newTestBreaker(clock)

	var transitions []string
	cb.SetStateChangeCallback(func(name string, from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	clock.Advance(30 * time.Second)
	_ = cb.Execute(succeed)

	want := []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}
	if len(transitions) != len(want) {
		t.Fatalf("期望状态变化%v，实际%v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("第%d次状态变化: 期望%s，实际%s", i, want[i], transitions[i])
		}
	}
}

// TestCounts_FailureRate 失败率
func TestCounts_FailureRate(t *testing.T) {
	c := Counts{}
	if c.FailureRate() != 0 {
		t.Error("无请求时失败率应为0")
	}
	c = Counts{Requests: 4, TotalFailures: 1}
	if c.FailureRate() != 0.25 {
		t.Errorf("期望0.25，实际%f", c.FailureRate())
	}
}

func BenchmarkCircuitBreaker(b *testing.B) {
	cb := NewCircuitBreaker("bench", Config{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(succeed)
	}
}
