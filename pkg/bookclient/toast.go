package bookclient

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity 提示级别
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Toast 提示消息
type Toast struct {
	ID          string
	Severity    Severity
	Title       string
	Description string
	CreatedAt   time.Time
}

// Toasts 提示队列（先进先出）
// 超过上限时丢弃最早的消息
type Toasts struct {
	mu    sync.Mutex
	items []Toast
	limit int
}

// NewToasts 创建提示队列，limit<=0表示不限制
func NewToasts(limit int) *Toasts {
	return &Toasts{limit: limit}
}

// Push 追加消息，返回消息ID
func (t *Toasts) Push(severity Severity, title, description string) string {
	toast := Toast{
		ID:          uuid.NewString(),
		Severity:    severity,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, toast)
	if t.limit > 0 && len(t.items) > t.limit {
		t.items = append([]Toast(nil), t.items[len(t.items)-t.limit:]...)
	}
	return toast.ID
}

// List 当前消息快照（按追加顺序）
func (t *Toasts) List() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Toast(nil), t.items...)
}

// Dismiss 关闭一条消息
func (t *Toasts) Dismiss(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, item := range t.items {
		if item.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return true
		}
	}
	return false
}

// Last 最新一条消息
func (t *Toasts) Last() (Toast, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.items) == 0 {
		return Toast{}, false
	}
	return t.items[len(t.items)-1], true
}
