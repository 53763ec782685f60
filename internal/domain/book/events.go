package book

import (
	"context"
	"time"
)

// 领域事件类型(同时用作消息队列的routing key)
const (
	EventCreated = "book.created"
	EventUpdated = "book.updated"
	EventDeleted = "book.deleted"
)

// Event 图书变更事件
type Event struct {
	Type       string    `json:"type"`
	BookID     string    `json:"bookId"`
	ActorID    string    `json:"actorId"`
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher 事件发布端口,由infrastructure层实现
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher 不发布任何事件(未配置消息队列时使用)
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
