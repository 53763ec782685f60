package messaging

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// Sender 消息发送端口，*mq.Publisher实现了该接口
type Sender interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// BookEventPublisher 图书事件发布者（RabbitMQ）
// 设计说明：
// 1. 实现domain/book的EventPublisher端口
// 2. 事件类型直接作为routing key（book.created等），消费者可用book.*订阅
// 3. 发布带超时，Broker阻塞时不拖慢HTTP请求
type BookEventPublisher struct {
	sender  Sender
	timeout time.Duration
}

var _ book.EventPublisher = (*BookEventPublisher)(nil)

// NewBookEventPublisher 创建图书事件发布者
func NewBookEventPublisher(sender Sender, timeout time.Duration) *BookEventPublisher {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &BookEventPublisher{sender: sender, timeout: timeout}
}

// Publish 发布图书事件
func (p *BookEventPublisher) Publish(ctx context.Context, event book.Event) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.sender.Publish(ctx, event.Type, event)
}
