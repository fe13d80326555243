package notification

import "github.com/todod/backend/internal/domain/events"

// Pusher 推送接口（定义在 application 层）
// 这是应用层需要的技术能力，不是领域概念
type Pusher interface {
	Push(event events.Event) error
}
