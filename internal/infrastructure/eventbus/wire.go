package eventbus

import (
	"github.com/google/wire"
	"github.com/todod/backend/internal/domain/events"
)

// ProviderSet 事件总线 ProviderSet
var ProviderSet = wire.NewSet(
	NewEventBus,
	// 应用服务只依赖发布能力
	wire.Bind(new(events.Publisher), new(events.EventBus)),
)
