package infrastructure

import (
	"github.com/google/wire"
	"github.com/todod/backend/internal/infrastructure/config"
	"github.com/todod/backend/internal/infrastructure/discovery"
	"github.com/todod/backend/internal/infrastructure/eventbus"
	"github.com/todod/backend/internal/infrastructure/metrics"
	"github.com/todod/backend/internal/infrastructure/notification"
	"github.com/todod/backend/internal/infrastructure/storage"
	"github.com/todod/backend/internal/infrastructure/websocket"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	storage.ProviderSet,
	eventbus.ProviderSet,
	metrics.ProviderSet,
	websocket.ProviderSet,
	notification.ProviderSet,
	discovery.ProviderSet,
)
