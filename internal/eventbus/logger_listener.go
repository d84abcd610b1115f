package eventbus

import (
	"context"

	"github.com/annel0/voxel-core/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог компонента.
// Функция неблокирующая.
func StartLoggingListener(bus EventBus, log *logging.Logger) (Subscription, error) {
	if log == nil {
		log = logging.GetComponentLogger("events")
	}
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		if ev.Player != "" {
			log.Debug("[EventBus] кадр %d %s %v игрок=%s", ev.Frame, ev.EventType, ev.Coords, ev.Player)
			return
		}
		log.Debug("[EventBus] кадр %d %s %v", ev.Frame, ev.EventType, ev.Coords)
	})
	if err != nil {
		return nil, err
	}
	log.Info("🪵 LoggingListener: подписка на события мира активирована")
	return sub, nil
}
