package worker

import (
	"github.com/Brunux-hub/Cafe-eria.hub/internal/service"
)

// StartRealtimeWorker registers the realtime notification handlers.
func StartRealtimeWorker(notifier *service.RealtimeNotifier) {
	if notifier == nil {
		return
	}
	notifier.RegisterHandlers()
}
