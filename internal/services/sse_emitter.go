package services

import (
	"context"

	"github.com/yungbote/moodjournal-backend/internal/pkg/logger"
	"github.com/yungbote/moodjournal-backend/internal/realtime"
	"github.com/yungbote/moodjournal-backend/internal/realtime/bus"
)

// SSEEmitter decouples services from the fan-out transport: single-instance
// deploys broadcast straight into the hub, multi-instance deploys publish
// through redis and let each instance's forwarder feed its own hub.
type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.Hub.Broadcast(msg)
}

type BusEmitter struct {
	Log *logger.Logger
	Bus bus.Bus
}

// Emit never surfaces publish failures to the caller; a lost event only
// delays the next snapshot, it does not fail the write that caused it.
func (e *BusEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if err := e.Bus.Publish(ctx, msg); err != nil && e.Log != nil {
		e.Log.Warn("sse publish failed",
			"channel", msg.Channel, "event", msg.Event, "error", err)
	}
}
