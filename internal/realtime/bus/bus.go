package bus

import (
	"context"

	"github.com/yungbote/moodjournal-backend/internal/realtime"
)

// Bus carries realtime messages between service instances so every
// instance's hub sees writes that landed elsewhere.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
