package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/moodjournal-backend/internal/domain"
	"github.com/yungbote/moodjournal-backend/internal/pkg/logger"
	"github.com/yungbote/moodjournal-backend/internal/realtime"
	"github.com/yungbote/moodjournal-backend/internal/requestdata"
	"github.com/yungbote/moodjournal-backend/internal/services"
)

// RealtimeHandler serves the SSE entry stream. Each open stream gets
// EntryCreated and SyncDegraded events via the hub plus full entry snapshots
// from the journal feed, one stream per session.
type RealtimeHandler struct {
	Log     *logger.Logger
	Hub     *realtime.SSEHub
	Journal services.JournalService

	mu      sync.RWMutex
	streams map[uuid.UUID]*sessionStream // key: SessionID
}

// sessionStream pairs a hub client with its snapshot-feed cancel so a
// replacing stream can stop the feed before closing the client. The feed
// callback writes to the client's outbound channel; cancelling first means
// no delivery can land after the channel closes.
type sessionStream struct {
	client     *realtime.SSEClient
	cancelFeed func()
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, journal services.JournalService) *RealtimeHandler {
	return &RealtimeHandler{
		Log:     log,
		Hub:     hub,
		Journal: journal,
		streams: make(map[uuid.UUID]*sessionStream),
	}
}

func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	userID := rd.UserID
	sessionID := rd.SessionID
	if sessionID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session id"})
		return
	}
	h.Log.Info("SSEStream open", "user_id", userID.String(), "session_id", sessionID.String())

	client := h.Hub.NewSSEClient(userID)
	userChannel := userID.String()
	h.Hub.AddChannel(client, userChannel)

	// Snapshot feed: the first delivery happens synchronously inside
	// SubscribeEntries, before any change event can race past it.
	cancelFeed := h.Journal.SubscribeEntries(userID, func(entries []*domain.MoodEntry) {
		msg := realtime.SSEMessage{
			Channel: userChannel,
			Event:   realtime.SSEEventEntriesSnapshot,
			Data:    gin.H{"entries": entries},
		}
		select {
		case client.Outbound <- msg:
		default:
			client.Logger.Warn("Dropping snapshot; outbound buffer full")
		}
	})
	stream := &sessionStream{client: client, cancelFeed: cancelFeed}

	h.mu.Lock()
	// A reconnecting session replaces its previous stream. Its feed must be
	// cancelled before its client closes, otherwise a snapshot delivery
	// could hit the closed outbound channel.
	if existing, ok := h.streams[sessionID]; ok {
		existing.cancelFeed()
		h.Hub.CloseClient(existing.client)
	}
	h.streams[sessionID] = stream
	h.mu.Unlock()

	h.Hub.ServeHTTP(c.Writer, c.Request, client)

	// Same ordering on the disconnect path. A replaced stream must not
	// evict its successor from the session map.
	cancelFeed()
	h.mu.Lock()
	if h.streams[sessionID] == stream {
		delete(h.streams, sessionID)
	}
	h.mu.Unlock()
	h.Hub.CloseClient(client)
}
