package realtime

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/moodjournal-backend/internal/pkg/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubBroadcastOrderingPerClient(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	channel := uuid.New().String()

	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, channel)

	first := SSEMessage{Channel: channel, Event: SSEEventEntryCreated, Data: map[string]any{"seq": 1}}
	second := SSEMessage{Channel: channel, Event: SSEEventEntryCreated, Data: map[string]any{"seq": 2}}
	hub.Broadcast(first)
	hub.Broadcast(second)

	got := recvMessage(t, client.Outbound, time.Second)
	if got.Data.(map[string]any)["seq"] != 1 {
		t.Fatalf("first message: want seq=1 got=%v", got.Data)
	}
	got = recvMessage(t, client.Outbound, time.Second)
	if got.Data.(map[string]any)["seq"] != 2 {
		t.Fatalf("second message: want seq=2 got=%v", got.Data)
	}
}

func TestSSEHubChannelIsolation(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	chanA := uuid.New().String()
	chanB := uuid.New().String()

	clientA := hub.NewSSEClient(uuid.New())
	clientB := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientA, chanA)
	hub.AddChannel(clientB, chanB)

	hub.Broadcast(SSEMessage{Channel: chanA, Event: SSEEventEntryCreated})

	recvMessage(t, clientA.Outbound, time.Second)
	select {
	case msg := <-clientB.Outbound:
		t.Fatalf("clientB should receive nothing, got %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSSEHubCloseClientStopsDelivery(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	channel := uuid.New().String()

	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, channel)
	hub.CloseClient(client)

	select {
	case _, ok := <-client.Outbound:
		if ok {
			t.Fatalf("outbound should be closed after CloseClient")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for outbound close")
	}

	// Reconnect with a fresh client; old handles stay terminal.
	reconnected := hub.NewSSEClient(client.UserID)
	hub.AddChannel(reconnected, channel)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventEntryCreated})
	got := recvMessage(t, reconnected.Outbound, time.Second)
	if got.Event != SSEEventEntryCreated {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventEntryCreated, got.Event)
	}
}

func TestSSEHubServeHTTPStopsCleanlyAfterClose(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, uuid.New().String())
	hub.CloseClient(client)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stream", nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.ServeHTTP(rec, req, client)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("ServeHTTP did not return for a closed client")
	}
	// A closed outbound channel must never leak zero-value frames.
	if body := rec.Body.String(); strings.Contains(body, "data:") {
		t.Fatalf("closed client wrote frames: %q", body)
	}
}

func TestSSEHubCloseClientIdempotent(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, uuid.New().String())

	hub.CloseClient(client)
	hub.CloseClient(client)
}

func TestSSEHubSlowConsumerDropsInsteadOfBlocking(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	channel := uuid.New().String()

	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, channel)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < cap(client.Outbound)+10; i++ {
			hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventEntryCreated, Data: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Broadcast blocked on a slow consumer")
	}
}
