package realtime

type SSEEvent string

const (
	// SSEEventEntryCreated fires on the owning user's channel after a mood
	// entry is persisted. Consumers re-fetch the full snapshot; the event
	// data is advisory.
	SSEEventEntryCreated SSEEvent = "EntryCreated"
	// SSEEventSyncDegraded signals that a snapshot load behind the live feed
	// failed. Previously delivered snapshots stay valid; the stream is not
	// torn down.
	SSEEventSyncDegraded SSEEvent = "SyncDegraded"
	// SSEEventEntriesSnapshot carries the full, date-descending entry list.
	// Sent once on stream open and again after every change.
	SSEEventEntriesSnapshot SSEEvent = "EntriesSnapshot"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
