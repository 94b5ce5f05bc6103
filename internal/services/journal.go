package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	entryrepo "github.com/yungbote/moodjournal-backend/internal/data/repos/entry"
	"github.com/yungbote/moodjournal-backend/internal/domain"
	"github.com/yungbote/moodjournal-backend/internal/pkg/errors"
	"github.com/yungbote/moodjournal-backend/internal/pkg/logger"
	"github.com/yungbote/moodjournal-backend/internal/realtime"
)

type SubmitInput struct {
	Mood             string
	Text             string
	Image            []byte
	ImageContentType string
}

// EntrySnapshotFunc receives the full, date-descending entry list for one
// user. A snapshot may coalesce several writes; there is no per-write
// delivery guarantee.
type EntrySnapshotFunc func(entries []*domain.MoodEntry)

// JournalService runs the submission pipeline and owns the live entry feed.
//
// Submit executes strictly in sequence: mood validation, image validation
// and upload, sentiment classification, feedback reconciliation,
// recommendation lookup, persistence. Classification failures are absorbed;
// validation and storage failures abort before the entry exists. No partial
// entry is ever visible.
type JournalService interface {
	Submit(ctx context.Context, userID uuid.UUID, in SubmitInput) (*domain.MoodEntry, error)
	ListEntries(ctx context.Context, userID uuid.UUID) ([]*domain.MoodEntry, error)
	SubscribeEntries(userID uuid.UUID, fn EntrySnapshotFunc) (cancel func())
	NotifyChanged(userID uuid.UUID)
}

type journalService struct {
	db        *gorm.DB
	log       *logger.Logger
	entries   entryrepo.EntryRepo
	media     MediaService
	sentiment SentimentService
	recs      RecommendationService
	emitter   SSEEmitter

	now func() time.Time

	mu    sync.Mutex
	feeds map[uuid.UUID]*userFeed
}

// userFeed groups a user's local subscribers. deliverMu serializes snapshot
// loads and deliveries so a subscriber never sees an older snapshot after a
// newer one.
type userFeed struct {
	deliverMu sync.Mutex

	mu   sync.Mutex
	subs map[*feedSub]bool
}

type feedSub struct {
	mu     sync.Mutex
	active bool
	fn     EntrySnapshotFunc
}

// deliver invokes the callback only while the subscription is still live, so
// a cancelled consumer is never called with a late snapshot.
func (s *feedSub) deliver(snapshot []*domain.MoodEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.fn(snapshot)
}

func NewJournalService(
	db *gorm.DB,
	log *logger.Logger,
	entries entryrepo.EntryRepo,
	media MediaService,
	sentiment SentimentService,
	recs RecommendationService,
	emitter SSEEmitter,
) JournalService {
	return &journalService{
		db:        db,
		log:       log.With("service", "JournalService"),
		entries:   entries,
		media:     media,
		sentiment: sentiment,
		recs:      recs,
		emitter:   emitter,
		now:       time.Now,
		feeds:     make(map[uuid.UUID]*userFeed),
	}
}

func (js *journalService) Submit(ctx context.Context, userID uuid.UUID, in SubmitInput) (*domain.MoodEntry, error) {
	if userID == uuid.Nil {
		return nil, errors.Unauthorized("missing user")
	}
	if strings.TrimSpace(in.Mood) == "" {
		return nil, errors.Validation("mood required")
	}
	mood, ok := domain.ParseMood(in.Mood)
	if !ok {
		return nil, errors.Validationf("invalid mood %q", in.Mood)
	}

	imageURL := ""
	if len(in.Image) > 0 {
		url, err := js.media.Store(ctx, userID, in.Image, in.ImageContentType)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	label := SentimentUnavailable
	if strings.TrimSpace(in.Text) != "" {
		label = js.sentiment.Classify(ctx, in.Text)
	}
	feedback := js.sentiment.Reconcile(label, mood)

	entry := &domain.MoodEntry{
		ID:                uuid.New(),
		UserID:            userID,
		Mood:              string(mood),
		Text:              in.Text,
		Date:              js.now().UTC(),
		SentimentFeedback: string(feedback),
		Recommendations:   datatypes.NewJSONSlice(js.recs.Recommend(mood)),
		ImageURL:          imageURL,
	}

	if _, err := js.entries.Create(ctx, nil, []*domain.MoodEntry{entry}); err != nil {
		if imageURL != "" {
			// Known limitation: the uploaded blob stays behind. Log the URL so
			// a reconciliation sweep can find orphans later.
			js.log.Warn("entry persist failed after media upload; blob orphaned",
				"user_id", userID.String(), "image_url", imageURL, "error", err)
		}
		return nil, errors.Storage("failed to persist entry", err)
	}

	js.log.Info("entry created",
		"user_id", userID.String(),
		"entry_id", entry.ID.String(),
		"mood", entry.Mood,
		"sentiment_feedback", entry.SentimentFeedback,
		"has_image", imageURL != "")

	js.emitter.Emit(ctx, realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventEntryCreated,
		Data: map[string]any{
			"entryId": entry.ID.String(),
			"mood":    entry.Mood,
			"date":    entry.Date,
		},
	})
	js.NotifyChanged(userID)

	return entry, nil
}

func (js *journalService) ListEntries(ctx context.Context, userID uuid.UUID) ([]*domain.MoodEntry, error) {
	if userID == uuid.Nil {
		return nil, errors.Unauthorized("missing user")
	}
	entries, err := js.entries.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, errors.Storage("failed to load entries", err)
	}
	return entries, nil
}

// SubscribeEntries registers fn for the user's snapshot feed and delivers
// the current snapshot immediately. The returned cancel is idempotent;
// after it runs fn is never invoked again.
func (js *journalService) SubscribeEntries(userID uuid.UUID, fn EntrySnapshotFunc) (cancel func()) {
	sub := &feedSub{active: true, fn: fn}

	js.mu.Lock()
	feed, ok := js.feeds[userID]
	if !ok {
		feed = &userFeed{subs: make(map[*feedSub]bool)}
		js.feeds[userID] = feed
	}
	js.mu.Unlock()

	feed.mu.Lock()
	feed.subs[sub] = true
	feed.mu.Unlock()

	js.deliver(userID)

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.mu.Lock()
			sub.active = false
			sub.mu.Unlock()

			feed.mu.Lock()
			delete(feed.subs, sub)
			feed.mu.Unlock()
		})
	}
}

// NotifyChanged schedules a fresh snapshot delivery for the user. Safe to
// call from the write path and from the bus forwarder; deliveries for one
// user are serialized and each one reads current state, so bursts coalesce
// into consistent snapshots.
func (js *journalService) NotifyChanged(userID uuid.UUID) {
	go js.deliver(userID)
}

func (js *journalService) deliver(userID uuid.UUID) {
	js.mu.Lock()
	feed, ok := js.feeds[userID]
	js.mu.Unlock()
	if !ok {
		return
	}

	feed.deliverMu.Lock()
	defer feed.deliverMu.Unlock()

	feed.mu.Lock()
	subs := make([]*feedSub, 0, len(feed.subs))
	for s := range feed.subs {
		subs = append(subs, s)
	}
	feed.mu.Unlock()
	if len(subs) == 0 {
		return
	}

	ctx, cancelCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelCtx()

	snapshot, err := js.entries.ListByUser(ctx, nil, userID)
	if err != nil {
		syncErr := errors.Sync("failed to load entry snapshot", err)
		js.log.Error("entry feed degraded", "user_id", userID.String(), "error", syncErr)
		js.emitter.Emit(ctx, realtime.SSEMessage{
			Channel: userID.String(),
			Event:   realtime.SSEEventSyncDegraded,
			Data:    map[string]any{"reason": syncErr.Error()},
		})
		return
	}

	for _, sub := range subs {
		sub.deliver(snapshot)
	}
}
