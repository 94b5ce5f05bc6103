package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Mood is the declared feeling for a journal entry. The set is closed;
// anything else is rejected at submission time.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodAngry   Mood = "angry"
	MoodAnxious Mood = "anxious"
	MoodNeutral Mood = "neutral"
)

// Moods lists the valid moods in display order.
func Moods() []Mood {
	return []Mood{MoodHappy, MoodSad, MoodAngry, MoodAnxious, MoodNeutral}
}

func ParseMood(s string) (Mood, bool) {
	switch Mood(s) {
	case MoodHappy, MoodSad, MoodAngry, MoodAnxious, MoodNeutral:
		return Mood(s), true
	default:
		return "", false
	}
}

// SentimentFeedback is the derived agreement signal between the classified
// text sentiment and the declared mood. Never user-supplied.
type SentimentFeedback string

const (
	FeedbackMatches     SentimentFeedback = "matches"
	FeedbackDiverges    SentimentFeedback = "diverges"
	FeedbackUnavailable SentimentFeedback = "unavailable"
)

// MoodEntry is one persisted mood observation. Entries are immutable once
// created: no update or delete path exists, and every write is an insert of
// a fresh row with its own id (never a rewrite of a per-user aggregate).
type MoodEntry struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_mood_entry_user_date,priority:1" json:"userId"`

	Mood string `gorm:"not null;column:mood" json:"mood"`
	Text string `gorm:"column:text" json:"text"`

	// Date is assigned at submission time and drives snapshot ordering.
	Date time.Time `gorm:"not null;index:idx_mood_entry_user_date,priority:2,sort:desc" json:"date"`

	SentimentFeedback string                      `gorm:"not null;column:sentiment_feedback" json:"sentimentFeedback"`
	Recommendations   datatypes.JSONSlice[string] `gorm:"column:recommendations" json:"recommendations"`

	// ImageURL is empty when the entry has no attachment.
	ImageURL string `gorm:"column:image_url" json:"imageUrl"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"-"`
}

func (MoodEntry) TableName() string { return "mood_entry" }
