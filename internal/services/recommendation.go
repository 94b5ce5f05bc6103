package services

import (
	"github.com/yungbote/moodjournal-backend/internal/domain"
)

// activityTable is the full recommendation catalog. Pure data: same mood in,
// same ordered list out, every time.
var activityTable = map[domain.Mood][]string{
	domain.MoodHappy:   {"Take a walk in nature 🌳", "Call a friend 📞", "Dance to favorite song 💃"},
	domain.MoodSad:     {"Write in gratitude journal 📖", "Watch a comedy 🎥", "Drink warm tea ☕"},
	domain.MoodAngry:   {"Practice deep breathing 🌬️", "Punch a pillow 🛏️", "Listen to metal music 🎸"},
	domain.MoodAnxious: {"Try 4-7-8 breathing 🧘", "Do progressive muscle relaxation 💪", "Write down worries 📝"},
	domain.MoodNeutral: {"Try something new 🎨", "Read a book 📚", "Organize your space 🧹"},
}

type RecommendationService interface {
	Recommend(mood domain.Mood) []string
}

type recommendationService struct{}

func NewRecommendationService() RecommendationService {
	return &recommendationService{}
}

// Recommend returns a copy so callers can never mutate the catalog.
func (rs *recommendationService) Recommend(mood domain.Mood) []string {
	activities, ok := activityTable[mood]
	if !ok {
		return nil
	}
	out := make([]string, len(activities))
	copy(out, activities)
	return out
}
