package services

import (
	"context"
	"strings"

	"github.com/yungbote/moodjournal-backend/internal/domain"
	"github.com/yungbote/moodjournal-backend/internal/pkg/logger"
)

// TextClassifier is the swappable capability boundary for the external
// inference endpoint; tests inject a fake to exercise failure paths
// deterministically.
type TextClassifier interface {
	ClassifyText(ctx context.Context, text string) (string, error)
}

type SentimentLabel string

const (
	SentimentPositive    SentimentLabel = "positive"
	SentimentNegative    SentimentLabel = "negative"
	SentimentUnavailable SentimentLabel = "unavailable"
)

// sentimentMoods maps a classified label to the moods it agrees with.
var sentimentMoods = map[SentimentLabel][]domain.Mood{
	SentimentPositive: {domain.MoodHappy, domain.MoodNeutral},
	SentimentNegative: {domain.MoodSad, domain.MoodAngry, domain.MoodAnxious},
}

type SentimentService interface {
	// Classify never returns an error: classifier trouble of any shape folds
	// into SentimentUnavailable so a submission can't fail here.
	Classify(ctx context.Context, text string) SentimentLabel
	Reconcile(label SentimentLabel, mood domain.Mood) domain.SentimentFeedback
}

type sentimentService struct {
	log        *logger.Logger
	classifier TextClassifier
}

func NewSentimentService(log *logger.Logger, classifier TextClassifier) SentimentService {
	return &sentimentService{
		log:        log.With("service", "SentimentService"),
		classifier: classifier,
	}
}

func (ss *sentimentService) Classify(ctx context.Context, text string) SentimentLabel {
	if ss.classifier == nil {
		return SentimentUnavailable
	}
	raw, err := ss.classifier.ClassifyText(ctx, text)
	if err != nil {
		ss.log.Warn("sentiment classification unavailable", "error", err)
		return SentimentUnavailable
	}
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "POSITIVE":
		return SentimentPositive
	case "NEGATIVE":
		return SentimentNegative
	default:
		// Unknown labels (NEUTRAL included) carry no agreement signal.
		ss.log.Debug("folding unknown sentiment label", "label", raw)
		return SentimentUnavailable
	}
}

func (ss *sentimentService) Reconcile(label SentimentLabel, mood domain.Mood) domain.SentimentFeedback {
	moods, ok := sentimentMoods[label]
	if !ok {
		return domain.FeedbackUnavailable
	}
	for _, m := range moods {
		if m == mood {
			return domain.FeedbackMatches
		}
	}
	return domain.FeedbackDiverges
}
