package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/moodjournal-backend/internal/domain"
	"github.com/yungbote/moodjournal-backend/internal/pkg/logger"
)

// CalendarPoint is one all-day marker derived from an entry. Entries on the
// same day stay distinct points.
type CalendarPoint struct {
	EntryID uuid.UUID `json:"entryId"`
	Title   string    `json:"title"`
	Date    string    `json:"date"`
	AllDay  bool      `json:"allDay"`
}

// ProjectionService derives the chart and calendar views from a snapshot.
// Both are stateless: every call recomputes from the list it is given.
type ProjectionService interface {
	MoodBreakdown(entries []*domain.MoodEntry) map[string]int
	CalendarPoints(entries []*domain.MoodEntry) []CalendarPoint
}

type projectionService struct {
	log *logger.Logger
}

func NewProjectionService(log *logger.Logger) ProjectionService {
	return &projectionService{log: log.With("service", "ProjectionService")}
}

// MoodBreakdown counts entries per mood. Moods outside the fixed set land
// in an "unknown" bucket instead of disappearing from the chart.
func (ps *projectionService) MoodBreakdown(entries []*domain.MoodEntry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		mood := strings.ToLower(strings.TrimSpace(e.Mood))
		if _, ok := domain.ParseMood(mood); !ok {
			mood = "unknown"
		}
		counts[mood]++
	}
	return counts
}

// CalendarPoints maps each entry to a single all-day point keyed by the
// entry's calendar date. Entries without a usable date are skipped and
// logged; they never take the projection down.
func (ps *projectionService) CalendarPoints(entries []*domain.MoodEntry) []CalendarPoint {
	points := make([]CalendarPoint, 0, len(entries))
	for _, e := range entries {
		if e.Date.IsZero() {
			ps.log.Warn("skipping entry with unusable date in calendar projection", "entry_id", e.ID.String())
			continue
		}
		points = append(points, CalendarPoint{
			EntryID: e.ID,
			Title:   e.Mood + " entry",
			Date:    e.Date.Format("2006-01-02"),
			AllDay:  true,
		})
	}
	return points
}
