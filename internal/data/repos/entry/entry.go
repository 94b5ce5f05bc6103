package entry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/moodjournal-backend/internal/domain"
	"github.com/yungbote/moodjournal-backend/internal/pkg/logger"
)

// EntryRepo owns persisted mood entries. Create is a plain row insert so
// two overlapping submissions for the same user can never clobber each
// other; there is deliberately no update or delete.
type EntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*domain.MoodEntry) ([]*domain.MoodEntry, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.MoodEntry, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID, entryID uuid.UUID) (*domain.MoodEntry, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type entryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
	return &entryRepo{db: db, log: baseLog.With("repo", "EntryRepo")}
}

func (er *entryRepo) Create(ctx context.Context, tx *gorm.DB, entries []*domain.MoodEntry) ([]*domain.MoodEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	if len(entries) == 0 {
		return []*domain.MoodEntry{}, nil
	}

	for _, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

// ListByUser returns the full snapshot for one user, most recent first.
// Same-timestamp entries get a stable id tiebreak so consecutive snapshots
// never reorder.
func (er *entryRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.MoodEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*domain.MoodEntry
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *entryRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, entryID uuid.UUID) (*domain.MoodEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var result domain.MoodEntry
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, entryID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (er *entryRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.MoodEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
