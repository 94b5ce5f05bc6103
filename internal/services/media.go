package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/moodjournal-backend/internal/clients/gcp"
	"github.com/yungbote/moodjournal-backend/internal/pkg/errors"
	"github.com/yungbote/moodjournal-backend/internal/pkg/logger"
)

// MaxImageBytes caps entry photo attachments.
const MaxImageBytes = 5 << 20

// MediaService validates and stores entry photos. Validation runs before
// any byte leaves the process: an oversized or non-image payload never
// touches the bucket.
type MediaService interface {
	Store(ctx context.Context, userID uuid.UUID, data []byte, declaredType string) (string, error)
}

type mediaService struct {
	log    *logger.Logger
	bucket gcp.BucketService

	now func() time.Time
}

func NewMediaService(log *logger.Logger, bucket gcp.BucketService) MediaService {
	return &mediaService{
		log:    log.With("service", "MediaService"),
		bucket: bucket,
		now:    time.Now,
	}
}

func (ms *mediaService) Store(ctx context.Context, userID uuid.UUID, data []byte, declaredType string) (string, error) {
	if len(data) > MaxImageBytes {
		return "", errors.Validation("image too large")
	}

	contentType := strings.TrimSpace(declaredType)
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", errors.Validation("unsupported type")
	}

	// The bucket is optional at startup; submissions without images still
	// work, ones with images fail cleanly.
	if ms.bucket == nil {
		return "", errors.Storage("image uploads unavailable", nil)
	}

	// Nanosecond token keeps overlapping uploads from one user apart.
	key := fmt.Sprintf("uploads/%s/%d", userID.String(), ms.now().UnixNano())

	if err := ms.bucket.UploadFile(ctx, key, bytes.NewReader(data), contentType); err != nil {
		ms.log.Error("media upload failed", "user_id", userID.String(), "key", key, "error", err)
		return "", errors.Storage("failed to upload image", err)
	}

	url := ms.bucket.GetPublicURL(key)
	ms.log.Debug("media stored", "user_id", userID.String(), "key", key, "url", url)
	return url, nil
}
