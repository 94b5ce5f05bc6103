package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/moodjournal-backend/internal/http/response"
	"github.com/yungbote/moodjournal-backend/internal/pkg/errors"
	"github.com/yungbote/moodjournal-backend/internal/pkg/logger"
	"github.com/yungbote/moodjournal-backend/internal/requestdata"
	"github.com/yungbote/moodjournal-backend/internal/services"
)

type EntryHandler struct {
	log         *logger.Logger
	journal     services.JournalService
	projections services.ProjectionService
}

func NewEntryHandler(log *logger.Logger, journal services.JournalService, projections services.ProjectionService) *EntryHandler {
	return &EntryHandler{
		log:         log.With("handler", "EntryHandler"),
		journal:     journal,
		projections: projections,
	}
}

type createEntryRequest struct {
	Mood string `json:"mood"`
	Text string `json:"text"`
}

// Create accepts either a JSON body or a multipart form. The multipart form
// carries the optional photo under "image"; JSON submissions are text-only.
func (h *EntryHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	in, err := h.readSubmitInput(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	entry, err := h.journal.Submit(c.Request.Context(), rd.UserID, in)
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondCreated(c, entry)
}

func (h *EntryHandler) readSubmitInput(c *gin.Context) (services.SubmitInput, error) {
	var in services.SubmitInput

	contentType := c.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := c.Request.ParseMultipartForm(8 << 20); err != nil {
			return in, err
		}
		in.Mood = c.Request.FormValue("mood")
		in.Text = c.Request.FormValue("text")

		file, header, err := c.Request.FormFile("image")
		if err == nil {
			defer file.Close()
			data, readErr := io.ReadAll(file)
			if readErr != nil {
				return in, readErr
			}
			in.Image = data
			in.ImageContentType = header.Header.Get("Content-Type")
		} else if err != http.ErrMissingFile {
			return in, err
		}
		return in, nil
	}

	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return in, err
	}
	in.Mood = req.Mood
	in.Text = req.Text
	return in, nil
}

func (h *EntryHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	entries, err := h.journal.ListEntries(c.Request.Context(), rd.UserID)
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"entries": entries})
}

// MoodChart returns per-mood counts over the user's full history.
func (h *EntryHandler) MoodChart(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	entries, err := h.journal.ListEntries(c.Request.Context(), rd.UserID)
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"counts": h.projections.MoodBreakdown(entries)})
}

// Calendar returns one all-day point per entry.
func (h *EntryHandler) Calendar(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	entries, err := h.journal.ListEntries(c.Request.Context(), rd.UserID)
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"points": h.projections.CalendarPoints(entries)})
}

func statusForError(err error) (int, string) {
	switch errors.KindOf(err) {
	case errors.KindValidation:
		return http.StatusBadRequest, "validation_failed"
	case errors.KindUnauthorized:
		return http.StatusUnauthorized, "unauthorized"
	case errors.KindNotFound:
		return http.StatusNotFound, "not_found"
	case errors.KindStorage:
		return http.StatusBadGateway, "storage_failed"
	case errors.KindExternal:
		return http.StatusBadGateway, "upstream_failed"
	case errors.KindSync:
		return http.StatusServiceUnavailable, "sync_degraded"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
