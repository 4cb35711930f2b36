package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fapdigital/editais-backend/internal/data/repos"
	types "github.com/fapdigital/editais-backend/internal/domain"
	"github.com/fapdigital/editais-backend/internal/http/response"
	apperrors "github.com/fapdigital/editais-backend/internal/pkg/errors"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
	"github.com/fapdigital/editais-backend/internal/pkg/pointers"
	"github.com/fapdigital/editais-backend/internal/services"
)

const dateLayout = "2006-01-02"

// editalRequest is the admin write payload. Dates travel as YYYY-MM-DD
// strings; an absent date and an empty string both mean "no date".
type editalRequest struct {
	Title       string             `json:"title"`
	Summary     string             `json:"summary"`
	Body        string             `json:"body"`
	Category    string             `json:"category"`
	DocumentURL string             `json:"document_url"`
	Attachments []types.Attachment `json:"attachments"`
	StartDate   *string            `json:"start_date"`
	EndDate     *string            `json:"end_date"`
	Status      string             `json:"status"`
}

func (r *editalRequest) toInput() (services.EditalInput, error) {
	in := services.EditalInput{
		Title:       strings.TrimSpace(r.Title),
		Summary:     r.Summary,
		Body:        r.Body,
		Category:    strings.TrimSpace(r.Category),
		DocumentURL: strings.TrimSpace(r.DocumentURL),
		Attachments: r.Attachments,
		Status:      types.Status(strings.TrimSpace(r.Status)),
	}
	var err error
	if in.StartDate, err = parseDate(r.StartDate); err != nil {
		return in, errors.New("start_date must be YYYY-MM-DD")
	}
	if in.EndDate, err = parseDate(r.EndDate); err != nil {
		return in, errors.New("end_date must be YYYY-MM-DD")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return in, errors.New("end_date is before start_date")
	}
	return in, nil
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return pointers.Time(t), nil
}

type AdminEditaisHandler struct {
	log     *logger.Logger
	editais services.EditalService
}

func NewAdminEditaisHandler(log *logger.Logger, editais services.EditalService) *AdminEditaisHandler {
	return &AdminEditaisHandler{
		log:     log.With("handler", "AdminEditaisHandler"),
		editais: editais,
	}
}

func (h *AdminEditaisHandler) Create(c *gin.Context) {
	var req editalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	rec, err := h.editais.Create(c.Request.Context(), in)
	if err != nil {
		h.logServiceError("Create", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, rec)
}

func (h *AdminEditaisHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req editalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	rec, err := h.editais.Update(c.Request.Context(), id, in)
	if err != nil {
		h.logServiceError("Update", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, rec)
}

func (h *AdminEditaisHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.editais.Delete(c.Request.Context(), id); err != nil {
		h.logServiceError("Delete", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}

func (h *AdminEditaisHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := h.editais.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logServiceError("Get", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, rec)
}

// List is the back-office listing; unlike the public catalog it bypasses
// the cache and includes drafts.
func (h *AdminEditaisHandler) List(c *gin.Context) {
	f := repos.ListFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Page:     intQuery(c, "page", 1),
		PerPage:  intQuery(c, "per_page", 20),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st := types.Status(raw)
		if !st.Valid() {
			response.RespondError(c, http.StatusBadRequest, "invalid_status", errors.New("unknown status "+raw))
			return
		}
		f.Status = st
	}

	items, total, err := h.editais.List(c.Request.Context(), f)
	if err != nil {
		h.logServiceError("List", err)
		response.RespondFromError(c, err)
		return
	}
	if items == nil {
		items = []*types.Edital{}
	}
	response.RespondOK(c, gin.H{
		"items":    items,
		"total":    total,
		"page":     f.Page,
		"per_page": f.PerPage,
	})
}

func (h *AdminEditaisHandler) logServiceError(op string, err error) {
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidArgument) {
		return
	}
	h.log.Error(op+" failed", "error", err)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}
