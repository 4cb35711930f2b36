package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fapdigital/editais-backend/internal/http/response"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
	"github.com/fapdigital/editais-backend/internal/services"
)

type DashboardHandler struct {
	log       *logger.Logger
	dashboard services.DashboardService
	sweeps    services.StatusSweepService
	loc       *time.Location
}

func NewDashboardHandler(
	log *logger.Logger,
	dashboard services.DashboardService,
	sweeps services.StatusSweepService,
	loc *time.Location,
) *DashboardHandler {
	return &DashboardHandler{
		log:       log.With("handler", "DashboardHandler"),
		dashboard: dashboard,
		sweeps:    sweeps,
		loc:       loc,
	}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		h.log.Error("Summary failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "dashboard_failed", err)
		return
	}
	response.RespondOK(c, summary)
}

// TriggerSweep runs a status sweep on demand. dry_run=true reports what
// would change without writing; date=YYYY-MM-DD sweeps as of another day.
func (h *DashboardHandler) TriggerSweep(c *gin.Context) {
	dryRun := false
	if raw := strings.TrimSpace(c.Query("dry_run")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_argument", errors.New("dry_run must be a boolean"))
			return
		}
		dryRun = v
	}

	today := time.Now().In(h.loc)
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, h.loc)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_argument", errors.New("date must be YYYY-MM-DD"))
			return
		}
		today = t
	}

	result, err := h.sweeps.Sweep(c.Request.Context(), today, dryRun)
	if err != nil {
		h.log.Error("TriggerSweep failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "sweep_failed", err)
		return
	}
	response.RespondOK(c, result)
}
