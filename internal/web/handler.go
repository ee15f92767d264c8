package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerylCAtieno/idea-validator/internal/analysis"
	"github.com/BerylCAtieno/idea-validator/internal/logger"
	"github.com/BerylCAtieno/idea-validator/internal/render"
)

type Handler struct {
	session *analysis.Session
	logger  logger.Logger
}

func NewHandler(session *analysis.Session, log logger.Logger) *Handler {
	return &Handler{
		session: session,
		logger:  log.With(map[string]interface{}{"component": "web"}),
	}
}

type submitRequest struct {
	Idea string `json:"idea"`
}

type submitResponse struct {
	RunID  string          `json:"runId"`
	Status analysis.Status `json:"status"`
}

// Page renders the form and, depending on status, the progress label, the
// error banner or the scorecard.
func (h *Handler) Page(c *gin.Context) {
	c.HTML(http.StatusOK, render.PageTemplate, render.NewPageData(h.session.Snapshot()))
}

// SubmitForm handles the browser form. Rejected submissions leave the state
// untouched, so the page is simply shown again.
func (h *Handler) SubmitForm(c *gin.Context) {
	if _, err := h.session.Submit(c.PostForm("idea")); err != nil {
		h.logger.Warn("form submission rejected", map[string]interface{}{
			"reason": err.Error(),
		})
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) CreateEvaluation(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	run, err := h.session.Submit(req.Idea)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, submitResponse{
		RunID:  run.ID,
		Status: h.session.Snapshot().Status,
	})
}

func (h *Handler) CurrentEvaluation(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Snapshot())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, analysis.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
