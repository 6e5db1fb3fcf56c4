package resumes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes. public is reachable without a credential.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	protected.POST("/create", h.create)
	protected.GET("/get/:resumeId", h.get)
	protected.PUT("/update", h.update)
	protected.DELETE("/delete/:resumeId", h.remove)
	public.GET("/public/:resumeId", h.getPublic)
}

type createRequest struct {
	Title string `json:"title"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body")
			return
		}
	}

	resume, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, gin.H{"message": "Resume created successfully", "resume": resume})
}

func (h *Handler) get(c *gin.Context) {
	resume, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("resumeId"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": resume})
}

func (h *Handler) getPublic(c *gin.Context) {
	resume, err := h.Svc.GetPublic(c.Request.Context(), c.Param("resumeId"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": resume})
}

type updateRequest struct {
	ResumeID   string          `json:"resumeId"`
	ResumeData json.RawMessage `json:"resumeData"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req.ResumeID = c.PostForm("resumeId")
		if raw := c.PostForm("resumeData"); raw != "" {
			req.ResumeData = json.RawMessage(raw)
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if strings.TrimSpace(req.ResumeID) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Missing required fields")
		return
	}

	resume, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), req.ResumeID, req.ResumeData)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Saved successfully", "resume": resume})
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("resumeId")); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Resume deleted successfully"})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Resume not found")
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error())
	default:
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to process resume")
	}
}
