package ai

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/util"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches AI routes to a group that already requires a credential.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/enhance-pro-sum", h.enhanceSummary)
	rg.POST("/enhance-job-desc", h.enhanceJobDescription)
	rg.POST("/upload-resume", h.uploadResume)
	rg.POST("/upload-resume-file", h.uploadResumeFile)
}

type enhanceRequest struct {
	UserContent string `json:"userContent"`
}

type enhanceResponse struct {
	EnhancedContent string `json:"enhancedContent"`
}

func (h *Handler) enhanceSummary(c *gin.Context) {
	var req enhanceRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.Svc.EnhanceSummary(c.Request.Context(), req.UserContent)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, enhanceResponse{EnhancedContent: out})
}

func (h *Handler) enhanceJobDescription(c *gin.Context) {
	var req enhanceRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.Svc.EnhanceJobDescription(c.Request.Context(), req.UserContent)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, enhanceResponse{EnhancedContent: out})
}

type uploadRequest struct {
	ResumeText string `json:"resumeText"`
	Title      string `json:"title"`
}

type uploadResponse struct {
	ResumeID string `json:"resumeId"`
}

func (h *Handler) uploadResume(c *gin.Context) {
	var req uploadRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.Svc.ExtractResume(c.Request.Context(), middleware.UserIDFromContext(c), req.Title, req.ResumeText)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("resumeId", id)
	respond.OK(c, uploadResponse{ResumeID: id})
}

func (h *Handler) uploadResumeFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds 10MB limit")
			return
		}
		writeError(c, ErrValidation)
		return
	}
	fileName, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file")
		return
	}

	id, err := h.Svc.ExtractResumeFile(
		c.Request.Context(),
		middleware.UserIDFromContext(c),
		c.PostForm("title"),
		fileName,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("resumeId", id)
	respond.OK(c, uploadResponse{ResumeID: id})
}

// bindJSON decodes the body into dst. A body that does not decode is reported like missing fields.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		telemetry.Debug("ai.bind_failed", map[string]any{
			"error":      err.Error(),
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusBadRequest, "invalid_body", "Missing required fields")
		return false
	}
	return true
}

// writeError keeps every AI failure on 400 {message} and records the kind under code.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Missing required fields")
	case errors.Is(err, llm.ErrGateway):
		respond.Error(c, http.StatusBadRequest, "gateway_error", err.Error())
	case errors.Is(err, ErrExtractionParse):
		respond.Error(c, http.StatusBadRequest, "extraction_parse_error", err.Error())
	case errors.Is(err, ErrUnsupportedFile):
		respond.Error(c, http.StatusBadRequest, "unsupported_file", err.Error())
	default:
		respond.Error(c, http.StatusBadRequest, "storage_error", err.Error())
	}
}
