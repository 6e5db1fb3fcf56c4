package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches account routes. public is reachable without a credential.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/register", h.register)
	public.POST("/login", h.login)
	protected.GET("/data", h.data)
	protected.GET("/resumes", h.resumes)
}

func (h *Handler) register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	user, token, err := h.Svc.Register(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, gin.H{"message": "User created successfully", "token": token, "user": user})
}

func (h *Handler) login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	user, token, err := h.Svc.Login(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Login successful", "token": token, "user": user})
}

func (h *Handler) data(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"user": user})
}

func (h *Handler) resumes(c *gin.Context) {
	list, err := h.Svc.ListResumes(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"resumes": list})
}

func writeError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		respond.Error(c, http.StatusBadRequest, "validation_error", validationMessage(validationErrs))
	case errors.Is(err, ErrEmailTaken):
		respond.Error(c, http.StatusBadRequest, "email_taken", "User already exists")
	case errors.Is(err, ErrInvalidLogin):
		respond.Error(c, http.StatusBadRequest, "invalid_login", "Invalid email or password")
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "User not found")
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process request")
	}
}

func validationMessage(errs validator.ValidationErrors) string {
	for _, e := range errs {
		if e.Tag() == "required" {
			return "Missing required fields"
		}
	}
	e := errs[0]
	switch e.Tag() {
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	default:
		return "validation failed on " + e.Field()
	}
}
