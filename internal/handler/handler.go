package handler

import (
	"log"
	"net/http"

	"github.com/bill8575/e-learning/internal/auth"

	"github.com/gin-gonic/gin"
)

// Handler maps HTTP requests to auth controller intents and renders
// the resulting lifecycle event.
type Handler struct {
	controller *auth.Controller
}

func NewHandler(controller *auth.Controller) *Handler {
	return &Handler{controller: controller}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/signup", h.SignUp)
	r.POST("/auth/login", h.LogIn)
	r.POST("/auth/restore", h.Restore)
	r.POST("/auth/logout", h.Logout)

	for _, route := range r.Routes() {
		log.Printf("[ROUTE] %s %s", route.Method, route.Path)
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	e := h.controller.SignUp(c.Request.Context(), req.Email, req.Password)
	writeEvent(c, e, http.StatusCreated)
}

func (h *Handler) LogIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	e := h.controller.LogIn(c.Request.Context(), req.Email, req.Password)
	writeEvent(c, e, http.StatusOK)
}

func (h *Handler) Restore(c *gin.Context) {
	e := h.controller.Restore(c.Request.Context())
	writeEvent(c, e, http.StatusOK)
}

func (h *Handler) Logout(c *gin.Context) {
	h.controller.Logout(c.Request.Context())

	// idempotent response
	c.Status(http.StatusNoContent)
}

// writeEvent renders a lifecycle event. okStatus applies to success;
// failures map to 401 and the inert none event to 204.
func writeEvent(c *gin.Context, e auth.Event, okStatus int) {
	switch e.Kind {
	case auth.EventSuccess:
		c.JSON(okStatus, gin.H{
			"email":          e.Email,
			"userId":         e.UserID,
			"token":          e.Token,
			"expirationDate": e.ExpirationDate,
			"redirect":       e.Redirect,
		})
	case auth.EventFail:
		c.JSON(http.StatusUnauthorized, gin.H{"error": e.Message})
	default:
		c.Status(http.StatusNoContent)
	}
}
