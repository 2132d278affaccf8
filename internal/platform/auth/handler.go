package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lms-backend/internal/platform/apierr"
)

const sessionMaxAge = int(sessionTTL / time.Second)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/admin-login", h.LoginPrompt)
	r.POST("/admin-login", h.AdminLogin)
	r.GET("/student-login", h.LoginPrompt)
	r.POST("/student-login", h.StudentLogin)
	r.POST("/logout", h.Logout)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Kind    Kind   `json:"kind"`
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// LoginPrompt answers the GET that follows a guard redirect. There is no
// server-rendered form; clients POST credentials to the same path.
func (h *Handler) LoginPrompt(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "post email and password to log in"})
}

func (h *Handler) AdminLogin(c *gin.Context) {
	h.login(c, h.svc.LoginAdmin)
}

func (h *Handler) StudentLogin(c *gin.Context) {
	h.login(c, h.svc.LoginStudent)
}

func (h *Handler) login(c *gin.Context, fn func(ctx context.Context, email, password string) (string, Principal, error)) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.Invalid("email and password are required")))
		return
	}

	token, p, err := fn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.Body(err))
		return
	}

	// HTTP-only session cookie; Secure is left to the TLS terminator.
	c.SetCookie(SessionCookie, token, sessionMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, loginResponse{Kind: p.Kind, ID: p.ID, Message: "login successful"})
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
