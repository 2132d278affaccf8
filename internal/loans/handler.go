package loans

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lms-backend/internal/platform/apierr"
	"lms-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

// RegisterAdminRoutes mounts issue/return and the full loan ledger behind
// the admin guard.
func RegisterAdminRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/loans", h.Issue)
	r.GET("/loans", h.List)
	r.POST("/loans/:key/return", h.Return)
}

// RegisterStudentRoutes mounts the self-service views behind the student
// guard.
func RegisterStudentRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/my/loans", h.MyLoans)
	r.POST("/my/loans/:key/renew", h.Renew)
}

func (h *Handler) Issue(c *gin.Context) {
	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.Invalid("student_id and book_id are required")))
		return
	}

	res, err := h.svc.Issue(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.Body(err))
		return
	}
	c.Header("Location", "/loans/"+res.ULID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Return(c *gin.Context) {
	res, err := h.svc.Return(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.Body(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) List(c *gin.Context) {
	var f ListFilter
	if v := c.Query("student_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, apierr.Body(apierr.Invalid("student_id must be a positive number")))
			return
		}
		f.StudentID = &id
	}
	if v := c.Query("open"); v == "true" || v == "1" {
		f.OpenOnly = true
	}

	res, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.Body(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) MyLoans(c *gin.Context) {
	p, ok := auth.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierr.Body(apierr.Unauthorized("not logged in")))
		return
	}

	res, err := h.svc.ListByStudent(c.Request.Context(), p.ID)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.Body(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Renew(c *gin.Context) {
	p, ok := auth.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierr.Body(apierr.Unauthorized("not logged in")))
		return
	}

	res, err := h.svc.Renew(c.Request.Context(), c.Param("key"), p.ID)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.Body(err))
		return
	}
	c.JSON(http.StatusOK, res)
}
