package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/sheet-tables-server/internal/models"
	"github.com/rongwang/sheet-tables-server/internal/service"
	"github.com/rongwang/sheet-tables-server/internal/utils"
)

// Handler exposes the service over HTTP
type Handler struct {
	svc    service.Service
	logger *utils.Logger
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service, logger *utils.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// SetupRoutes registers every route on router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", h.SignUp)
	auth.POST("/login", h.Login)

	tables := api.Group("/tables")
	tables.Use(AuthMiddleware())
	tables.POST("", h.CreateTable)
	tables.GET("", h.ListTables)
	tables.GET("/:id", h.GetTable)
	tables.PUT("/:id/sync", h.SyncTable)
	tables.DELETE("/:id", h.DeleteTable)
}

// SignUp handles POST /api/auth/signup
func (h *Handler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.svc.SignUp(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateTable handles POST /api/tables
func (h *Handler) CreateTable(c *gin.Context) {
	var req models.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	table, err := h.svc.CreateTable(c.Request.Context(), c.GetString("userId"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, table)
}

// ListTables handles GET /api/tables
func (h *Handler) ListTables(c *gin.Context) {
	tables, err := h.svc.ListTables(c.Request.Context(), c.GetString("userId"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tables)
}

// GetTable handles GET /api/tables/:id
func (h *Handler) GetTable(c *gin.Context) {
	table, err := h.svc.GetTable(c.Request.Context(), c.GetString("userId"), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, table)
}

// SyncTable handles PUT /api/tables/:id/sync
func (h *Handler) SyncTable(c *gin.Context) {
	table, err := h.svc.SyncTable(c.Request.Context(), c.GetString("userId"), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, table)
}

// DeleteTable handles DELETE /api/tables/:id
func (h *Handler) DeleteTable(c *gin.Context) {
	if err := h.svc.DeleteTable(c.Request.Context(), c.GetString("userId"), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Status:  "success",
		Message: "deleted",
	})
}
