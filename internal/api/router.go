package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rongwang/sheet-tables-server/internal/utils"
)

// NewRouter builds the gin engine with middleware and all routes registered
func NewRouter(handler *Handler, logger *utils.Logger, jwtSecret []byte) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	router.Use(JWTSecret(jwtSecret))

	handler.SetupRoutes(router)

	return router
}
