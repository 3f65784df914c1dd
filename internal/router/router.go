package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitbite/backend/internal/api"
	"github.com/fitbite/backend/internal/database"
	"github.com/fitbite/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(db *gorm.DB, jwtSecret string, deps api.Deps) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || database.HealthCheck(c.Request.Context(), sqlDB) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.SetupAPI(router, db, jwtSecret, deps)

	return router
}
