package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fitbite/backend/config"
	"github.com/fitbite/backend/internal/middleware"
	"github.com/fitbite/backend/internal/service"
)

// Deps carries the optional external clients handlers depend on. Nil
// fields degrade the features that need them instead of failing setup.
type Deps struct {
	Redis  *redis.Client
	S3     *config.S3Config
	Gemini *service.GeminiService
}

// SetupAPI wires services, handlers and routes under /api/v1.
func SetupAPI(router *gin.Engine, db *gorm.DB, jwtSecret string, deps Deps) {
	authService := service.NewAuthService(db, jwtSecret)
	statsService := service.NewStatsService(db)
	streakService := service.NewStreakService(db)
	foodLogService := service.NewFoodLogService(db, streakService)
	workoutService := service.NewWorkoutService(db)
	templateService := service.NewTemplateService(db, workoutService)
	settingsService := service.NewSettingsService(db)
	imageService := service.NewImageService(deps.S3)

	v1 := router.Group("/api/v1")

	NewAuthHandler(authService).RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))

	NewFoodLogHandler(foodLogService).RegisterRoutes(protected)
	NewStatsHandler(statsService).RegisterRoutes(protected)
	NewWorkoutHandler(workoutService).RegisterRoutes(protected)
	NewTemplateHandler(templateService).RegisterRoutes(protected)
	NewSettingsHandler(settingsService).RegisterRoutes(protected)

	ai := protected.Group("/ai")
	if deps.Redis != nil {
		ai.Use(middleware.NewAIRateLimiter(deps.Redis).RateLimitMiddleware())
	}
	NewAIHandler(deps.Gemini, statsService, imageService, foodLogService).RegisterRoutes(ai)
}

// currentUserID reads the authenticated user set by the auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	return id, true
}
