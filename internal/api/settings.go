package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitbite/backend/internal/service"
	"github.com/fitbite/backend/internal/types"
)

type SettingsHandler struct {
	settings *service.SettingsService
}

func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/settings")
	{
		settings.GET("", h.Get)
		settings.PUT("", h.Update)
	}
}

// Get returns the user's settings. A user without a row gets defaults
// with is_new_user set, so the client can show onboarding.
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	settings, err := h.settings.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	if settings == nil {
		c.JSON(http.StatusOK, gin.H{
			"daily_goal":  2000,
			"is_new_user": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"daily_goal":     settings.DailyGoal,
		"protein_goal":   settings.ProteinGoal,
		"carbs_goal":     settings.CarbsGoal,
		"fats_goal":      settings.FatsGoal,
		"current_streak": settings.CurrentStreak,
		"last_log_date":  settings.LastLogDate,
		"timezone":       settings.Timezone,
		"is_new_user":    false,
	})
}

func (h *SettingsHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}
