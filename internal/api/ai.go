package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitbite/backend/internal/service"
	"github.com/fitbite/backend/internal/types"
)

// AIHandler exposes the quota-gated Gemini endpoints. Quota is reserved
// before the upstream call and released again when the call fails, so a
// failed analysis never costs the user an attempt.
type AIHandler struct {
	gemini   *service.GeminiService
	stats    *service.StatsService
	images   *service.ImageService
	foodLogs *service.FoodLogService
}

func NewAIHandler(gemini *service.GeminiService, stats *service.StatsService, images *service.ImageService, foodLogs *service.FoodLogService) *AIHandler {
	return &AIHandler{
		gemini:   gemini,
		stats:    stats,
		images:   images,
		foodLogs: foodLogs,
	}
}

func (h *AIHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/analyze-image", h.AnalyzeImage)
	router.POST("/generate", h.Generate)
}

func quotaDate(localDate string) string {
	if localDate != "" {
		return localDate
	}
	return time.Now().UTC().Format("2006-01-02")
}

// AnalyzeImage estimates calories and macros from a meal photo, logs the
// meal, and stores the photo when S3 is configured.
func (h *AIHandler) AnalyzeImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if h.gemini == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI features are not configured"})
		return
	}

	var req types.AnalyzeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	date := quotaDate(req.LocalDate)

	if err := h.stats.ReserveQuota(ctx, userID, date, service.ActionScan); err != nil {
		var quotaErr *service.QuotaError
		if errors.As(err, &quotaErr) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": quotaErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check quota"})
		return
	}

	estimate, err := h.gemini.AnalyzeImage(ctx, req.Base64Data, req.MimeType)
	if err != nil {
		if releaseErr := h.stats.ReleaseQuota(ctx, userID, date, service.ActionScan); releaseErr != nil {
			log.Printf("quota release failed for user %s: %v", userID, releaseErr)
		}
		if errors.Is(err, service.ErrAnalysisFailed) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not analyze the image"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Image analysis failed"})
		return
	}

	// Photo storage is best-effort
	imageURL := ""
	if h.images.Enabled() {
		url, err := h.images.UploadMealPhoto(ctx, userID, req.Base64Data, req.MimeType)
		if err != nil {
			log.Printf("meal photo upload failed for user %s: %v", userID, err)
		} else {
			imageURL = url
		}
	}

	entry, err := h.foodLogs.Create(ctx, userID, &types.CreateFoodLogRequest{
		FoodItem:  estimate.FoodItem,
		Calories:  estimate.Calories,
		Protein:   estimate.Protein,
		Carbs:     estimate.Carbs,
		Fats:      estimate.Fats,
		Method:    "ai-scan",
		ImageURL:  imageURL,
		LocalDate: req.LocalDate,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save food log"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"estimate": estimate,
		"log":      entry,
	})
}

// Generate produces the daily suggestion or overview text. Repeat calls
// on the same day return the cached text without consuming quota.
func (h *AIHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if h.gemini == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI features are not configured"})
		return
	}

	var req types.GenerateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	date := quotaDate(req.LocalDate)

	if cached := h.gemini.CachedText(ctx, userID, date, req.Kind); cached != "" {
		c.JSON(http.StatusOK, gin.H{"text": cached, "cached": true})
		return
	}

	if err := h.stats.ReserveQuota(ctx, userID, date, req.Kind); err != nil {
		var quotaErr *service.QuotaError
		if errors.As(err, &quotaErr) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": quotaErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check quota"})
		return
	}

	var prompt string
	if req.Kind == service.ActionSuggestion {
		prompt = service.SuggestionPrompt(req.History, req.DailyGoal, req.Remaining)
	} else {
		prompt = service.OverviewPrompt(req.History, req.DailyGoal, req.CaloriesToday)
	}

	text, err := h.gemini.GenerateText(ctx, prompt)
	if err != nil {
		if releaseErr := h.stats.ReleaseQuota(ctx, userID, date, req.Kind); releaseErr != nil {
			log.Printf("quota release failed for user %s: %v", userID, releaseErr)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Text generation failed"})
		return
	}

	h.gemini.StoreText(ctx, userID, date, req.Kind, text)
	c.JSON(http.StatusOK, gin.H{"text": text, "cached": false})
}
