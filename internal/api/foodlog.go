package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fitbite/backend/internal/service"
	"github.com/fitbite/backend/internal/types"
)

type FoodLogHandler struct {
	foodLogs *service.FoodLogService
}

func NewFoodLogHandler(foodLogs *service.FoodLogService) *FoodLogHandler {
	return &FoodLogHandler{foodLogs: foodLogs}
}

func (h *FoodLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/food-logs")
	{
		logs.GET("", h.List)
		logs.POST("", h.Create)
		logs.PUT("/:id", h.Update)
		logs.DELETE("/:id", h.Delete)
	}
}

func (h *FoodLogHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	logs, err := h.foodLogs.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch food logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h *FoodLogHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateFoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.foodLogs.Create(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create food log"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *FoodLogHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log ID"})
		return
	}

	var req types.UpdateFoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.foodLogs.Update(c.Request.Context(), userID, logID, &req)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Food log not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update food log"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *FoodLogHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log ID"})
		return
	}

	err = h.foodLogs.Delete(c.Request.Context(), userID, logID)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Food log not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete food log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Food log deleted"})
}
