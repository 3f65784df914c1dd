package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fitbite/backend/internal/service"
	"github.com/fitbite/backend/internal/types"
)

type WorkoutHandler struct {
	workouts *service.WorkoutService
}

func NewWorkoutHandler(workouts *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts}
}

func (h *WorkoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	workouts := router.Group("/workouts")
	{
		workouts.GET("", h.List)
		workouts.POST("", h.AddExercise)
		workouts.PUT("/:id/sets", h.UpdateSets)
		workouts.DELETE("/:id", h.DeleteLog)
		workouts.POST("/finish", h.Finish)
		workouts.POST("/discard", h.Discard)
		workouts.GET("/last/:exercise", h.LastCompleted)
	}
}

// List returns logs filtered by ?date= or ?status=; with neither, the
// active session's logs.
func (h *WorkoutHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	logs, err := h.workouts.ListLogs(c.Request.Context(), userID, c.Query("date"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workout logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateWorkoutLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.workouts.AddExercise(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add exercise"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *WorkoutHandler) UpdateSets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log ID"})
		return
	}

	var req types.UpdateSetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.workouts.UpdateSets(c.Request.Context(), userID, logID, req.Sets)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Workout log not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sets"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *WorkoutHandler) DeleteLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log ID"})
		return
	}

	err = h.workouts.DeleteLog(c.Request.Context(), userID, logID)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Workout log not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete workout log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout log deleted"})
}

func (h *WorkoutHandler) Finish(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.FinishWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.workouts.Finish(c.Request.Context(), userID, req.IDs, req.Duration); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finish workout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout finished"})
}

func (h *WorkoutHandler) Discard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.DiscardWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.workouts.Discard(c.Request.Context(), userID, req.IDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to discard workout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout discarded"})
}

// LastCompleted returns the most recent log of an exercise from a
// completed session, for pre-filling weights and reps.
func (h *WorkoutHandler) LastCompleted(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entry, err := h.workouts.LastCompleted(c.Request.Context(), userID, c.Param("exercise"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exercise history"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"log": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": entry})
}
