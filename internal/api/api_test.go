package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitbite/backend/internal/api"
	"github.com/fitbite/backend/internal/service"
	"github.com/fitbite/backend/internal/testhelpers"
)

// geminiStub lets each test swap the upstream behavior.
type geminiStub struct {
	handler http.HandlerFunc
}

func (g *geminiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.handler(w, r)
}

func geminiText(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				}},
			},
		})
		w.Write(body)
	}
}

func setupAPITest(t *testing.T) (*gin.Engine, *gorm.DB, *geminiStub) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDB(t)

	stub := &geminiStub{handler: geminiText("ok")}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_API_URL", srv.URL)
	gemini, err := service.NewGeminiService(nil)
	require.NoError(t, err)

	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupAPI(router, db, "test-secret", api.Deps{Gemini: gemini})
	return router, db, stub
}

func registerUser(t *testing.T, router *gin.Engine) string {
	w := testhelpers.PerformRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Test User",
		"email":    uuid.New().String() + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAuthEndpoints(t *testing.T) {
	router, _, _ := setupAPITest(t)

	w := testhelpers.PerformRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Duplicate registration
	w = testhelpers.PerformRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = testhelpers.PerformRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = testhelpers.PerformRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Short password fails validation
	w = testhelpers.PerformRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router, _, _ := setupAPITest(t)

	for _, path := range []string{"/api/v1/food-logs", "/api/v1/stats", "/api/v1/settings", "/api/v1/workouts"} {
		w := testhelpers.PerformRequest(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := testhelpers.PerformRequest(t, router, http.MethodGet, "/api/v1/food-logs", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFoodLogFlow(t *testing.T) {
	router, _, _ := setupAPITest(t)
	token := registerUser(t, router)

	w := testhelpers.PerformRequest(t, router, http.MethodPost, "/api/v1/food-logs", token, gin.H{
		"food_item":  "Oatmeal",
		"calories":   350,
		"protein":    12,
		"local_date": "2026-09-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID     uuid.UUID `json:"id"`
		Method string    `json:"method"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "manual", created.Method)

	w = testhelpers.PerformRequest(t, router, http.MethodGet, "/api/v1/food-logs", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Logs []json.RawMessage `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Logs, 1)

	w = testhelpers.PerformRequest(t, router, http.MethodPut, "/api/v1/food-logs/"+created.ID.String(), token, gin.H{
		"food_item": "Oatmeal with Berries",
		"calories":  420,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// The meal log advanced the streak, visible via settings
	w = testhelpers.PerformRequest(t, router, http.MethodGet, "/api/v1/settings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var settings struct {
		CurrentStreak int  `json:"current_streak"`
		IsNewUser     bool `json:"is_new_user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, 1, settings.CurrentStreak)
	assert.False(t, settings.IsNewUser)

	w = testhelpers.PerformRequest(t, router, http.MethodDelete, "/api/v1/food-logs/"+created.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testhelpers.PerformRequest(t, router, http.MethodDelete, "/api/v1/food-logs/"+created.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFoodLogOwnershipAcrossUsers(t *testing.T) {
	router, _, _ := setupAPITest(t)
	ownerToken := registerUser(t, router)
	otherToken := registerUser(t, router)

	w := testhelpers.PerformRequest(t, router, http.MethodPost, "/api/v1/food-logs", ownerToken, gin.H{
		"food_item": "Secret Meal",
		"calories":  500,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = testhelpers.PerformRequest(t, router, http.MethodDelete, "/api/v1/food-logs/"+created.ID.String(), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testhelpers.PerformRequest(t, router, http.MethodGet, "/api/v1/food-logs", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Logs []json.RawMessage `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list.Logs)
}

func TestStatsEndpoints(t *testing.T) {
	router, _, _ := setupAPITest(t)
	token := registerUser(t, router)

	w := testhelpers.PerformRequest(t, router, http.MethodPut, "/api/v1/stats/metrics", token, gin.H{
		"date":         "2026-09-01",
		"water_intake": 750,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = testhelpers.PerformRequest(t, router, http.MethodPut, "/api/v1/stats/metrics", token, gin.H{
		"date":   "2026-09-01",
		"weight": 81.2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = testhelpers.PerformRequest(t, router, http.MethodGet, "/api/v1/stats?date=2026-09-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stat struct {
		WaterIntake int      `json:"water_intake"`
		Weight      *float64 `json:"weight"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stat))
	assert.Equal(t, 750, stat.WaterIntake)
	require.NotNil(t, stat.Weight)
	assert.InDelta(t, 81.2, *stat.Weight, 0.001)

	// Missing date in metric update is rejected
	w = testhelpers.PerformRequest(t, router, http.MethodPut, "/api/v1/stats/metrics", token, gin.H{
		"water_intake": 100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testhelpers.PerformRequest(t, router, http.MethodGet, "/api/v1/stats?date=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkoutFlow(t *testing.T) {
	router, _, _ := setupAPITest(t)
	token := registerUser(t, router)

	w := testhelpers.PerformRequest(t, router, http.MethodPost, "/api/v1/workouts", token, gin.H{
		"exercise": "Squat",
		"category": "legs",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = testhelpers.PerformRequest(t, router, http.MethodPut, "/api/v1/workouts/"+created.ID.String()+"/sets", token, gin.H{
		"sets": []gin.H{
			{"weight": "80", "reps": "5", "completed": true},
			{"weight": "85", "reps": "3", "completed": false},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = testhelpers.PerformRequest(t, router, http.MethodPost, "/api/v1/workouts/finish", token, gin.H{
		"ids":      []string{created.ID.String()},
		"duration": 1800,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = testhelpers.PerformRequest(t, router, http.MethodGet, "/api/v1/workouts?status=completed", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Logs []struct {
			Status          string `json:"status"`
			DurationSeconds int    `json:"duration_seconds"`
			Sets            []struct {
				Completed bool `json:"completed"`
			} `json:"sets"`
		} `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Logs, 1)
	assert.Equal(t, "completed", list.Logs[0].Status)
	assert.Equal(t, 1800, list.Logs[0].DurationSeconds)
	// The incomplete set was pruned on finish
	assert.Len(t, list.Logs[0].Sets, 1)
}

func TestSettingsNewUserDefaults(t *testing.T) {
	router, db, _ := setupAPITest(t)
	token := registerUser(t, router)

	// Remove the seeded row to simulate a pre-onboarding user
	claims, err := service.NewAuthService(db, "test-secret").ValidateToken(token)
	require.NoError(t, err)
	require.NoError(t, db.Exec("DELETE FROM user_settings WHERE user_id = ?", claims.UserID).Error)

	w := testhelpers.PerformRequest(t, router, http.MethodGet, "/api/v1/settings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		DailyGoal int  `json:"daily_goal"`
		IsNewUser bool `json:"is_new_user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2000, resp.DailyGoal)
	assert.True(t, resp.IsNewUser)

	w = testhelpers.PerformRequest(t, router, http.MethodPut, "/api/v1/settings", token, gin.H{
		"age":      30,
		"weight":   80,
		"height":   180,
		"gender":   "male",
		"activity": "moderate",
		"goal":     "maintain",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		DailyGoal int `json:"daily_goal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 2759, updated.DailyGoal)
}
