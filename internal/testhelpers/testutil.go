package testhelpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fitbite/backend/internal/models"
	"github.com/fitbite/backend/internal/service"
	"github.com/fitbite/backend/internal/types"
)

// CreateTestUser creates a user row with a bcrypt-hashed password.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte("testpassword123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        fmt.Sprintf("testuser+%s@example.com", uuid.New()),
		PasswordHash: string(hashed),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestUserAndToken registers a user through the auth service and
// returns their ID plus a valid JWT.
func CreateTestUserAndToken(t *testing.T, db *gorm.DB, auth *service.AuthService) (uuid.UUID, string) {
	email := fmt.Sprintf("testuser+%s@example.com", uuid.New())
	token, err := auth.Register("Test User", email, "testpassword123")
	if err != nil {
		t.Fatalf("failed to register test user: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate test token: %v", err)
	}
	return claims.UserID, token
}

// MockTokenValidator is a token validator with canned results.
type MockTokenValidator struct {
	Claims *types.TokenClaims
	Error  error
}

func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Claims, nil
}

// JSONMarshal marshals a value for a request body, failing the test on error.
func JSONMarshal(t *testing.T, v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return data
}

// PerformRequest runs an HTTP request against the router, optionally with
// a bearer token, and returns the recorder.
func PerformRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(JSONMarshal(t, body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
