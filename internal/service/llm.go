package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"

// FoodEstimate is the structured result of a photo analysis.
type FoodEstimate struct {
	FoodItem string  `json:"food_item"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

const imageAnalysisPrompt = `Identify the food in this image and provide a calorie estimate AND macronutrients (protein, carbs, fats in grams) for the serving size shown. Return ONLY raw JSON in this format: { "food_item": "Food Name", "calories": number, "protein": number, "carbs": number, "fats": number }. If it's not food, return { "food_item": "Unknown", "calories": 0, "protein": 0, "carbs": 0, "fats": 0 }. Do not include markdown formatting or backticks.`

// SuggestionPrompt builds the meal suggestion prompt from today's intake.
func SuggestionPrompt(history string, dailyGoal, remaining int) string {
	return fmt.Sprintf(`I am a user tracking my calories.
My daily goal is %d calories.
So far today I have eaten: %s.
I have %d calories remaining in my budget.

Please suggest ONE specific, tasty, and healthy meal or snack option that fits perfectly into my remaining calorie budget.
Do not suggest something that exceeds the limit significantly.
If I have very few calories left (less than 100), suggest a tea or very light snack.

Keep the response friendly and formatted like this:
"[Meal Name] ([Approx Calories] cal)

[Short appetizing description of why this is good for me right now]"`, dailyGoal, history, remaining)
}

// OverviewPrompt builds the daily overview prompt from today's intake.
func OverviewPrompt(history string, dailyGoal, caloriesToday int) string {
	return fmt.Sprintf(`Act as a friendly, encouraging nutritionist coach.
Analyze my food log for today: %s.
My goal is %d calories and I have consumed %d.

Provide a 2-3 sentence summary.
1. Give me positive reinforcement.
2. Give me one specific nutritional tip based on what I ate.
Be concise.`, history, dailyGoal, caloriesToday)
}

// GeminiService handles interactions with the Gemini generateContent API.
// Calls are stateless; retries with exponential backoff cover rate limits
// and transient upstream failures.
type GeminiService struct {
	apiKey string
	apiURL string
	client *http.Client
	redis  *redis.Client

	retryAttempts  int
	retryBaseDelay time.Duration
}

// NewGeminiService creates a new GeminiService instance. The Redis client
// is optional and only used to cache generated text for the day.
func NewGeminiService(redisClient *redis.Client) (*GeminiService, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("GEMINI_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY or GEMINI_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("GEMINI_API_URL")
	if apiURL == "" {
		apiURL = defaultGeminiURL
	}

	return &GeminiService{
		apiKey:         apiKey,
		apiURL:         apiURL,
		client:         &http.Client{Timeout: 30 * time.Second},
		redis:          redisClient,
		retryAttempts:  3,
		retryBaseDelay: time.Second,
	}, nil
}

// geminiPart is one content part: either text or inline image data.
type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate posts the given parts and returns the first candidate's text.
// Rate-limited and non-2xx responses are retried with doubling delay;
// after the attempts are exhausted the last error propagates.
func (s *GeminiService) generate(ctx context.Context, parts []geminiPart) (string, error) {
	reqBody := geminiRequest{}
	reqBody.Contents = []struct {
		Parts []geminiPart `json:"parts"`
	}{{Parts: parts}}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	delay := s.retryBaseDelay
	for attempt := 0; attempt < s.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"?key="+s.apiKey, bytes.NewReader(jsonData))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("failed to send request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limit exceeded")
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
			continue
		}

		var result geminiResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
		if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("no response from API")
		}
		return result.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", lastErr
}

// AnalyzeImage runs the food identification prompt on an image. A
// malformed model response is ErrAnalysisFailed and is not retried.
func (s *GeminiService) AnalyzeImage(ctx context.Context, base64Data, mimeType string) (*FoodEstimate, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	text, err := s.generate(ctx, []geminiPart{
		{Text: imageAnalysisPrompt},
		{InlineData: &geminiInlineData{MimeType: mimeType, Data: base64Data}},
	})
	if err != nil {
		return nil, err
	}

	// Strip markdown fences the model sometimes adds despite instructions
	clean := strings.TrimSpace(text)
	clean = strings.ReplaceAll(clean, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var estimate FoodEstimate
	if err := json.Unmarshal([]byte(clean), &estimate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	return &estimate, nil
}

// GenerateText runs a plain text prompt.
func (s *GeminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	return s.generate(ctx, []geminiPart{{Text: prompt}})
}

func textCacheKey(userID uuid.UUID, date, kind string) string {
	return fmt.Sprintf("ai:text:%s:%s:%s", userID, date, kind)
}

// CachedText returns the stored text for (user, date, kind), or "" on a
// miss. The daily quota makes the result stable for the rest of the day.
func (s *GeminiService) CachedText(ctx context.Context, userID uuid.UUID, date, kind string) string {
	if s.redis == nil {
		return ""
	}
	text, err := s.redis.Get(ctx, textCacheKey(userID, date, kind)).Result()
	if err != nil {
		return ""
	}
	return text
}

// StoreText caches generated text for 24 hours.
func (s *GeminiService) StoreText(ctx context.Context, userID uuid.UUID, date, kind, text string) {
	if s.redis == nil {
		return
	}
	s.redis.Set(ctx, textCacheKey(userID, date, kind), text, 24*time.Hour)
}
