package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiyohan/StarHack/utils"
	"go.uber.org/zap"
)

const companionPersona = `You are a kind, compassionate, and strictly non-judgmental emotional support companion.
You must adopt the persona of a warm, human-like companion who is ONLY there to listen and offer supportive guidance.

YOUR SOLE AND ONLY FUNCTION IS EMOTIONAL CONSULTATION.

STRICT RESTRICTIONS:
1. NEVER use the phrase "As a large language model...", "AI", "chatbot", or similar.
2. NEVER discuss your general capabilities (code, stories, summaries, etc.).
3. NEVER provide medical advice, financial advice, or specific emergency protocols.
4. If the user asks about your identity, always respond by redirecting to their emotional state.

Focus 100% on the user's emotional state, validate their feelings, and offer constructive, comforting advice.`

const identityDeflection = "I am here only to listen and provide emotional support and guidance. That is my whole purpose in this conversation. I'm here for you, so tell me, how are you feeling right now?"

const chatFallback = "I hit a snag, but I'm still here. Please try again or take a break. Remember, I'm here to listen."

// Phrases that tend to break the persona; answered locally without an API
// call.
var identityTriggers = []string{
	"what can you do",
	"who are you",
	"what are you",
	"tell me about yourself",
}

var chatClient = &http.Client{Timeout: 20 * time.Second}

type chatTurn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Chat proxies one conversation turn to the generative-language API under
// the fixed companion persona. The API key stays server-side.
func Chat(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Message string     `json:"message"`
		History []chatTurn `json:"history"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	utils.ChatTurns.Inc()

	lower := strings.ToLower(strings.TrimSpace(input.Message))
	for _, trigger := range identityTriggers {
		if strings.Contains(lower, trigger) {
			c.JSON(http.StatusOK, gin.H{"reply": identityDeflection})
			return
		}
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		utils.Logger.Error("chat_api_key_missing")
		c.JSON(http.StatusOK, gin.H{"reply": chatFallback})
		return
	}

	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: companionPersona}}},
	}
	reqBody.GenerationConfig.Temperature = 0.5
	reqBody.GenerationConfig.MaxOutputTokens = 300

	for _, turn := range input.History {
		role := "user"
		if turn.Role == "model" || turn.Role == "bot" {
			role = "model"
		}
		reqBody.Contents = append(reqBody.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: turn.Text}},
		})
	}
	reqBody.Contents = append(reqBody.Contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: input.Message}},
	})

	payload, err := json.Marshal(reqBody)
	if err != nil {
		utils.Logger.Error("chat_marshal_failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"reply": chatFallback})
		return
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}
	url := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		model, apiKey,
	)

	resp, err := chatClient.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		utils.Logger.Error("chat_request_failed", zap.Error(err), zap.Uint("user_id", user.ID))
		c.JSON(http.StatusOK, gin.H{"reply": chatFallback})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || resp.StatusCode != http.StatusOK {
		utils.Logger.Error("chat_bad_response",
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{"reply": chatFallback})
		return
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil ||
		len(parsed.Candidates) == 0 ||
		len(parsed.Candidates[0].Content.Parts) == 0 {
		utils.Logger.Error("chat_parse_failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"reply": chatFallback})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": parsed.Candidates[0].Content.Parts[0].Text})
}
