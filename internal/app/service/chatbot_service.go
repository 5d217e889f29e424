package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ksaito/chocolatte-backend/config"
	"github.com/ksaito/chocolatte-backend/internal/app/repository"
	"github.com/ksaito/chocolatte-backend/pkg/logger"
)

var ErrChatbotUnavailable = errors.New("chatbot is not configured")

// ChatbotService answers customer questions about the drink menu
type ChatbotService interface {
	Ask(question string) (string, error)
}

type chatbotService struct {
	config      *config.Config
	productRepo repository.ProductRepository
	httpClient  *http.Client
}

func NewChatbotService(cfg *config.Config, productRepo repository.ProductRepository) ChatbotService {
	return &chatbotService{
		config:      cfg,
		productRepo: productRepo,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (s *chatbotService) Ask(question string) (string, error) {
	if s.config.OpenAI.APIKey == "" {
		return "", ErrChatbotUnavailable
	}

	prompt, err := s.buildPrompt(question)
	if err != nil {
		return "", err
	}

	answer, err := s.callOpenAI(prompt)
	if err != nil {
		logger.Error("Chatbot request failed", err)
		return "", fmt.Errorf("failed to call OpenAI API: %v", err)
	}
	return answer, nil
}

// buildPrompt grounds the assistant in the current ingredient catalogue so
// it only recommends drinks the shop can actually make.
func (s *chatbotService) buildPrompt(question string) (string, error) {
	products, err := s.productRepo.FindAll("")
	if err != nil {
		return "", err
	}

	var prompt strings.Builder
	prompt.WriteString("You are the assistant of an online hot chocolate shop. ")
	prompt.WriteString("Customers compose their own drinks from the ingredients below. ")
	prompt.WriteString("Answer questions about the menu and suggest combinations. ")
	prompt.WriteString("Only mention ingredients from this list, never invent ones.\n\n")

	prompt.WriteString("Available ingredients:\n")
	for _, p := range products {
		prompt.WriteString(fmt.Sprintf("- %s (%s, %.0f yen): %s\n", p.Name, p.Category, p.Price, p.Description))
	}

	prompt.WriteString("\nCustomer question:\n")
	prompt.WriteString(question)
	prompt.WriteString("\n\nReply with the answer text only, no preamble.")

	return prompt.String(), nil
}

func (s *chatbotService) callOpenAI(prompt string) (string, error) {
	reqData := openAIRequest{
		Model: s.config.OpenAI.Model,
		Messages: []openAIMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.openai.com/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.config.OpenAI.APIKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %v", err)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %v", err)
	}

	if openAIResp.Error != nil {
		return "", fmt.Errorf("OpenAI API error: %s", openAIResp.Error.Message)
	}
	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI API")
	}

	return strings.TrimSpace(openAIResp.Choices[0].Message.Content), nil
}
