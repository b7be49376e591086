package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"naform.link/configs"
	"naform.link/configs/configslog"
	"naform.link/models"

	"go.uber.org/zap"
)

// GeneratorServiceError şema üreticisi hataları.
type GeneratorServiceError string

func (e GeneratorServiceError) Error() string { return string(e) }

const (
	ErrGeneratorFailed     GeneratorServiceError = "form üretimi başarısız oldu"
	ErrGeneratorBadJSON    GeneratorServiceError = "üretici geçersiz JSON döndürdü"
	ErrGeneratorIncomplete GeneratorServiceError = "üretilen form zorunlu alanları içermiyor"
)

// ISchemaGenerator serbest metinden anket şeması üreten dış servisin arayüzü.
// Çekirdek için opak bir bağımlılıktır; içeride ne olduğu modellenmez.
type ISchemaGenerator interface {
	Generate(ctx context.Context, name, description string) (models.FormDefinition, error)
	Name() string
}

const generatorSystemPrompt = `You are an expert form builder AI that creates professional SurveyJS form configurations.

Your task is to generate a complete SurveyJS form definition based on the user's description. The form should:

1. Follow SurveyJS best practices and modern survey design principles
2. Include appropriate question types for the use case
3. Have logical page breaks for multi-step forms when appropriate
4. Include proper validation rules
5. Use professional, clear question text
6. Include helpful placeholder text
7. Group related questions logically
8. Generate a professional, concise description that describes what the form collects

Available SurveyJS question types:
- text: Simple text input
- comment: Multi-line text area
- dropdown: Single selection dropdown
- checkbox: Multiple selection checkboxes
- radiogroup: Single selection radio buttons
- rating: Rating scale (1-5, 1-10, etc.)
- ranking: Rank items in order
- boolean: Yes/No or True/False
- email: Email input with validation
- file: File upload
- html: Display HTML content
- matrix: Grid of questions
- matrixdynamic: Dynamic matrix with add/remove rows
- paneldynamic: Repeating panel of questions

Form structure should include:
- title and description (generate a professional description, don't copy user input)
- checkErrorsMode: "onNext" for multi-page forms, "onComplete" for single-page forms
- showProgressBar: "top" for multi-page forms, "false" for single-page forms
- progressBarType: "buttons" for multi-page forms
- showQuestionNumbers: "off" for cleaner look
- pages array with elements
- completeText: "Submit Form"

Return ONLY the JSON object, no additional text or explanation.`

// OpenAIGenerator ISchemaGenerator'ı chat-completions API'si üzerinden uygular.
type OpenAIGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIGenerator yapılandırmadan bir üretici kurar.
// API anahtarı yoksa nil döner; çağıran form üretimini devre dışı bırakır.
func NewOpenAIGenerator(cfg *configs.Config) *OpenAIGenerator {
	if cfg.GeneratorAPIKey == "" {
		return nil
	}
	return &OpenAIGenerator{
		apiKey:  cfg.GeneratorAPIKey,
		model:   cfg.GeneratorModel,
		baseURL: strings.TrimSuffix(cfg.GeneratorBaseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Name üreticinin provenans etiketi (FormConfig.generatedBy'a yazılır).
func (g *OpenAIGenerator) Name() string {
	return g.model
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_completion_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

var markdownFence = regexp.MustCompile("```json\n?|\n?```")

// Generate istenen form için şema üretir, yanıtı ayrıştırır ve şeklini doğrular.
func (g *OpenAIGenerator) Generate(ctx context.Context, name, description string) (models.FormDefinition, error) {
	userPrompt := fmt.Sprintf(`Create a professional form for: %q

Description: %s

Generate a complete SurveyJS form definition that captures all the necessary information based on this description. Make it user-friendly, logical, and comprehensive.`, name, description)

	reqBody, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: generatorSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.7,
		MaxTokens:   4000,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		configslog.Log.Error("Şema üreticisine ulaşılamadı", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGeneratorFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		configslog.Log.Error("Şema üreticisi hata döndürdü", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: durum kodu %d", ErrGeneratorFailed, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneratorBadJSON, err)
	}
	if len(parsed.Choices) == 0 {
		return nil, ErrGeneratorBadJSON
	}

	// Üretici bazen JSON'u markdown kod bloğuna sarar; bloğu soy.
	content := strings.TrimSpace(markdownFence.ReplaceAllString(parsed.Choices[0].Message.Content, ""))

	var def models.FormDefinition
	if err := json.Unmarshal([]byte(content), &def); err != nil {
		configslog.Log.Error("Üretici yanıtı JSON olarak ayrıştırılamadı", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGeneratorBadJSON, err)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneratorIncomplete, err)
	}
	return def, nil
}

var _ ISchemaGenerator = (*OpenAIGenerator)(nil)
