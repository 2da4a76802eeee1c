package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"quizgenius/internal/domain"
	"google.golang.org/genai"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.4
	// MaxSourceChars caps how much of the pasted text is sent to the model.
	MaxSourceChars = 20000
)

// Config configures the Gemini client. Zero values fall back to the defaults above;
// an empty BaseURL uses the SDK's endpoint.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
}

// Gemini generates quizzes with the generateContent API and a JSON response schema.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGemini builds a Gemini API client. httpClient may be nil.
func NewGemini(ctx context.Context, cfg Config, httpClient *http.Client) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key not configured")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
	}, nil
}

// Generate calls the model. Every failure is reported as domain.ErrGenerationFailed.
func (g *Gemini) Generate(ctx context.Context, req domain.GenerateRequest) (domain.GeneratedQuiz, error) {
	quiz, err := g.generate(ctx, req)
	if err != nil {
		return domain.GeneratedQuiz{}, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	return quiz, nil
}

func (g *Gemini) generate(ctx context.Context, req domain.GenerateRequest) (domain.GeneratedQuiz, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(req)), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   quizSchema,
	})
	if err != nil {
		return domain.GeneratedQuiz{}, err
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return domain.GeneratedQuiz{}, errors.New("no response generated")
	}
	var quiz domain.GeneratedQuiz
	if err := json.Unmarshal([]byte(text), &quiz); err != nil {
		return domain.GeneratedQuiz{}, fmt.Errorf("decode quiz payload: %w", err)
	}
	return quiz, nil
}

var quizSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":       {Type: genai.TypeString, Description: "A catchy title for the quiz based on the content."},
		"description": {Type: genai.TypeString, Description: "A short description of what the quiz covers."},
		"questions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"text":         {Type: genai.TypeString, Description: "The question text."},
					"options":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "An array of 4 possible answers."},
					"correctIndex": {Type: genai.TypeInteger, Description: "The index (0-3) of the correct answer in the options array."},
					"explanation":  {Type: genai.TypeString, Description: "A brief explanation of why the correct answer is correct."},
				},
				Required: []string{"text", "options", "correctIndex", "explanation"},
			},
		},
		"tags": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "3-5 related tags for categorization."},
	},
	Required: []string{"title", "description", "questions", "tags"},
}
