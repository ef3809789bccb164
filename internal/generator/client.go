package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/google/uuid"
	"github.com/learnpath/backend/internal/models"
)

// LLMClient is the interface both generator implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient and adds course/quiz generation methods.
type Generator struct {
	llm   LLMClient
	model string
}

// NewGenerator selects the LLM backend from the environment. The mock
// variant is just another registry entry, not a special code path.
func NewGenerator() *Generator {
	var llm LLMClient
	model := "mock"

	if os.Getenv("MOCK_GENERATOR") == "true" {
		llm = NewMockClient()
		log.Println("Generator using mock data")
	} else {
		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-5-20250929"
		}
		llm = NewAPIClient(model)
		log.Println("Generator using Anthropic API:", model)
	}

	return &Generator{llm: llm, model: model}
}

// NewGeneratorWithClient wires an explicit client, used by tests.
func NewGeneratorWithClient(llm LLMClient, model string) *Generator {
	return &Generator{llm: llm, model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GenerateChapters produces a course outline with key concepts per chapter.
func (g *Generator) GenerateChapters(ctx context.Context, topic string, difficulty models.Difficulty, count int) ([]models.Chapter, error) {
	resp, err := g.llm.Generate(ctx, CourseSystemPrompt(), BuildCourseUserPrompt(topic, difficulty, count))
	if err != nil {
		return nil, fmt.Errorf("generate chapters: %w", err)
	}

	chapters, err := ParseChapters(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse chapters response: %w", err)
	}
	return chapters, nil
}

// GenerateChapterQuiz produces a mixed mcq/true_false quiz for one chapter.
func (g *Generator) GenerateChapterQuiz(ctx context.Context, topic string, difficulty models.Difficulty, chapter models.Chapter, mcqCount, tfCount int) ([]models.QuizQuestion, error) {
	resp, err := g.llm.Generate(ctx, QuizSystemPrompt(), BuildQuizUserPrompt(topic, difficulty, chapter, mcqCount, tfCount))
	if err != nil {
		return nil, fmt.Errorf("generate chapter quiz: %w", err)
	}

	questions, err := ParseQuizQuestions(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse quiz response: %w", err)
	}

	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
	}
	return questions, nil
}

// GapQuizRequest is the generation context for extra gap-quiz questions.
type GapQuizRequest struct {
	CourseTopic  string
	Difficulty   models.Difficulty
	WeakConcepts []models.WeakConcept
	IncludeHints bool
	MaxQuestions int
}

// GenerateGapQuestions produces up to MaxQuestions new questions targeting the
// request's weak concepts. The response may contain fewer items than asked for;
// callers decide how to treat an empty result.
func (g *Generator) GenerateGapQuestions(ctx context.Context, req GapQuizRequest) ([]models.GapQuizQuestion, error) {
	resp, err := g.llm.Generate(ctx, GapQuizSystemPrompt(), BuildGapQuizUserPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("generate gap questions: %w", err)
	}

	questions, err := ParseGapQuestions(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse gap quiz response: %w", err)
	}

	for i := range questions {
		questions[i].ID = uuid.NewString()
		questions[i].Source = models.SourceExtra
		if !req.IncludeHints {
			questions[i].Hint = ""
		}
	}
	return questions, nil
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   8192,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}
