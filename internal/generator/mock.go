package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockClient serves deterministic data for local development. It picks the
// response shape from the requested JSON structure in the user prompt.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	var content string
	switch {
	case strings.Contains(userPrompt, `"chapters"`):
		content = buildMockChaptersJSON()
	case strings.Contains(userPrompt, `"target_concept"`):
		content = buildMockGapQuestionsJSON()
	default:
		content = buildMockQuizJSON()
	}

	return &LLMResponse{
		Content:      content,
		PromptTokens: 900,
		OutputTokens: 1800,
	}, nil
}

var mockChapterThemes = []string{
	"Foundations and Core Terminology",
	"Key Principles in Practice",
	"Common Pitfalls and How to Avoid Them",
	"Applied Techniques and Next Steps",
}

func buildMockChaptersJSON() string {
	chapters := "["
	for i, theme := range mockChapterThemes {
		if i > 0 {
			chapters += ","
		}
		chapters += fmt.Sprintf(`{"number":%d,"title":"[Mock] %s","summary":"[Mock] This chapter walks through %s with worked examples. It closes with a short recap of the terms introduced.","key_concepts":["planning","execution","review"],"difficulty":"beginner"}`,
			i+1, theme, strings.ToLower(theme))
	}
	chapters += "]"
	return fmt.Sprintf(`{"chapters":%s}`, chapters)
}

func buildMockQuizJSON() string {
	correctAnswers := []string{"A", "B", "C", "D"}
	questions := "["
	for i := 0; i < 4; i++ {
		if i > 0 {
			questions += ","
		}
		correct := correctAnswers[i%4]
		questions += fmt.Sprintf(`{"id":"q%d","type":"mcq","question_text":"[Mock] Which statement about planning is accurate (variant %d)?","options":["A) [Mock] Option one about planning","B) [Mock] Option two about execution","C) [Mock] Option three about review","D) [Mock] Option four about scope"],"correct_answer":"%s","explanation":"[Mock] Option %s matches the definition of planning covered in this chapter.","hint":"[Mock] Recall the definition of planning."}`,
			i+1, i+1, correct, correct)
	}
	for i := 0; i < 2; i++ {
		answer := "true"
		if i%2 == 1 {
			answer = "false"
		}
		questions += fmt.Sprintf(`,{"id":"q%d","type":"true_false","question_text":"[Mock] Execution always follows planning (variant %d).","correct_answer":"%s","explanation":"[Mock] The chapter states the ordering explicitly.","hint":"[Mock] Think about the phase ordering."}`,
			i+5, i+1, answer)
	}
	questions += "]"
	return fmt.Sprintf(`{"questions":%s}`, questions)
}

func buildMockGapQuestionsJSON() string {
	correctAnswers := []string{"B", "C", "A", "D", "B"}
	questions := "["
	for i := 0; i < 5; i++ {
		if i > 0 {
			questions += ","
		}
		if i%2 == 0 {
			correct := correctAnswers[i]
			questions += fmt.Sprintf(`{"type":"mcq","question_text":"[Mock] A fresh angle on planning, attempt %d: which description fits best?","options":["A) [Mock] A narrow restatement","B) [Mock] The accurate description","C) [Mock] A common misconception","D) [Mock] An unrelated claim"],"correct_answer":"%s","explanation":"[Mock] This re-tests the planning concept the learner missed.","hint":"[Mock] Revisit how planning was defined.","difficulty":"medium","target_concept":"planning","source_chapter":1}`,
				i+1, correct)
		} else {
			questions += fmt.Sprintf(`{"type":"true_false","question_text":"[Mock] Review holds in every case, attempt %d.","correct_answer":"false","explanation":"[Mock] The chapter lists an exception the learner missed.","hint":"[Mock] There is at least one exception.","difficulty":"medium","target_concept":"review","source_chapter":1}`,
				i+1)
		}
	}
	questions += "]"
	return fmt.Sprintf(`{"questions":%s}`, questions)
}
