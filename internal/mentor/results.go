package mentor

import (
	"math"
	"os"
	"strconv"

	"github.com/learnpath/backend/internal/models"
)

// ScoreBandPolicy holds the percent cutoffs for result bands. The two
// thresholds move together as one policy, never individually hardcoded.
type ScoreBandPolicy struct {
	Excellent int
	Good      int
}

func DefaultScoreBandPolicy() ScoreBandPolicy {
	return ScoreBandPolicy{Excellent: 80, Good: 60}
}

// ScoreBandPolicyFromEnv reads the band cutoffs from the environment, falling
// back to the defaults. Both cutoffs must stay within (0,100] and ordered.
func ScoreBandPolicyFromEnv() ScoreBandPolicy {
	policy := DefaultScoreBandPolicy()
	if v := os.Getenv("MENTOR_BAND_EXCELLENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			policy.Excellent = n
		}
	}
	if v := os.Getenv("MENTOR_BAND_GOOD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < policy.Excellent {
			policy.Good = n
		}
	}
	return policy
}

// Band maps a percent score to its label.
func (p ScoreBandPolicy) Band(percent int) string {
	switch {
	case percent >= p.Excellent:
		return "excellent"
	case percent >= p.Good:
		return "good"
	default:
		return "practice_more"
	}
}

// SourceBreakdown counts results for one question source.
type SourceBreakdown struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// QuizResult is the final score summary of a completed session.
type QuizResult struct {
	SessionID    string                                    `json:"session_id"`
	QuizID       string                                    `json:"quiz_id"`
	Total        int                                       `json:"total"`
	CorrectCount int                                       `json:"correct_count"`
	Percent      int                                       `json:"percent"`
	PerSource    map[models.QuestionSource]SourceBreakdown `json:"per_source"`
	Band         string                                    `json:"band"`
	Answers      []AnswerRecord                            `json:"answers"`
}

// AggregateResults scores a completed session. The per-source counts always
// sum back to the totals; a question's source comes from the quiz, matched by
// question id.
func AggregateResults(session *QuizSession, policy ScoreBandPolicy) (*QuizResult, error) {
	if session.State() != StateCompleted {
		return nil, ErrSessionProtocol
	}

	sourceByID := make(map[string]models.QuestionSource)
	for _, q := range session.Questions() {
		sourceByID[q.ID] = q.Source
	}

	answers := session.Answers()
	perSource := make(map[models.QuestionSource]SourceBreakdown)
	correct := 0
	for _, ans := range answers {
		source := sourceByID[ans.QuestionID]
		breakdown := perSource[source]
		breakdown.Total++
		if ans.IsCorrect {
			breakdown.Correct++
			correct++
		}
		perSource[source] = breakdown
	}

	total := len(answers)
	percent := 0
	if total > 0 {
		percent = int(math.Round(float64(correct) / float64(total) * 100))
	}

	return &QuizResult{
		SessionID:    session.ID,
		QuizID:       session.QuizID,
		Total:        total,
		CorrectCount: correct,
		Percent:      percent,
		PerSource:    perSource,
		Band:         policy.Band(percent),
		Answers:      answers,
	}, nil
}
