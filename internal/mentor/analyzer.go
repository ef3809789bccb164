package mentor

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/learnpath/backend/internal/models"
)

// Config holds the weak-area analysis thresholds.
type Config struct {
	ChaptersThreshold  int
	WeakScoreThreshold float64
}

func DefaultConfig() Config {
	return Config{
		ChaptersThreshold:  2,
		WeakScoreThreshold: 0.7,
	}
}

// ConfigFromEnv reads thresholds from the environment, falling back to defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("MENTOR_CHAPTERS_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChaptersThreshold = n
		}
	}
	if v := os.Getenv("MENTOR_WEAK_SCORE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			cfg.WeakScoreThreshold = f
		}
	}
	return cfg
}

// Analyze computes a MentorAnalysis from one user's progress on one course.
// Pure and stateless: the analysis is recomputed per request and never stored.
// Weak areas come out in ascending chapter order — key derivation depends on
// this ordering being deterministic.
func Analyze(courseSlug string, records []models.ProgressRecord, conceptsByChapter map[int][]string, cfg Config) (*models.MentorAnalysis, error) {
	if err := validateRecords(records); err != nil {
		return nil, err
	}

	// Records with no answers are skipped entirely: not completed, not weak,
	// not part of the mean.
	var graded []models.ProgressRecord
	seen := make(map[int]bool)
	var scoreSum float64
	for _, rec := range records {
		if len(rec.Answers) == 0 {
			continue
		}
		graded = append(graded, rec)
		scoreSum += rec.Score
		seen[rec.ChapterNumber] = true
	}

	completed := len(seen)
	average := 0.0
	if len(graded) > 0 {
		average = scoreSum / float64(len(graded))
	}

	var weakAreas []models.WeakArea
	for _, rec := range graded {
		if rec.Score >= cfg.WeakScoreThreshold {
			continue
		}
		weakAreas = append(weakAreas, models.WeakArea{
			ChapterNumber: rec.ChapterNumber,
			ChapterTitle:  rec.ChapterTitle,
			Score:         rec.Score,
			WeakConcepts:  extractWeakConcepts(rec, conceptsByChapter[rec.ChapterNumber]),
		})
	}
	sort.Slice(weakAreas, func(i, j int) bool {
		return weakAreas[i].ChapterNumber < weakAreas[j].ChapterNumber
	})

	return &models.MentorAnalysis{
		CourseSlug:             courseSlug,
		TotalChaptersCompleted: completed,
		AverageScore:           average,
		WeakAreas:              weakAreas,
		MentorAvailable:        completed >= cfg.ChaptersThreshold,
	}, nil
}

func validateRecords(records []models.ProgressRecord) error {
	var errs []string
	for i, rec := range records {
		if rec.ChapterNumber < 1 {
			errs = append(errs, fmt.Sprintf("record %d: chapter_number %d below 1", i+1, rec.ChapterNumber))
		}
		if rec.Score < 0 || rec.Score > 1 {
			errs = append(errs, fmt.Sprintf("record %d: score %.3f outside [0,1]", i+1, rec.Score))
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

const maxSampleQuestions = 3

// extractWeakConcepts groups a chapter's wrong answers under the key concepts
// they mention. Wrong answers matching no concept land in the "general" group
// rather than being dropped.
func extractWeakConcepts(rec models.ProgressRecord, keyConcepts []string) []models.WeakConcept {
	type group struct {
		wrong []string
		total int
	}
	groups := make(map[string]*group)

	for _, ans := range rec.Answers {
		matched := matchConcepts(ans.QuestionText, keyConcepts)
		for _, concept := range matched {
			g := groups[concept]
			if g == nil {
				g = &group{}
				groups[concept] = g
			}
			g.total++
			if !ans.IsCorrect {
				g.wrong = append(g.wrong, ans.QuestionText)
			}
		}
	}

	var concepts []models.WeakConcept
	for concept, g := range groups {
		if len(g.wrong) == 0 {
			continue
		}
		samples := g.wrong
		if len(samples) > maxSampleQuestions {
			samples = samples[:maxSampleQuestions]
		}
		concepts = append(concepts, models.WeakConcept{
			ChapterNumber:        rec.ChapterNumber,
			Concept:              concept,
			WrongCount:           len(g.wrong),
			TotalQuestions:       g.total,
			SampleWrongQuestions: samples,
		})
	}

	// Most-missed concepts first; name breaks ties so output is deterministic.
	sort.Slice(concepts, func(i, j int) bool {
		if concepts[i].WrongCount != concepts[j].WrongCount {
			return concepts[i].WrongCount > concepts[j].WrongCount
		}
		return concepts[i].Concept < concepts[j].Concept
	})

	return concepts
}

// matchConcepts returns the key concepts whose text appears in the question,
// or the sentinel "general" concept when none do. Kept as a single pure
// function so the keyword heuristic can be swapped without touching Analyze.
func matchConcepts(questionText string, keyConcepts []string) []string {
	lower := strings.ToLower(questionText)
	var matched []string
	for _, concept := range keyConcepts {
		if concept == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(concept)) {
			matched = append(matched, concept)
		}
	}
	if len(matched) == 0 {
		return []string{models.GeneralConcept}
	}
	return matched
}
