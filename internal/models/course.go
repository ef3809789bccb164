package models

import "time"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyBeginner:     true,
	DifficultyIntermediate: true,
	DifficultyAdvanced:     true,
}

type Course struct {
	ID            int64      `json:"id"`
	Slug          string     `json:"slug"`
	Topic         string     `json:"topic"`
	OriginalTopic string     `json:"original_topic"`
	Difficulty    Difficulty `json:"difficulty"`
	Provider      string     `json:"provider"`
	Chapters      []Chapter  `json:"chapters"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type Chapter struct {
	Number      int      `json:"number"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	KeyConcepts []string `json:"key_concepts"`
	Difficulty  string   `json:"difficulty"`
}

// KeyConceptsByChapter maps chapter numbers to their key concepts,
// the shape the weak-area analyzer consumes.
func (c *Course) KeyConceptsByChapter() map[int][]string {
	out := make(map[int][]string, len(c.Chapters))
	for _, ch := range c.Chapters {
		out[ch.Number] = ch.KeyConcepts
	}
	return out
}

// ── Request/Response Types ────────────────────────────────

type GenerateCourseRequest struct {
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
}

type GenerateCourseResponse struct {
	Course  Course `json:"course"`
	Cached  bool   `json:"cached"`
	Message string `json:"message"`
}
