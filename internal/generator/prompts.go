package generator

import (
	"fmt"
	"strings"

	"github.com/learnpath/backend/internal/models"
)

func CourseSystemPrompt() string {
	return `You are an expert curriculum designer. You create well-structured course
outlines that take a learner from fundamentals to applied skill on a single topic.

Rules:
- Chapters must build on each other in a logical progression
- Each chapter covers ONE coherent theme; no overlap between chapters
- key_concepts are short noun phrases (2-4 words) a quiz question could target
- Summaries are 2-3 sentences, concrete, no marketing language
- Respond with JSON only, no prose before or after`
}

func BuildCourseUserPrompt(topic string, difficulty models.Difficulty, count int) string {
	return fmt.Sprintf(`Create a %s-level course outline on "%s" with exactly %d chapters.

Respond with this exact JSON structure:
{
  "chapters": [
    {
      "number": 1,
      "title": "...",
      "summary": "...",
      "key_concepts": ["...", "...", "..."],
      "difficulty": "%s"
    }
  ]
}

Requirements:
- Chapter numbers start at 1 and are consecutive
- Each chapter lists 3-5 key_concepts
- Titles are distinct and specific to this topic`,
		string(difficulty), topic, count, string(difficulty))
}

func QuizSystemPrompt() string {
	return `You are an expert assessment writer for an online learning platform.
You write clear, unambiguous quiz questions that test understanding of a
chapter's key concepts, not trivia.

Rules:
- mcq questions have exactly 4 options labeled "A) ..." through "D) ..."
- correct_answer for mcq is the single letter of the correct option
- correct_answer for true_false is the lowercase string "true" or "false"
- Every question names or clearly involves one of the chapter's key concepts
- Explanations state WHY the answer is correct in 1-2 sentences
- Respond with JSON only, no prose before or after`
}

func BuildQuizUserPrompt(topic string, difficulty models.Difficulty, chapter models.Chapter, mcqCount, tfCount int) string {
	return fmt.Sprintf(`Write a quiz for chapter %d ("%s") of a %s-level course on "%s".
Generate exactly %d mcq questions and %d true_false questions.

Chapter summary: %s
Key concepts to cover: %s

Respond with this exact JSON structure:
{
  "questions": [
    {
      "id": "q1",
      "type": "mcq",
      "question_text": "...",
      "options": ["A) ...", "B) ...", "C) ...", "D) ..."],
      "correct_answer": "B",
      "explanation": "...",
      "hint": "..."
    },
    {
      "id": "q2",
      "type": "true_false",
      "question_text": "...",
      "correct_answer": "true",
      "explanation": "...",
      "hint": "..."
    }
  ]
}

Requirements:
- Spread questions across the key concepts; mention the concept in the question text
- Vary the position of the correct mcq answer across A-D
- Hints point toward the concept without revealing the answer`,
		chapter.Number, chapter.Title, string(difficulty), topic, mcqCount, tfCount,
		chapter.Summary, strings.Join(chapter.KeyConcepts, ", "))
}

func GapQuizSystemPrompt() string {
	return `You are a study mentor writing remedial practice questions. The learner
got questions on specific concepts wrong; your questions re-test those concepts
from a fresh angle so the learner cannot answer from memory of the original quiz.

Rules:
- Never repeat or lightly reword a sample wrong question; test the same concept differently
- mcq questions have exactly 4 options labeled "A) ..." through "D) ..."
- correct_answer for mcq is the single letter; for true_false the lowercase string "true" or "false"
- target_concept must be one of the weak concepts provided
- source_chapter must be the chapter number of the targeted concept
- Respond with JSON only, no prose before or after`
}

func BuildGapQuizUserPrompt(req GapQuizRequest) string {
	var concepts strings.Builder
	for _, wc := range req.WeakConcepts {
		fmt.Fprintf(&concepts, "- chapter %d, concept %q (%d of %d answers wrong)\n",
			wc.ChapterNumber, wc.Concept, wc.WrongCount, wc.TotalQuestions)
		for _, q := range wc.SampleWrongQuestions {
			fmt.Fprintf(&concepts, "  missed: %s\n", q)
		}
	}
	if concepts.Len() == 0 {
		concepts.WriteString("- no specific weak concepts; write general review questions for the course topic\n")
	}

	hintLine := "- Omit the hint field"
	if req.IncludeHints {
		hintLine = "- Include a hint that points toward the concept without revealing the answer"
	}

	return fmt.Sprintf(`Write up to %d remedial questions for a %s-level course on "%s".

Weak concepts:
%s
Respond with this exact JSON structure:
{
  "questions": [
    {
      "type": "mcq",
      "question_text": "...",
      "options": ["A) ...", "B) ...", "C) ...", "D) ..."],
      "correct_answer": "C",
      "explanation": "...",
      "hint": "...",
      "difficulty": "%s",
      "target_concept": "...",
      "source_chapter": 1
    }
  ]
}

Requirements:
- At most %d questions; fewer is acceptable if the weak concepts do not support more
- Weight questions toward concepts with the highest wrong counts
- Mix mcq and true_false types
%s`,
		req.MaxQuestions, string(req.Difficulty), req.CourseTopic, concepts.String(),
		string(req.Difficulty), req.MaxQuestions, hintLine)
}
