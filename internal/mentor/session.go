package mentor

import (
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/learnpath/backend/internal/models"
)

// SessionState is the phase a quiz session is in.
type SessionState string

const (
	// StatePresenting means the current question awaits an answer.
	StatePresenting SessionState = "presenting"
	// StateFeedback means the current question was answered and its
	// explanation is showing.
	StateFeedback SessionState = "feedback"
	// StateCompleted means every question has been answered.
	StateCompleted SessionState = "completed"
)

// AnswerRecord is one graded submission inside a session.
type AnswerRecord struct {
	QuestionID string `json:"question_id"`
	Selected   string `json:"selected"`
	Correct    string `json:"correct"`
	IsCorrect  bool   `json:"is_correct"`
}

// QuizSession walks a learner through a gap quiz one question at a time:
// Presenting(i) accepts exactly one answer, Feedback(i) accepts exactly one
// advance, and the last advance lands in Completed. Out-of-order calls return
// ErrSessionProtocol and leave the session untouched. Presentation order is
// shuffled once at start; the underlying quiz is never mutated.
type QuizSession struct {
	ID     string
	QuizID string
	UserID int64

	mu        sync.Mutex
	questions []models.GapQuizQuestion
	order     []int
	position  int
	state     SessionState
	answers   []AnswerRecord
	startedAt time.Time
}

// shuffleOrder returns a permutation of [0,n) drawn from rng. Pure so tests
// can pin the seed.
func shuffleOrder(n int, rng *rand.Rand) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

func newSession(quiz *models.GapQuiz, rng *rand.Rand) *QuizSession {
	return &QuizSession{
		ID:        uuid.NewString(),
		QuizID:    quiz.ID,
		UserID:    quiz.UserID,
		questions: quiz.Questions,
		order:     shuffleOrder(len(quiz.Questions), rng),
		position:  0,
		state:     StatePresenting,
		startedAt: time.Now(),
	}
}

func (s *QuizSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Position is the index into the shuffled order, not the storage order.
func (s *QuizSession) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *QuizSession) TotalQuestions() int {
	return len(s.questions)
}

// CurrentQuestion returns the question being presented or reviewed, stripped
// of its answer while presenting and complete during feedback.
func (s *QuizSession) CurrentQuestion() (*models.GapQuizQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCompleted {
		return nil, ErrSessionProtocol
	}
	q := s.questions[s.order[s.position]]
	if s.state == StatePresenting {
		q.CorrectAnswer = ""
		q.Explanation = ""
	}
	return &q, nil
}

// Submit grades the answer to the current question and moves to feedback.
// Only legal while presenting.
func (s *QuizSession) Submit(answer string) (*AnswerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePresenting {
		return nil, ErrSessionProtocol
	}

	q := s.questions[s.order[s.position]]
	selected := NormalizeAnswer(q.Type, answer)
	if selected == "" {
		return nil, ErrSessionProtocol
	}
	record := AnswerRecord{
		QuestionID: q.ID,
		Selected:   selected,
		Correct:    q.CorrectAnswer,
		IsCorrect:  selected == NormalizeAnswer(q.Type, q.CorrectAnswer),
	}
	s.answers = append(s.answers, record)
	s.state = StateFeedback
	return &record, nil
}

// Advance moves from feedback to the next question, or to completed after the
// last one. Only legal while in feedback; there is no way back.
func (s *QuizSession) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateFeedback {
		return ErrSessionProtocol
	}
	s.position++
	if s.position >= len(s.questions) {
		s.state = StateCompleted
	} else {
		s.state = StatePresenting
	}
	return nil
}

// Answers returns the graded records accumulated so far, in submission order.
func (s *QuizSession) Answers() []AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AnswerRecord, len(s.answers))
	copy(out, s.answers)
	return out
}

// Questions exposes the session's questions in storage order, for scoring.
func (s *QuizSession) Questions() []models.GapQuizQuestion {
	return s.questions
}

// NormalizeAnswer canonicalizes a raw answer for comparison: mcq answers
// reduce to their uppercased option letter, true/false answers to lowercase
// "true"/"false".
func NormalizeAnswer(qType models.QuestionType, answer string) string {
	answer = strings.TrimSpace(answer)
	switch qType {
	case models.TypeMCQ:
		if answer == "" {
			return ""
		}
		first, _ := utf8.DecodeRuneInString(answer)
		return strings.ToUpper(string(first))
	case models.TypeTrueFalse:
		return strings.ToLower(answer)
	default:
		return answer
	}
}

// SessionManager tracks live sessions in memory. Sessions are ephemeral:
// a restart drops them, while the quizzes they walk through stay persisted.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*QuizSession
	newRand  func() *rand.Rand
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*QuizSession),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// NewSessionManagerWithSeed pins the shuffle seed, used by tests.
func NewSessionManagerWithSeed(seed int64) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*QuizSession),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(seed))
		},
	}
}

// Start opens a session over the quiz and returns it.
func (m *SessionManager) Start(quiz *models.GapQuiz) (*QuizSession, error) {
	if len(quiz.Questions) == 0 {
		return nil, ErrSessionProtocol
	}
	session := newSession(quiz, m.newRand())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return session, nil
}

// Get returns the live session, scoped to its owner.
func (m *SessionManager) Get(sessionID string, userID int64) (*QuizSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Discard drops the session. Discarding an unknown id is not an error.
func (m *SessionManager) Discard(sessionID string, userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[sessionID]; ok && session.UserID == userID {
		delete(m.sessions, sessionID)
	}
}
