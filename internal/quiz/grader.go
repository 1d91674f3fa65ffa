// Package quiz implements question grading and the countdown timer for
// course quizzes.
package quiz

import (
	"errors"
	"sync"

	"course-service/internal/models"
)

var (
	ErrAlreadyFinished = errors.New("quiz already finished")
	ErrUnknownQuestion = errors.New("unknown question")
)

// Result is the immutable outcome of one quiz attempt.
type Result struct {
	Score          int                      `json:"score"`
	Passed         bool                     `json:"passed"`
	TotalPoints    int                      `json:"totalPoints"`
	EarnedPoints   int                      `json:"earnedPoints"`
	CorrectAnswers int                      `json:"correctAnswers"`
	TotalQuestions int                      `json:"totalQuestions"`
	Answers        map[string]models.Answer `json:"answers"`
}

// IsCorrect checks one answer against its question, dispatching on the
// question type: single-choice compares indices, multi-choice compares index
// sets order-independently, true/false compares booleans. An answer of the
// wrong shape for the question type is simply wrong.
func IsCorrect(q models.QuizQuestion, answer models.Answer) bool {
	switch q.Type {
	case models.QuestionSingleChoice:
		return answer.Kind == models.AnswerIndex && q.CorrectAnswer.Equal(answer)
	case models.QuestionMultiChoice:
		return answer.Kind == models.AnswerIndexList && q.CorrectAnswer.Equal(answer)
	case models.QuestionTrueFalse:
		return answer.Kind == models.AnswerBool && q.CorrectAnswer.Equal(answer)
	}
	return false
}

// Grade scores a complete answer map against a quiz. Unanswered questions
// earn nothing; score is round(earned/total*100), 0 when the quiz carries no
// points at all.
func Grade(q *models.Quiz, answers map[string]models.Answer) Result {
	totalPoints := models.TotalPoints(q.Questions)
	earned := 0
	correct := 0
	for _, question := range q.Questions {
		answer, ok := answers[question.ID]
		if !ok {
			continue
		}
		if IsCorrect(question, answer) {
			earned += question.Points
			correct++
		}
	}

	score := 0
	if totalPoints > 0 {
		score = int(float64(earned)/float64(totalPoints)*100 + 0.5)
	}

	return Result{
		Score:          score,
		Passed:         score >= q.PassingScore,
		TotalPoints:    totalPoints,
		EarnedPoints:   earned,
		CorrectAnswers: correct,
		TotalQuestions: len(q.Questions),
		Answers:        answers,
	}
}

// Session is one linear attempt at a quiz: an index over the question list
// plus a per-question answer map. The result is computed once on Finish and
// is immutable for that attempt; Retry starts over.
type Session struct {
	mu       sync.Mutex
	quiz     *models.Quiz
	index    int
	answers  map[string]models.Answer
	finished bool
	result   *Result
}

func NewSession(q *models.Quiz) *Session {
	return &Session{
		quiz:    q,
		answers: make(map[string]models.Answer),
	}
}

// Current returns the question at the navigation index.
func (s *Session) Current() models.QuizQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz.Questions[s.index]
}

func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.quiz.Questions)-1 {
		return false
	}
	s.index++
	return true
}

func (s *Session) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index <= 0 {
		return false
	}
	s.index--
	return true
}

// Answer records or replaces the answer for a question. Submissions are
// rejected once the attempt finished; expiry lockout is enforced by the
// hosting layer via the timer's expired flag.
func (s *Session) Answer(questionID string, answer models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return ErrAlreadyFinished
	}
	for _, q := range s.quiz.Questions {
		if q.ID == questionID {
			s.answers[questionID] = answer
			return nil
		}
	}
	return ErrUnknownQuestion
}

func (s *Session) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// Finish computes and freezes the result. Calling it again returns the same
// result and an error.
func (s *Session) Finish() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return *s.result, ErrAlreadyFinished
	}
	answers := make(map[string]models.Answer, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	result := Grade(s.quiz, answers)
	s.result = &result
	s.finished = true
	return result, nil
}

// Retry clears all answers and navigation for a fresh attempt. The caller is
// responsible for resetting the timer alongside.
func (s *Session) Retry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = make(map[string]models.Answer)
	s.index = 0
	s.finished = false
	s.result = nil
}
