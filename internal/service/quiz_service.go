package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"course-service/internal/content"
	"course-service/internal/event"
	"course-service/internal/models"
	"course-service/internal/quiz"
	"course-service/internal/repository"
)

var (
	ErrCourseNotCompleted = errors.New("course content not completed")
	ErrSessionNotFound    = errors.New("quiz session not found")
	ErrTimeExpired        = errors.New("quiz time expired")
)

type quizSession struct {
	courseID string
	session  *quiz.Session
	timer    *quiz.Timer
}

// QuizService runs in-memory quiz attempts keyed by an opaque session token.
// A session can only be started after the course content is finished; the
// result is saved to the durable record on finish.
type QuizService struct {
	Repo      *repository.ProgressRepository
	Loader    *content.Loader
	Publisher *event.Publisher

	mu       sync.Mutex
	sessions map[string]*quizSession
}

func NewQuizService(repo *repository.ProgressRepository, loader *content.Loader, publisher *event.Publisher) *QuizService {
	return &QuizService{
		Repo:      repo,
		Loader:    loader,
		Publisher: publisher,
		sessions:  make(map[string]*quizSession),
	}
}

func (s *QuizService) GetQuiz(courseID string) (*models.Quiz, error) {
	return s.Loader.QuizForCourse(courseID)
}

// StartSession opens a new attempt. The quiz is gated on content completion.
func (s *QuizService) StartSession(ctx context.Context, courseID string) (string, *models.Quiz, error) {
	record, err := s.Repo.Load(ctx, courseID)
	if err != nil {
		return "", nil, err
	}
	if !record.ContentFinished {
		return "", nil, ErrCourseNotCompleted
	}

	q, err := s.Loader.QuizForCourse(courseID)
	if err != nil {
		return "", nil, err
	}

	qs := &quizSession{
		courseID: courseID,
		session:  quiz.NewSession(q),
	}
	qs.timer = quiz.NewTimer(q.TimeLimit, nil)
	qs.timer.Start()

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = qs
	s.mu.Unlock()
	return token, q, nil
}

func (s *QuizService) lookup(token string) (*quizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	qs, ok := s.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return qs, nil
}

// Answer records one answer. Answers after expiry are rejected.
func (s *QuizService) Answer(token, questionID string, answer models.Answer) error {
	qs, err := s.lookup(token)
	if err != nil {
		return err
	}
	if qs.timer.Expired() {
		return ErrTimeExpired
	}
	return qs.session.Answer(questionID, answer)
}

func (s *QuizService) Next(token string) (bool, error) {
	qs, err := s.lookup(token)
	if err != nil {
		return false, err
	}
	return qs.session.Next(), nil
}

func (s *QuizService) Prev(token string) (bool, error) {
	qs, err := s.lookup(token)
	if err != nil {
		return false, err
	}
	return qs.session.Prev(), nil
}

// SessionState is what the client needs to render the attempt.
type SessionState struct {
	CourseID      string           `json:"courseId"`
	QuestionIndex int              `json:"questionIndex"`
	AnsweredCount int              `json:"answeredCount"`
	TimerState    quiz.TimerState  `json:"timerState"`
	Remaining     int              `json:"remainingSeconds"`
	FormattedTime string           `json:"formattedTime"`
}

func (s *QuizService) State(token string) (SessionState, error) {
	qs, err := s.lookup(token)
	if err != nil {
		return SessionState{}, err
	}
	return SessionState{
		CourseID:      qs.courseID,
		QuestionIndex: qs.session.Index(),
		AnsweredCount: qs.session.AnsweredCount(),
		TimerState:    qs.timer.State(),
		Remaining:     qs.timer.Remaining(),
		FormattedTime: qs.timer.FormattedTime(),
	}, nil
}

// Finish grades the attempt, persists the result and publishes on pass.
// Finishing an already finished session returns the frozen result.
func (s *QuizService) Finish(ctx context.Context, token string) (quiz.Result, error) {
	qs, err := s.lookup(token)
	if err != nil {
		return quiz.Result{}, err
	}
	qs.timer.Finish()

	result, err := qs.session.Finish()
	if errors.Is(err, quiz.ErrAlreadyFinished) {
		return result, nil
	}
	if err != nil {
		return quiz.Result{}, err
	}

	saved := models.SavedQuizResult{
		Score:  result.Score,
		Passed: result.Passed,
	}
	if _, err := s.Repo.SaveQuizResult(ctx, qs.courseID, saved); err != nil {
		return result, err
	}
	if result.Passed {
		_ = s.Publisher.Publish(event.QuizPassed, map[string]any{
			"courseId": qs.courseID,
			"score":    result.Score,
		})
	}
	return result, nil
}

// Retry rewinds the session and restarts the clock from the full limit.
func (s *QuizService) Retry(token string) error {
	qs, err := s.lookup(token)
	if err != nil {
		return err
	}
	qs.session.Retry()
	qs.timer.Reset()
	qs.timer.Start()
	return nil
}

// Close drops a session from memory.
func (s *QuizService) Close(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if qs, ok := s.sessions[token]; ok {
		qs.timer.Pause()
		delete(s.sessions, token)
	}
}
