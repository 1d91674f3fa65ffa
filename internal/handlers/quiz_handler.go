package handlers

import (
	"context"
	"errors"
	"net/http"

	"course-service/internal/models"
	"course-service/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	Service *service.QuizService
}

func NewQuizHandler(s *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: s}
}

type answerRequest struct {
	QuestionID string         `json:"questionId" binding:"required"`
	Answer     *models.Answer `json:"answer" binding:"required"`
}

func (h *QuizHandler) GetQuiz(c *gin.Context) {
	slug := c.Param("slug")
	quiz, err := h.Service.GetQuiz(slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) StartSession(c *gin.Context) {
	slug := c.Param("slug")
	token, quiz, err := h.Service.StartSession(context.Background(), slug)
	if errors.Is(err, service.ErrCourseNotCompleted) {
		c.JSON(http.StatusConflict, gin.H{"error": "Course content not completed"})
		return
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sessionId": token, "quiz": quiz})
}

func (h *QuizHandler) GetSession(c *gin.Context) {
	token := c.Param("sessionId")
	state, err := h.Service.State(token)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	token := c.Param("sessionId")
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.Service.Answer(token, req.QuestionID, *req.Answer)
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, service.ErrTimeExpired):
		c.JSON(http.StatusConflict, gin.H{"error": "Quiz time expired"})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "answered"})
	}
}

func (h *QuizHandler) FinishSession(c *gin.Context) {
	token := c.Param("sessionId")
	result, err := h.Service.Finish(context.Background(), token)
	if errors.Is(err, service.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *QuizHandler) RetrySession(c *gin.Context) {
	token := c.Param("sessionId")
	if err := h.Service.Retry(token); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "restarted"})
}
