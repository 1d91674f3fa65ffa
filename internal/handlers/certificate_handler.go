package handlers

import (
	"context"
	"errors"
	"net/http"

	"course-service/internal/service"

	"github.com/gin-gonic/gin"
)

type CertificateHandler struct {
	Service *service.CertificateService
}

func NewCertificateHandler(s *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{Service: s}
}

type certificateRequest struct {
	Name string `json:"name"`
}

func (h *CertificateHandler) GenerateCertificate(c *gin.Context) {
	slug := c.Param("slug")
	var req certificateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	data, err := h.Service.Generate(context.Background(), slug, req.Name)
	switch {
	case errors.Is(err, service.ErrQuizNotPassed):
		c.JSON(http.StatusConflict, gin.H{"error": "Quiz not passed"})
	case errors.Is(err, service.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student name required"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, data)
	}
}

func (h *CertificateHandler) GetCertificate(c *gin.Context) {
	slug := c.Param("slug")
	data, err := h.Service.Get(context.Background(), slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Certificate not found"})
		return
	}
	c.JSON(http.StatusOK, data)
}
