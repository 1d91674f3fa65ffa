package handlers

import (
	"context"
	"errors"
	"net/http"

	"course-service/internal/repository"
	"course-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	Service   *service.ProgressService
	Favorites *repository.FavoriteRepository
}

func NewProgressHandler(s *service.ProgressService, favorites *repository.FavoriteRepository) *ProgressHandler {
	return &ProgressHandler{Service: s, Favorites: favorites}
}

type sectionUpdateRequest struct {
	ScrollPercent *int `json:"scrollPercent"`
	TimeSeconds   *int `json:"timeSeconds"`
}

func (h *ProgressHandler) GetAllProgress(c *gin.Context) {
	progress, err := h.Service.AllProgress(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	slug := c.Param("slug")
	state, record, err := h.Service.State(context.Background(), slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracker": state, "progress": record})
}

func (h *ProgressHandler) StartCourse(c *gin.Context) {
	slug := c.Param("slug")
	state, record, err := h.Service.Open(context.Background(), slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracker": state, "progress": record})
}

func (h *ProgressHandler) OpenSection(c *gin.Context) {
	slug := c.Param("slug")
	sectionID := c.Param("sectionId")
	state, err := h.Service.OpenSection(context.Background(), slug, sectionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *ProgressHandler) UpdateSection(c *gin.Context) {
	slug := c.Param("slug")
	sectionID := c.Param("sectionId")
	var req sectionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var state any
	var err error
	if req.ScrollPercent != nil {
		state, err = h.Service.UpdateScroll(context.Background(), slug, sectionID, *req.ScrollPercent)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if req.TimeSeconds != nil {
		state, err = h.Service.UpdateTime(context.Background(), slug, sectionID, *req.TimeSeconds)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if state == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scrollPercent or timeSeconds required"})
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *ProgressHandler) MarkSectionRead(c *gin.Context) {
	slug := c.Param("slug")
	sectionID := c.Param("sectionId")
	state, err := h.Service.MarkSectionRead(context.Background(), slug, sectionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *ProgressHandler) FinalizeCourse(c *gin.Context) {
	slug := c.Param("slug")
	record, err := h.Service.Finalize(context.Background(), slug)
	if errors.Is(err, service.ErrNotReady) {
		c.JSON(http.StatusConflict, gin.H{"error": "Course not ready to finalize"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *ProgressHandler) ResetProgress(c *gin.Context) {
	slug := c.Param("slug")
	if err := h.Service.ResetProgress(context.Background(), slug); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reset"})
}

func (h *ProgressHandler) ResetQuiz(c *gin.Context) {
	slug := c.Param("slug")
	record, err := h.Service.ResetQuiz(context.Background(), slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *ProgressHandler) ListFavorites(c *gin.Context) {
	favorites, err := h.Favorites.List(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, favorites)
}

func (h *ProgressHandler) ToggleFavorite(c *gin.Context) {
	slug := c.Param("slug")
	favorite, err := h.Favorites.Toggle(context.Background(), slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courseId": slug, "favorite": favorite})
}
