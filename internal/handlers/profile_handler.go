package handlers

import (
	"context"
	"errors"
	"net/http"

	"course-service/internal/repository"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	Repo *repository.ProfileRepository
}

func NewProfileHandler(r *repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{Repo: r}
}

type profileRequest struct {
	Name  string `json:"name" binding:"required"`
	Photo string `json:"photo"`
}

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.Repo.Profiles(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	activeID, err := h.Repo.ActiveProfileID(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles, "activeProfileId": activeID})
}

func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profile, err := h.Repo.Create(context.Background(), req.Name, req.Photo)
	if errors.Is(err, repository.ErrProfileLimit) {
		c.JSON(http.StatusConflict, gin.H{"error": "Profile limit reached"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	id := c.Param("id")
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Repo.Update(context.Background(), id, req.Name, req.Photo); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	id := c.Param("id")
	if err := h.Repo.Delete(context.Background(), id); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *ProfileHandler) SwitchProfile(c *gin.Context) {
	id := c.Param("id")
	if err := h.Repo.Switch(context.Background(), id); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activeProfileId": id})
}
