package handlers

import (
	"net/http"

	"course-service/internal/service"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	Service *service.CourseService
}

func NewCourseHandler(s *service.CourseService) *CourseHandler {
	return &CourseHandler{Service: s}
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.Service.ListCourses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	slug := c.Param("slug")
	course, err := h.Service.GetCourse(slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) GetSections(c *gin.Context) {
	slug := c.Param("slug")
	sections, err := h.Service.Sections(slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, sections)
}

func (h *CourseHandler) ListInstructors(c *gin.Context) {
	instructors, err := h.Service.Instructors()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, instructors)
}

func (h *CourseHandler) GetInstructor(c *gin.Context) {
	id := c.Param("id")
	instructor, err := h.Service.InstructorByID(id)
	if err != nil || instructor == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Instructor not found"})
		return
	}
	c.JSON(http.StatusOK, instructor)
}
