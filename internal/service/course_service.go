package service

import (
	"course-service/internal/content"
	"course-service/internal/models"
)

// CourseService fronts the content loader for the catalog endpoints.
type CourseService struct {
	Loader *content.Loader
}

func NewCourseService(loader *content.Loader) *CourseService {
	return &CourseService{Loader: loader}
}

// ListCourses returns every published course.
func (s *CourseService) ListCourses() ([]*models.Course, error) {
	return s.Loader.AllCourses()
}

func (s *CourseService) GetCourse(slug string) (*models.Course, error) {
	return s.Loader.CourseBySlug(slug)
}

func (s *CourseService) Sections(slug string) ([]models.CourseSection, error) {
	course, err := s.Loader.CourseBySlug(slug)
	if err != nil {
		return nil, err
	}
	return course.Sections, nil
}

func (s *CourseService) Instructors() ([]models.Instructor, error) {
	return s.Loader.Instructors()
}

func (s *CourseService) InstructorByID(id string) (*models.Instructor, error) {
	return s.Loader.InstructorByID(id)
}
