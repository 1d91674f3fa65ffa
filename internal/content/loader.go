package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"course-service/internal/models"
)

// Content layout under the root directory:
//
//	courses/<slug>/meta.yml
//	courses/<slug>/content.md
//	courses/<slug>/quiz.yml
//	instructors/instructors.yml
//
// Directories whose name starts with an underscore hold templates and are
// never loaded.

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrQuizNotFound   = errors.New("quiz not found")
)

// Loader reads and validates content files, caching per slug. Caches are
// invalidated explicitly when source files change.
type Loader struct {
	root string

	mu          sync.RWMutex
	courses     map[string]*models.Course
	quizzes     map[string]*models.Quiz
	instructors *models.InstructorsFile
}

func NewLoader(root string) *Loader {
	return &Loader{
		root:    root,
		courses: make(map[string]*models.Course),
		quizzes: make(map[string]*models.Quiz),
	}
}

func (l *Loader) coursesDir() string {
	return filepath.Join(l.root, "courses")
}

func (l *Loader) instructorsFile() string {
	return filepath.Join(l.root, "instructors", "instructors.yml")
}

// CourseSlugs lists course directories that carry a meta.yml, skipping
// template directories.
func (l *Loader) CourseSlugs() ([]string, error) {
	entries, err := os.ReadDir(l.coursesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var slugs []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), "_") {
			continue
		}
		if _, err := os.Stat(filepath.Join(l.coursesDir(), e.Name(), "meta.yml")); err != nil {
			continue
		}
		slugs = append(slugs, e.Name())
	}
	sort.Strings(slugs)
	return slugs, nil
}

// LoadCourseMeta reads and schema-validates a course's meta.yml.
func (l *Loader) LoadCourseMeta(slug string) (*models.CourseMeta, error) {
	raw, err := os.ReadFile(filepath.Join(l.coursesDir(), slug, "meta.yml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, slug)
		}
		return nil, err
	}
	var meta models.CourseMeta
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("meta.yml: %w", err)
	}
	if err := validate.Struct(&meta); err != nil {
		return nil, fmt.Errorf("meta.yml: %s", strings.Join(schemaErrors(err), "; "))
	}
	return &meta, nil
}

// LoadCourseContent reads a course's lesson Markdown and extracts its
// sections. A missing content.md yields empty content, not an error.
func (l *Loader) LoadCourseContent(slug string) (string, []models.CourseSection, error) {
	raw, err := os.ReadFile(filepath.Join(l.coursesDir(), slug, "content.md"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, nil
		}
		return "", nil, err
	}
	markdown := RemoveFrontmatter(string(raw))
	return markdown, ExtractSections(markdown), nil
}

// CourseBySlug loads a complete course, serving repeat lookups from cache.
func (l *Loader) CourseBySlug(slug string) (*models.Course, error) {
	l.mu.RLock()
	if c, ok := l.courses[slug]; ok {
		l.mu.RUnlock()
		return c, nil
	}
	l.mu.RUnlock()

	meta, err := l.LoadCourseMeta(slug)
	if err != nil {
		return nil, err
	}
	markdown, sections, err := l.LoadCourseContent(slug)
	if err != nil {
		return nil, err
	}
	course := &models.Course{
		CourseMeta:  *meta,
		Content:     markdown,
		Sections:    sections,
		ReadingTime: ReadingTime(markdown),
	}

	l.mu.Lock()
	l.courses[slug] = course
	l.mu.Unlock()
	return course, nil
}

// AllCourses loads every published course.
func (l *Loader) AllCourses() ([]*models.Course, error) {
	slugs, err := l.CourseSlugs()
	if err != nil {
		return nil, err
	}
	var courses []*models.Course
	for _, slug := range slugs {
		c, err := l.CourseBySlug(slug)
		if err != nil {
			return nil, fmt.Errorf("course %s: %w", slug, err)
		}
		if !c.Published {
			continue
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// QuizForCourse loads and caches a course's quiz.yml, accepting both the
// wrapped and unwrapped document shape.
func (l *Loader) QuizForCourse(slug string) (*models.Quiz, error) {
	l.mu.RLock()
	if q, ok := l.quizzes[slug]; ok {
		l.mu.RUnlock()
		return q, nil
	}
	l.mu.RUnlock()

	raw, err := os.ReadFile(filepath.Join(l.coursesDir(), slug, "quiz.yml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrQuizNotFound, slug)
		}
		return nil, err
	}
	quiz, err := parseQuiz(raw)
	if err != nil {
		return nil, fmt.Errorf("quiz.yml: %w", err)
	}

	l.mu.Lock()
	l.quizzes[slug] = quiz
	l.mu.Unlock()
	return quiz, nil
}

// parseQuiz decodes a quiz document, trying the wrapped shape first.
func parseQuiz(raw []byte) (*models.Quiz, error) {
	var wrapped models.QuizFile
	if err := yaml.Unmarshal(raw, &wrapped); err == nil && wrapped.Quiz.CourseID != "" {
		if err := validate.Struct(&wrapped.Quiz); err != nil {
			return nil, errors.New(strings.Join(schemaErrors(err), "; "))
		}
		return &wrapped.Quiz, nil
	}
	var quiz models.Quiz
	if err := yaml.Unmarshal(raw, &quiz); err != nil {
		return nil, err
	}
	if err := validate.Struct(&quiz); err != nil {
		return nil, errors.New(strings.Join(schemaErrors(err), "; "))
	}
	return &quiz, nil
}

// Instructors loads and caches the global instructor list.
func (l *Loader) Instructors() ([]models.Instructor, error) {
	l.mu.RLock()
	if l.instructors != nil {
		defer l.mu.RUnlock()
		return l.instructors.Instructors, nil
	}
	l.mu.RUnlock()

	raw, err := os.ReadFile(l.instructorsFile())
	if err != nil {
		return nil, err
	}
	var file models.InstructorsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("instructors.yml: %w", err)
	}
	if err := validate.Struct(&file); err != nil {
		return nil, fmt.Errorf("instructors.yml: %s", strings.Join(schemaErrors(err), "; "))
	}

	l.mu.Lock()
	l.instructors = &file
	l.mu.Unlock()
	return file.Instructors, nil
}

// InstructorByID resolves one instructor, or nil when unknown.
func (l *Loader) InstructorByID(id string) (*models.Instructor, error) {
	instructors, err := l.Instructors()
	if err != nil {
		return nil, err
	}
	for i := range instructors {
		if instructors[i].ID == id {
			return &instructors[i], nil
		}
	}
	return nil, nil
}

// Invalidate drops the cached entries for one course.
func (l *Loader) Invalidate(slug string) {
	l.mu.Lock()
	delete(l.courses, slug)
	delete(l.quizzes, slug)
	l.mu.Unlock()
}

// Reset drops every cache.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.courses = make(map[string]*models.Course)
	l.quizzes = make(map[string]*models.Quiz)
	l.instructors = nil
	l.mu.Unlock()
}
