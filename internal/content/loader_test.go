package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-service/internal/models"
)

const validMeta = `id: go-basics
title: Go Basics
description: An introduction to the Go programming language.
duration: 4h
level: Beginner
area: Programming
tags:
  - go
instructor:
  id: ana
`

const validContent = `# Go Basics

A short course about the Go programming language, covering syntax, tooling and idioms in enough depth to get started.

## Getting Started

Install the toolchain and write your first program.

## Types and Values

Go is statically typed.
`

const validQuiz = `course_id: go-basics
title: Go Basics Quiz
time_limit: 600
passing_score: 70
questions:
  - id: q1
    type: multiple_choice_single
    question: What keyword declares a variable?
    options: ["var", "let"]
    correct_answer: 0
  - id: q2
    type: true_false
    question: Go has classes, true or false?
    options: ["True", "False"]
    correct_answer: false
    explanation: Go has structs and methods, not classes.
  - id: q3
    type: multiple_choice_multiple
    question: Which of these are Go builtin types?
    options: ["int", "string", "class"]
    correct_answer: [0, 1]
`

const validInstructors = `instructors:
  - id: ana
    name: Ana Souza
    role: Engineer
`

func writeContentFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeCourse(t, root, "go-basics", validMeta, validContent, validQuiz)
	writeFile(t, filepath.Join(root, "instructors", "instructors.yml"), validInstructors)
	return root
}

func writeCourse(t *testing.T, root, slug, meta, content, quiz string) {
	t.Helper()
	dir := filepath.Join(root, "courses", slug)
	if meta != "" {
		writeFile(t, filepath.Join(dir, "meta.yml"), meta)
	}
	if content != "" {
		writeFile(t, filepath.Join(dir, "content.md"), content)
	}
	if quiz != "" {
		writeFile(t, filepath.Join(dir, "quiz.yml"), quiz)
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestCourseSlugsSkipsTemplatesAndBareDirs(t *testing.T) {
	root := writeContentFixture(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "courses", "_template"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "courses", "no-meta"), 0o755))

	loader := NewLoader(root)
	slugs, err := loader.CourseSlugs()
	require.NoError(t, err)
	assert.Equal(t, []string{"go-basics"}, slugs)
}

func TestCourseBySlug(t *testing.T) {
	root := writeContentFixture(t)
	loader := NewLoader(root)

	course, err := loader.CourseBySlug("go-basics")
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", course.Title)
	assert.True(t, course.Published)
	assert.Len(t, course.Sections, 3)
	assert.Equal(t, "introducao", course.Sections[0].ID)
	assert.Equal(t, "getting-started", course.Sections[1].ID)
	assert.NotEmpty(t, course.ReadingTime)

	_, err = loader.CourseBySlug("missing")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestLoadCourseContentMissingFile(t *testing.T) {
	root := t.TempDir()
	writeCourse(t, root, "bare", validMeta, "", "")

	loader := NewLoader(root)
	content, sections, err := loader.LoadCourseContent("bare")
	require.NoError(t, err)
	assert.Empty(t, content)
	assert.Empty(t, sections)
}

func TestAllCoursesFiltersUnpublished(t *testing.T) {
	root := writeContentFixture(t)
	hidden := `id: hidden-course
title: Hidden Course
description: Not ready for readers yet.
duration: 1h
level: Beginner
area: Programming
tags: [draft]
instructor:
  id: ana
published: false
`
	writeCourse(t, root, "hidden-course", hidden, validContent, "")

	loader := NewLoader(root)
	courses, err := loader.AllCourses()
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "go-basics", courses[0].ID)
}

func TestQuizForCourse(t *testing.T) {
	root := writeContentFixture(t)
	loader := NewLoader(root)

	quiz, err := loader.QuizForCourse("go-basics")
	require.NoError(t, err)
	assert.Equal(t, "go-basics", quiz.CourseID)
	assert.Equal(t, 600, quiz.TimeLimit)
	require.Len(t, quiz.Questions, 3)
	assert.Equal(t, 10, quiz.Questions[0].Points)
	assert.Equal(t, models.AnswerBool, quiz.Questions[1].CorrectAnswer.Kind)
	assert.Equal(t, []int{0, 1}, quiz.Questions[2].CorrectAnswer.Indices)
}

func TestQuizForCourseWrappedShape(t *testing.T) {
	root := t.TempDir()
	wrapped := "quiz:\n"
	for _, line := range []string{
		"course_id: wrapped",
		"title: Wrapped Quiz",
		"questions:",
		"  - id: q1",
		"    type: true_false",
		"    question: Is this wrapped?",
		"    options: [\"True\", \"False\"]",
		"    correct_answer: true",
	} {
		wrapped += "  " + line + "\n"
	}
	writeCourse(t, root, "wrapped", validMeta, "", wrapped)

	loader := NewLoader(root)
	quiz, err := loader.QuizForCourse("wrapped")
	require.NoError(t, err)
	assert.Equal(t, "wrapped", quiz.CourseID)
	assert.Equal(t, 1800, quiz.TimeLimit)
	assert.Equal(t, 70, quiz.PassingScore)
}

func TestInstructors(t *testing.T) {
	root := writeContentFixture(t)
	loader := NewLoader(root)

	instructors, err := loader.Instructors()
	require.NoError(t, err)
	require.Len(t, instructors, 1)

	inst, err := loader.InstructorByID("ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", inst.Name)

	missing, err := loader.InstructorByID("nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInvalidateRereadsFromDisk(t *testing.T) {
	root := writeContentFixture(t)
	loader := NewLoader(root)

	course, err := loader.CourseBySlug("go-basics")
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", course.Title)

	updated := validMeta + "featured: true\n"
	writeFile(t, filepath.Join(root, "courses", "go-basics", "meta.yml"), updated)

	// cached copy still served until invalidated
	course, err = loader.CourseBySlug("go-basics")
	require.NoError(t, err)
	assert.False(t, course.Featured)

	loader.Invalidate("go-basics")
	course, err = loader.CourseBySlug("go-basics")
	require.NoError(t, err)
	assert.True(t, course.Featured)
}
