package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAllValidFixture(t *testing.T) {
	root := writeContentFixture(t)

	result := ValidateAll(root)
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.CoursesValidated)
	assert.Empty(t, result.Errors)
}

func TestValidateAllEmptyRoot(t *testing.T) {
	result := ValidateAll(t.TempDir())
	assert.True(t, result.Valid)
	assert.Zero(t, result.CoursesValidated)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no courses found")
}

func TestValidateAllMissingFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "courses", "empty-course"), 0o755))

	result := ValidateAll(root)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 3)
	files := []string{result.Errors[0].File, result.Errors[1].File, result.Errors[2].File}
	assert.Contains(t, files, "meta.yml")
	assert.Contains(t, files, "content.md")
	assert.Contains(t, files, "quiz.yml")
}

func TestValidateMetaIDMismatch(t *testing.T) {
	root := writeContentFixture(t)
	// reuse the go-basics meta under a different folder name
	writeCourse(t, root, "other-name", validMeta, validContent, strings.Replace(validQuiz, "course_id: go-basics", "course_id: other-name", 1))

	result := ValidateAll(root)
	assert.False(t, result.Valid)
	found := false
	for _, e := range result.Errors {
		if e.Course == "other-name" && e.File == "meta.yml" {
			found = true
			assert.Contains(t, e.Errors[0], "does not match folder name")
		}
	}
	assert.True(t, found)
}

func TestValidateMetaUnknownInstructor(t *testing.T) {
	root := writeContentFixture(t)
	meta := strings.Replace(validMeta, "id: ana", "id: ghost", 1)
	meta = strings.Replace(meta, "id: go-basics", "id: go-advanced", 1)
	quiz := strings.Replace(validQuiz, "course_id: go-basics", "course_id: go-advanced", 1)
	writeCourse(t, root, "go-advanced", meta, validContent, quiz)

	result := ValidateAll(root)
	assert.False(t, result.Valid)
	found := false
	for _, e := range result.Errors {
		if e.Course == "go-advanced" && e.File == "meta.yml" {
			found = true
			assert.Contains(t, e.Errors[0], "instructor")
		}
	}
	assert.True(t, found)
}

func TestValidateContentRules(t *testing.T) {
	root := writeContentFixture(t)
	short := "no heading here"
	writeFile(t, filepath.Join(root, "courses", "go-basics", "content.md"), short)

	result := ValidateAll(root)
	assert.False(t, result.Valid)
	var msgs []string
	for _, e := range result.Errors {
		if e.File == "content.md" {
			msgs = e.Errors
		}
	}
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "too short")
	assert.Contains(t, msgs[1], "level-1 heading")
}

func TestValidateContentLinkAndImageWarnings(t *testing.T) {
	root := writeContentFixture(t)
	content := validContent + "\nSee [other](/unknown/path) and [ok](/cursos/go-basics).\n\n![](diagram.png)\n"
	writeFile(t, filepath.Join(root, "courses", "go-basics", "content.md"), content)

	result := ValidateAll(root)
	assert.True(t, result.Valid)

	var linkWarn, imageWarn bool
	for _, w := range result.Warnings {
		if strings.Contains(w, "/unknown/path") {
			linkWarn = true
		}
		if strings.Contains(w, "without alt text") {
			imageWarn = true
		}
		assert.NotContains(t, w, "/cursos/go-basics")
	}
	assert.True(t, linkWarn)
	assert.True(t, imageWarn)
}

func TestValidateQuizRules(t *testing.T) {
	root := writeContentFixture(t)
	badQuiz := `course_id: wrong-course
title: Broken Quiz
questions:
  - id: q1
    type: multiple_choice_single
    question: Pick an option
    options: ["a", "b"]
    correct_answer: 5
  - id: q1
    type: true_false
    question: Only one option?
    options: ["True"]
    correct_answer: true
`
	writeFile(t, filepath.Join(root, "courses", "go-basics", "quiz.yml"), badQuiz)

	result := ValidateAll(root)
	assert.False(t, result.Valid)

	var msgs []string
	for _, e := range result.Errors {
		if e.File == "quiz.yml" {
			msgs = e.Errors
		}
	}
	require.NotEmpty(t, msgs)
	joined := strings.Join(msgs, "\n")
	assert.Contains(t, joined, "does not match course")
	assert.Contains(t, joined, "out of range")
	assert.Contains(t, joined, "duplicate question id")
	assert.Contains(t, joined, "exactly 2 options")
}

func TestValidateQuizWarnings(t *testing.T) {
	root := writeContentFixture(t)
	sparse := `course_id: go-basics
title: Tiny Quiz
questions:
  - id: q1
    type: true_false
    question: Is this quiz small?
    options: ["True", "False"]
    correct_answer: true
    points: 5
`
	writeFile(t, filepath.Join(root, "courses", "go-basics", "quiz.yml"), sparse)

	result := ValidateAll(root)
	assert.True(t, result.Valid)

	joined := strings.Join(result.Warnings, "\n")
	assert.Contains(t, joined, "at least 3 questions")
	assert.Contains(t, joined, "total points too low")
	assert.Contains(t, joined, "recommended to add an explanation")
}

func TestValidateContentDuplicateHeadingWarning(t *testing.T) {
	root := writeContentFixture(t)
	content := validContent + "\n## Getting Started\n\nRepeated heading.\n"
	writeFile(t, filepath.Join(root, "courses", "go-basics", "content.md"), content)

	result := ValidateAll(root)
	assert.True(t, result.Valid)
	joined := strings.Join(result.Warnings, "\n")
	assert.Contains(t, joined, "duplicate section heading slug")
}

func TestFormatReport(t *testing.T) {
	root := writeContentFixture(t)
	report := FormatReport(ValidateAll(root))
	assert.Contains(t, report, "Courses validated: 1")
}
