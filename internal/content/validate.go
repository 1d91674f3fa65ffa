package content

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"course-service/internal/models"
)

var (
	h1Pattern           = regexp.MustCompile(`(?m)^# .+$`)
	h2CountPattern      = regexp.MustCompile(`(?m)^## .+$`)
	internalLinkPattern = regexp.MustCompile(`\]\((/[^)]+)\)`)
	bareImagePattern    = regexp.MustCompile(`!\[\]\([^)]+\)`)
)

// knownRoutes are the site paths internal links may point at; anything else is
// flagged as a suspicious link.
var knownRoutes = []string{"/cursos", "/instrutores", "/sobre", "/contribuir"}

const minContentLength = 100

type fileReport struct {
	errors   []string
	warnings []string
}

func (r *fileReport) errorf(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *fileReport) warnf(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// ValidateAll validates every course under the content root and returns the
// complete report. It collects failures per file and never aborts early; only
// the instructor list degrades silently (to an empty id set) when unreadable.
func ValidateAll(root string) models.ValidationResult {
	result := models.ValidationResult{
		Valid:    true,
		Errors:   []models.CourseFileError{},
		Warnings: []string{},
	}

	loader := NewLoader(root)
	instructorIDs := loadInstructorIDs(loader)

	slugs := listCourseDirs(filepath.Join(root, "courses"))
	if len(slugs) == 0 {
		result.Warnings = append(result.Warnings, "no courses found to validate")
		return result
	}

	record := func(slug, file string, rep fileReport) {
		if len(rep.errors) > 0 {
			result.Valid = false
			result.Errors = append(result.Errors, models.CourseFileError{
				Course: slug,
				File:   file,
				Errors: rep.errors,
			})
		}
		for _, w := range rep.warnings {
			result.Warnings = append(result.Warnings, fmt.Sprintf("[%s] %s: %s", slug, file, w))
		}
	}

	for _, slug := range slugs {
		result.CoursesValidated++
		record(slug, "meta.yml", validateMeta(root, slug, instructorIDs))
		record(slug, "content.md", validateContent(root, slug))
		record(slug, "quiz.yml", validateQuizFile(root, slug))
	}

	return result
}

// loadInstructorIDs fails soft: an unreadable or invalid instructors.yml
// yields an empty set, and every instructor reference then fails per course.
func loadInstructorIDs(loader *Loader) []string {
	instructors, err := loader.Instructors()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(instructors))
	for _, in := range instructors {
		ids = append(ids, in.ID)
	}
	return ids
}

// listCourseDirs lists course directories, skipping templates. Unlike
// Loader.CourseSlugs it keeps directories without a meta.yml so their absence
// is reported as an error instead of silently hiding the course.
func listCourseDirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var slugs []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), "_") {
			slugs = append(slugs, e.Name())
		}
	}
	return slugs
}

func validateMeta(root, slug string, instructorIDs []string) fileReport {
	var rep fileReport
	path := filepath.Join(root, "courses", slug, "meta.yml")

	raw, err := os.ReadFile(path)
	if err != nil {
		rep.errorf("meta.yml not found")
		return rep
	}

	var meta models.CourseMeta
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		rep.errorf("invalid YAML: %v", err)
		return rep
	}
	if err := validate.Struct(&meta); err != nil {
		rep.errors = append(rep.errors, schemaErrors(err)...)
		return rep
	}

	if meta.ID != slug {
		rep.errorf("id %q does not match folder name %q", meta.ID, slug)
	}
	if !containsString(instructorIDs, meta.Instructor.ID) {
		rep.errorf("instructor %q not found in instructors.yml", meta.Instructor.ID)
	}
	return rep
}

func validateContent(root, slug string) fileReport {
	var rep fileReport
	path := filepath.Join(root, "courses", slug, "content.md")

	raw, err := os.ReadFile(path)
	if err != nil {
		rep.errorf("content.md not found")
		return rep
	}
	content := string(raw)

	if len(strings.TrimSpace(content)) < minContentLength {
		rep.errorf("content too short (minimum %d characters)", minContentLength)
	}
	if !h1Pattern.MatchString(content) {
		rep.errorf("must contain at least one level-1 heading (# Title)")
	}
	if len(h2CountPattern.FindAllString(content, -1)) < 1 {
		rep.warnf("recommended to have at least one level-2 section (## Section)")
	}

	for _, m := range internalLinkPattern.FindAllStringSubmatch(content, -1) {
		link := m[1]
		if !matchesKnownRoute(link) {
			rep.warnf("internal link may be broken: %s", link)
		}
	}

	if n := len(bareImagePattern.FindAllString(content, -1)); n > 0 {
		rep.warnf("%d image(s) without alt text", n)
	}

	seen := map[string]bool{}
	for _, h := range h2CountPattern.FindAllString(content, -1) {
		headingSlug := Slugify(strings.TrimPrefix(h, "## "))
		if seen[headingSlug] {
			rep.warnf("duplicate section heading slug %q, ids will be suffixed", headingSlug)
		}
		seen[headingSlug] = true
	}
	return rep
}

func validateQuizFile(root, slug string) fileReport {
	var rep fileReport
	path := filepath.Join(root, "courses", slug, "quiz.yml")

	raw, err := os.ReadFile(path)
	if err != nil {
		rep.errorf("quiz.yml not found")
		return rep
	}

	quiz, err := parseQuiz(raw)
	if err != nil {
		rep.errorf("%v", err)
		return rep
	}

	if quiz.CourseID != slug {
		rep.errorf("course_id %q does not match course %q", quiz.CourseID, slug)
	}

	seen := map[string]bool{}
	for _, q := range quiz.Questions {
		if seen[q.ID] {
			rep.errorf("duplicate question id: %s", q.ID)
		}
		seen[q.ID] = true
		validateQuestion(&rep, q)
	}

	if len(quiz.Questions) < 3 {
		rep.warnf("recommended to have at least 3 questions")
	}
	if total := models.TotalPoints(quiz.Questions); total < 30 {
		rep.warnf("total points too low: %d", total)
	}
	return rep
}

func validateQuestion(rep *fileReport, q models.QuizQuestion) {
	optionCount := len(q.Options)

	checkIndex := func(i int) {
		if i < 0 || i >= optionCount {
			rep.errorf("question %s: correct_answer index %d out of range [0-%d]", q.ID, i, optionCount-1)
		}
	}

	switch q.CorrectAnswer.Kind {
	case models.AnswerIndex:
		checkIndex(q.CorrectAnswer.Index)
	case models.AnswerIndexList:
		for _, i := range q.CorrectAnswer.Indices {
			checkIndex(i)
		}
	case models.AnswerBool:
		// nothing to range-check
	}

	if q.Type == models.QuestionTrueFalse && optionCount != 2 {
		rep.errorf("question %s: true_false must have exactly 2 options", q.ID)
	}
	if q.Explanation == "" {
		rep.warnf("question %s: recommended to add an explanation", q.ID)
	}
}

func matchesKnownRoute(link string) bool {
	for _, route := range knownRoutes {
		if strings.HasPrefix(link, route) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// FormatReport renders the validation result for the console.
func FormatReport(result models.ValidationResult) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("  Content validation report\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Courses validated: %d\n", result.CoursesValidated)

	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors (%d course file(s)):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "\n  [%s] %s\n", e.Course, e.File)
			for _, msg := range e.Errors {
				fmt.Fprintf(&b, "    - %s\n", msg)
			}
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	if result.Valid {
		b.WriteString("\nAll content files are valid.\n")
	} else {
		b.WriteString("\nValidation failed.\n")
	}
	return b.String()
}
