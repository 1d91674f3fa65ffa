package content

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"course-service/internal/models"
)

var (
	h2Pattern          = regexp.MustCompile(`^##\s+(.+)$`)
	headingPattern     = regexp.MustCompile(`(?m)^(#{1,3})\s+(.+)$`)
	frontmatterPattern = regexp.MustCompile(`(?s)^---\n.*?\n---\n`)
	slugStrip          = regexp.MustCompile(`[^a-z0-9]+`)
)

// Headings that mark auto-generated tables of contents; they are treated as
// ordinary text, never as section boundaries.
var ignoredHeadings = []string{"sections", "index", "summary", "contents", "seções", "sumário"}

// Slugify lowercases, strips accents and collapses every non-alphanumeric run
// to a single hyphen.
func Slugify(text string) string {
	lower := strings.ToLower(text)
	decomposed := norm.NFD.String(lower)
	var b strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	slug := slugStrip.ReplaceAllString(b.String(), "-")
	return strings.Trim(slug, "-")
}

func isIgnoredHeading(title string) bool {
	lower := strings.ToLower(strings.TrimSpace(title))
	for _, h := range ignoredHeadings {
		if lower == h || strings.HasPrefix(lower, h) {
			return true
		}
	}
	return false
}

// hasBodyText reports whether the block contains anything besides blank lines
// and headings.
func hasBodyText(block string) bool {
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			return true
		}
	}
	return false
}

// ExtractSections splits lesson Markdown into an ordered section list. Level-2
// headings open sections; content before the first accepted heading becomes a
// synthesized introduction when it carries real text. Colliding heading slugs
// get an index suffix so every section id is unique within the course.
func ExtractSections(markdown string) []models.CourseSection {
	if markdown == "" {
		return nil
	}

	var sections []models.CourseSection
	seen := map[string]int{}

	uniqueID := func(slug string) string {
		seen[slug]++
		if seen[slug] == 1 {
			return slug
		}
		return fmt.Sprintf("%s-%d", slug, seen[slug])
	}

	var current *models.CourseSection
	var contentLines []string
	var introLines []string
	foundFirst := false

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(contentLines, "\n"))
		sections = append(sections, *current)
		contentLines = nil
		current = nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		m := h2Pattern.FindStringSubmatch(line)
		if m == nil {
			if !foundFirst {
				introLines = append(introLines, line)
			} else if current != nil {
				contentLines = append(contentLines, line)
			}
			continue
		}

		title := strings.TrimSpace(m[1])
		if isIgnoredHeading(title) {
			continue
		}

		if current != nil {
			flush()
		} else if !foundFirst {
			intro := strings.TrimSpace(strings.Join(introLines, "\n"))
			if intro != "" && hasBodyText(intro) {
				sections = append(sections, models.CourseSection{
					ID:      uniqueID("introducao"),
					Title:   "Introduction",
					Level:   2,
					Content: intro,
				})
			}
		}

		foundFirst = true
		current = &models.CourseSection{
			ID:    uniqueID(Slugify(title)),
			Title: title,
			Level: 2,
		}
	}

	flush()
	return sections
}

// Heading is a document heading used for navigation.
type Heading struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	ID    string `json:"id"`
}

// ExtractHeadings lists every level 1-3 heading in document order.
func ExtractHeadings(markdown string) []Heading {
	if markdown == "" {
		return nil
	}
	var headings []Heading
	for _, m := range headingPattern.FindAllStringSubmatch(markdown, -1) {
		title := strings.TrimSpace(m[2])
		headings = append(headings, Heading{
			Level: len(m[1]),
			Title: title,
			ID:    Slugify(title),
		})
	}
	return headings
}

// RemoveFrontmatter strips a leading YAML frontmatter block, if present.
func RemoveFrontmatter(markdown string) string {
	return strings.TrimSpace(frontmatterPattern.ReplaceAllString(markdown, ""))
}

// ReadingTime estimates reading time at 200 words per minute.
func ReadingTime(content string) string {
	words := len(strings.Fields(content))
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min", minutes)
}
