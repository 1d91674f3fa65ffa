package progress

import (
	"context"

	"course-service/internal/models"
)

// NextSectionID returns the id of the section to navigate to after the
// current one. Neighbors sharing the current id are skipped so navigation
// never lands on a no-op.
func NextSectionID(sections []models.CourseSection, currentID string) (string, bool) {
	for i, s := range sections {
		if s.ID != currentID {
			continue
		}
		for _, next := range sections[i+1:] {
			if next.ID != currentID {
				return next.ID, true
			}
		}
		return "", false
	}
	return "", false
}

// PrevSectionID is the reverse counterpart of NextSectionID.
func PrevSectionID(sections []models.CourseSection, currentID string) (string, bool) {
	for i, s := range sections {
		if s.ID != currentID {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if sections[j].ID != currentID {
				return sections[j].ID, true
			}
		}
		return "", false
	}
	return "", false
}

// CanFinalize reports whether the finalize affordance is enabled: every
// section except the last must have been at least opened.
func (t *Tracker) CanFinalize(sections []models.CourseSection) bool {
	if len(sections) == 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range sections[:len(sections)-1] {
		sp, ok := t.state.SessionsProgress[s.ID]
		if !ok || sp.Status == models.SessionNotStarted {
			return false
		}
	}
	return true
}

// Finalize is the user-driven shortcut that force-completes every section and
// flags the course completed, regardless of per-section math.
func (t *Tracker) Finalize(ctx context.Context, sections []models.CourseSection) {
	for _, s := range sections {
		t.MarkSessionCompleted(ctx, s.ID)
	}
	t.SetCourseCompleted(ctx, true)
}
