package repository

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"course-service/internal/models"
	"course-service/internal/store"
)

// ProgressRepository persists per-profile course progress. Reads self-heal:
// a missing or corrupt record is replaced by a freshly initialized empty one,
// never an error. Every write stamps lastAccessedAt.
type ProgressRepository struct {
	Store    store.KV
	Profiles *ProfileRepository

	now func() time.Time
}

func NewProgressRepository(kv store.KV, profiles *ProfileRepository) *ProgressRepository {
	return &ProgressRepository{Store: kv, Profiles: profiles, now: time.Now}
}

// Load returns the progress record for the active profile and given course.
func (r *ProgressRepository) Load(ctx context.Context, courseID string) (models.CourseProgress, error) {
	profileID, err := r.Profiles.ActiveProfileID(ctx)
	if err != nil {
		return models.EmptyProgress(courseID), err
	}
	return r.load(ctx, profileID, courseID), nil
}

func (r *ProgressRepository) load(ctx context.Context, profileID, courseID string) models.CourseProgress {
	raw, ok, err := r.Store.Get(ctx, progressKey(profileID, courseID))
	if err != nil || !ok {
		if err != nil {
			log.Printf("progress read failed for %s/%s: %v", profileID, courseID, err)
		}
		return models.EmptyProgress(courseID)
	}
	var progress models.CourseProgress
	if err := json.Unmarshal([]byte(raw), &progress); err != nil {
		log.Printf("progress record corrupt for %s/%s, starting fresh: %v", profileID, courseID, err)
		return models.EmptyProgress(courseID)
	}
	if progress.CourseID == "" {
		progress.CourseID = courseID
	}
	if progress.SectionsRead == nil {
		progress.SectionsRead = []string{}
	}
	return progress
}

// Save merges a partial update into the current record, stamps lastAccessedAt
// and stores the result. The mutate callback receives the current record and
// applies the partial update in place.
func (r *ProgressRepository) Save(ctx context.Context, courseID string, mutate func(*models.CourseProgress)) (models.CourseProgress, error) {
	profileID, err := r.Profiles.ActiveProfileID(ctx)
	if err != nil {
		return models.EmptyProgress(courseID), err
	}

	progress := r.load(ctx, profileID, courseID)
	mutate(&progress)
	now := r.now()
	progress.LastAccessedAt = &now

	raw, err := json.Marshal(progress)
	if err != nil {
		return progress, err
	}
	if err := r.Store.Set(ctx, progressKey(profileID, courseID), string(raw)); err != nil {
		return progress, err
	}
	return progress, nil
}

// StartCourse marks the course as started on first access; repeat calls are
// no-ops.
func (r *ProgressRepository) StartCourse(ctx context.Context, courseID string) (models.CourseProgress, error) {
	progress, err := r.Load(ctx, courseID)
	if err != nil {
		return progress, err
	}
	if progress.Started {
		return progress, nil
	}
	return r.Save(ctx, courseID, func(p *models.CourseProgress) {
		now := r.now()
		p.Started = true
		p.StartedAt = &now
	})
}

// MarkSectionRead records a section as read and recomputes the durable
// percentage; reading the final unread section flips contentFinished.
func (r *ProgressRepository) MarkSectionRead(ctx context.Context, courseID, sectionID string, totalSections int) (models.CourseProgress, error) {
	return r.Save(ctx, courseID, func(p *models.CourseProgress) {
		if !containsString(p.SectionsRead, sectionID) {
			p.SectionsRead = append(p.SectionsRead, sectionID)
		}
		p.CurrentSection = sectionID
		if totalSections > 0 {
			p.Progress = int(float64(len(p.SectionsRead))/float64(totalSections)*100 + 0.5)
		}
		finished := totalSections > 0 && len(p.SectionsRead) >= totalSections
		if finished && !p.ContentFinished {
			now := r.now()
			p.ContentFinishedAt = &now
		}
		if finished {
			p.ContentFinished = true
		}
	})
}

// SaveQuizResult stores a quiz outcome and increments the attempt counter.
func (r *ProgressRepository) SaveQuizResult(ctx context.Context, courseID string, result models.SavedQuizResult) (models.CourseProgress, error) {
	return r.Save(ctx, courseID, func(p *models.CourseProgress) {
		attempts := 1
		if p.QuizResult != nil {
			attempts = p.QuizResult.Attempts + 1
		}
		result.Attempts = attempts
		result.CompletedAt = r.now()
		p.QuizCompleted = true
		p.QuizResult = &result
	})
}

// GenerateCertificate stamps the certificate and completion fields.
func (r *ProgressRepository) GenerateCertificate(ctx context.Context, courseID, userName string) (models.CourseProgress, error) {
	return r.Save(ctx, courseID, func(p *models.CourseProgress) {
		now := r.now()
		p.CertificateGenerated = true
		p.CertificateGeneratedAt = &now
		p.UserName = userName
		p.Completed = true
		p.CompletedAt = &now
	})
}

// ResetProgress removes the durable record and the tracker state for the
// course.
func (r *ProgressRepository) ResetProgress(ctx context.Context, courseID string) error {
	profileID, err := r.Profiles.ActiveProfileID(ctx)
	if err != nil {
		return err
	}
	if err := r.Store.Remove(ctx, progressKey(profileID, courseID)); err != nil {
		return err
	}
	return r.Store.Remove(ctx, trackerKey(profileID, courseID))
}

// ResetQuiz clears only the quiz fields, preserving content progress.
func (r *ProgressRepository) ResetQuiz(ctx context.Context, courseID string) (models.CourseProgress, error) {
	return r.Save(ctx, courseID, func(p *models.CourseProgress) {
		p.QuizCompleted = false
		p.QuizResult = nil
	})
}

// AllProgress scans every progress record under the active profile's prefix.
// Courses without a stored record are absent from the map.
func (r *ProgressRepository) AllProgress(ctx context.Context) (map[string]models.CourseProgress, error) {
	profileID, err := r.Profiles.ActiveProfileID(ctx)
	if err != nil {
		return nil, err
	}
	prefix := progressPrefix(profileID)
	keys, err := r.Store.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	all := make(map[string]models.CourseProgress, len(keys))
	for _, key := range keys {
		courseID := strings.TrimPrefix(key, prefix)
		all[courseID] = r.load(ctx, profileID, courseID)
	}
	return all, nil
}

// LoadTrackerState restores the in-session tracker record for a course; a
// missing or corrupt record yields a zero state.
func (r *ProgressRepository) LoadTrackerState(ctx context.Context, courseID string) (models.TrackerState, error) {
	profileID, err := r.Profiles.ActiveProfileID(ctx)
	if err != nil {
		return models.TrackerState{}, err
	}
	raw, ok, err := r.Store.Get(ctx, trackerKey(profileID, courseID))
	if err != nil || !ok {
		return models.TrackerState{}, err
	}
	var state models.TrackerState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		log.Printf("tracker record corrupt for %s/%s, starting fresh: %v", profileID, courseID, err)
		return models.TrackerState{}, nil
	}
	return state, nil
}

// SaveTrackerState persists the in-session tracker record.
func (r *ProgressRepository) SaveTrackerState(ctx context.Context, courseID string, state models.TrackerState) error {
	profileID, err := r.Profiles.ActiveProfileID(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.Store.Set(ctx, trackerKey(profileID, courseID), string(raw))
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
