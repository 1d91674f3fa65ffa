package service

import (
	"context"
	"errors"
	"sync"

	"course-service/internal/content"
	"course-service/internal/event"
	"course-service/internal/models"
	"course-service/internal/progress"
	"course-service/internal/repository"
)

var ErrNotReady = errors.New("course not ready to finalize")

// ProgressService wires the per-course trackers to the durable progress
// records and hosts the completion hook: when a tracker reaches 100% it flags
// the course completed, stamps contentFinished and publishes the completion
// event.
type ProgressService struct {
	Repo      *repository.ProgressRepository
	Loader    *content.Loader
	Publisher *event.Publisher
	Opts      progress.Options

	mu       sync.Mutex
	trackers map[string]*progress.Tracker
}

func NewProgressService(repo *repository.ProgressRepository, loader *content.Loader, publisher *event.Publisher, opts progress.Options) *ProgressService {
	return &ProgressService{
		Repo:      repo,
		Loader:    loader,
		Publisher: publisher,
		Opts:      opts,
		trackers:  make(map[string]*progress.Tracker),
	}
}

// trackerFor returns the tracker for (active profile, course), creating and
// seeding it from the course's section list on first use.
func (s *ProgressService) trackerFor(ctx context.Context, courseID string) (*progress.Tracker, []models.CourseSection, error) {
	course, err := s.Loader.CourseBySlug(courseID)
	if err != nil {
		return nil, nil, err
	}

	profileID, err := s.Repo.Profiles.ActiveProfileID(ctx)
	if err != nil {
		return nil, nil, err
	}
	key := profileID + "/" + courseID

	s.mu.Lock()
	tracker, ok := s.trackers[key]
	s.mu.Unlock()
	if ok {
		// guard against storage drift since the tracker was cached
		tracker.EnsureSessions(ctx, sectionIDs(course.Sections))
		return tracker, course.Sections, nil
	}

	tracker, err = progress.NewTracker(ctx, courseID, s.Repo, s.Opts)
	if err != nil {
		return nil, nil, err
	}
	ids := sectionIDs(course.Sections)
	tracker.EnsureSessions(ctx, ids)
	tracker.SetTotalSections(ctx, len(ids))
	tracker.SetOnCourseComplete(func() {
		s.onCourseComplete(ctx, courseID, tracker)
	})

	s.mu.Lock()
	s.trackers[key] = tracker
	s.mu.Unlock()
	return tracker, course.Sections, nil
}

// onCourseComplete is the hosting-side completion handler. It is idempotent:
// the tracker may fire it again for repeated completions at 100%.
func (s *ProgressService) onCourseComplete(ctx context.Context, courseID string, tracker *progress.Tracker) {
	tracker.SetCourseCompleted(ctx, true)
	before, err := s.Repo.Load(ctx, courseID)
	if err == nil && before.ContentFinished {
		return
	}
	_, _ = s.Repo.Save(ctx, courseID, func(p *models.CourseProgress) {
		p.ContentFinished = true
		p.Progress = 100
	})
	_ = s.Publisher.Publish(event.CourseCompleted, map[string]string{"courseId": courseID})
}

func sectionIDs(sections []models.CourseSection) []string {
	ids := make([]string, 0, len(sections))
	for _, s := range sections {
		ids = append(ids, s.ID)
	}
	return ids
}

// Open records the course as started and returns its current tracker state.
func (s *ProgressService) Open(ctx context.Context, courseID string) (models.TrackerState, models.CourseProgress, error) {
	tracker, _, err := s.trackerFor(ctx, courseID)
	if err != nil {
		return models.TrackerState{}, models.CourseProgress{}, err
	}
	record, err := s.Repo.StartCourse(ctx, courseID)
	if err != nil {
		return models.TrackerState{}, models.CourseProgress{}, err
	}
	return tracker.State(), record, nil
}

// OpenSection makes a section the active one.
func (s *ProgressService) OpenSection(ctx context.Context, courseID, sectionID string) (models.TrackerState, error) {
	tracker, _, err := s.trackerFor(ctx, courseID)
	if err != nil {
		return models.TrackerState{}, err
	}
	tracker.SetActiveSession(ctx, sectionID)
	if _, err := s.Repo.Save(ctx, courseID, func(p *models.CourseProgress) {
		p.CurrentSection = sectionID
	}); err != nil {
		return models.TrackerState{}, err
	}
	return tracker.State(), nil
}

// UpdateScroll records a scroll depth and re-runs the auto-completion
// heuristic, marking the section read when it crosses the thresholds.
func (s *ProgressService) UpdateScroll(ctx context.Context, courseID, sectionID string, percent int) (models.TrackerState, error) {
	tracker, sections, err := s.trackerFor(ctx, courseID)
	if err != nil {
		return models.TrackerState{}, err
	}
	tracker.UpdateSessionScroll(ctx, sectionID, percent)
	if tracker.AutoComplete(ctx, sectionID) {
		if _, err := s.Repo.MarkSectionRead(ctx, courseID, sectionID, len(sections)); err != nil {
			return models.TrackerState{}, err
		}
	}
	return tracker.State(), nil
}

// UpdateTime records accumulated section seconds and re-runs the heuristic.
func (s *ProgressService) UpdateTime(ctx context.Context, courseID, sectionID string, seconds int) (models.TrackerState, error) {
	tracker, sections, err := s.trackerFor(ctx, courseID)
	if err != nil {
		return models.TrackerState{}, err
	}
	tracker.UpdateSessionTime(ctx, sectionID, seconds)
	if tracker.AutoComplete(ctx, sectionID) {
		if _, err := s.Repo.MarkSectionRead(ctx, courseID, sectionID, len(sections)); err != nil {
			return models.TrackerState{}, err
		}
	}
	return tracker.State(), nil
}

// MarkSectionRead is the explicit "mark as read" action.
func (s *ProgressService) MarkSectionRead(ctx context.Context, courseID, sectionID string) (models.TrackerState, error) {
	tracker, sections, err := s.trackerFor(ctx, courseID)
	if err != nil {
		return models.TrackerState{}, err
	}
	tracker.MarkSessionCompleted(ctx, sectionID)
	if _, err := s.Repo.MarkSectionRead(ctx, courseID, sectionID, len(sections)); err != nil {
		return models.TrackerState{}, err
	}
	return tracker.State(), nil
}

// Finalize is the user-driven shortcut: allowed once every section but the
// last has been opened, it force-completes everything, stamps the durable
// record and redirects the client toward quiz or certificate.
func (s *ProgressService) Finalize(ctx context.Context, courseID string) (models.CourseProgress, error) {
	tracker, sections, err := s.trackerFor(ctx, courseID)
	if err != nil {
		return models.CourseProgress{}, err
	}
	if !tracker.CanFinalize(sections) {
		return models.CourseProgress{}, ErrNotReady
	}
	tracker.Finalize(ctx, sections)
	record, err := s.Repo.Save(ctx, courseID, func(p *models.CourseProgress) {
		for _, sec := range sections {
			if !containsID(p.SectionsRead, sec.ID) {
				p.SectionsRead = append(p.SectionsRead, sec.ID)
			}
		}
		p.Progress = 100
		p.ContentFinished = true
	})
	if err != nil {
		return record, err
	}
	return record, nil
}

// State returns the live tracker state plus the durable record.
func (s *ProgressService) State(ctx context.Context, courseID string) (models.TrackerState, models.CourseProgress, error) {
	tracker, _, err := s.trackerFor(ctx, courseID)
	if err != nil {
		return models.TrackerState{}, models.CourseProgress{}, err
	}
	record, err := s.Repo.Load(ctx, courseID)
	if err != nil {
		return models.TrackerState{}, models.CourseProgress{}, err
	}
	return tracker.State(), record, nil
}

// AllProgress builds the all-courses progress map for dashboard views.
func (s *ProgressService) AllProgress(ctx context.Context) (map[string]models.CourseProgress, error) {
	return s.Repo.AllProgress(ctx)
}

// ResetProgress wipes the course's durable record and tracker.
func (s *ProgressService) ResetProgress(ctx context.Context, courseID string) error {
	if err := s.Repo.ResetProgress(ctx, courseID); err != nil {
		return err
	}
	profileID, err := s.Repo.Profiles.ActiveProfileID(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.trackers, profileID+"/"+courseID)
	s.mu.Unlock()
	_ = s.Publisher.Publish(event.ProgressReset, map[string]string{"courseId": courseID})
	return nil
}

// ResetQuiz clears quiz results only, leaving reading progress untouched.
func (s *ProgressService) ResetQuiz(ctx context.Context, courseID string) (models.CourseProgress, error) {
	return s.Repo.ResetQuiz(ctx, courseID)
}

func containsID(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
