// Package progress implements the per-course reading progress state machine:
// section status tracking, percentage aggregation, navigation gating and the
// course-completion signal.
package progress

import (
	"context"
	"log"
	"sync"

	"course-service/internal/models"
)

// StateStore persists tracker state between sessions. ProgressRepository
// implements it; tests use an in-memory stub.
type StateStore interface {
	LoadTrackerState(ctx context.Context, courseID string) (models.TrackerState, error)
	SaveTrackerState(ctx context.Context, courseID string, state models.TrackerState) error
}

// Options tune the auto-completion heuristic. The thresholds are a proxy for
// "read the section", not a verified guarantee.
type Options struct {
	// MinReadSeconds a section must have been active before it can
	// auto-complete. Zero means the default of 30.
	MinReadSeconds int
	// ScrollCompletePercent is the scroll depth required for
	// auto-completion. Zero means the default of 90.
	ScrollCompletePercent int
}

func (o Options) withDefaults() Options {
	if o.MinReadSeconds <= 0 {
		o.MinReadSeconds = 30
	}
	if o.ScrollCompletePercent <= 0 {
		o.ScrollCompletePercent = 90
	}
	return o
}

// Tracker is one course's progress state machine for the active profile. It
// persists through its StateStore on every mutation. Construct one per
// (course, profile) pair; there is no shared global state.
type Tracker struct {
	mu       sync.Mutex
	courseID string
	state    models.TrackerState
	store    StateStore
	opts     Options

	onComplete func()
}

// NewTracker restores persisted state for the course, or starts fresh.
func NewTracker(ctx context.Context, courseID string, store StateStore, opts Options) (*Tracker, error) {
	state, err := store.LoadTrackerState(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if state.SessionsProgress == nil {
		state.SessionsProgress = make(map[string]models.SessionProgress)
	}
	return &Tracker{
		courseID: courseID,
		state:    state,
		store:    store,
		opts:     opts.withDefaults(),
	}, nil
}

// State returns a copy of the current state.
func (t *Tracker) State() models.TrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *Tracker) snapshot() models.TrackerState {
	copied := t.state
	copied.SessionsProgress = make(map[string]models.SessionProgress, len(t.state.SessionsProgress))
	for id, sp := range t.state.SessionsProgress {
		copied.SessionsProgress[id] = sp
	}
	return copied
}

func (t *Tracker) persist(ctx context.Context) {
	if err := t.store.SaveTrackerState(ctx, t.courseID, t.snapshot()); err != nil {
		log.Printf("tracker persist failed for %s: %v", t.courseID, err)
	}
}

// SetOnCourseComplete registers the completion hook. Last registration wins;
// pass nil to clear. The hook may run again for repeated completions while at
// 100%, so it must be idempotent.
func (t *Tracker) SetOnCourseComplete(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onComplete = fn
}

// SetTotalSections sets the authoritative denominator for percentage math.
// Call it once per course load, before relying on CourseProgress.
func (t *Tracker) SetTotalSections(ctx context.Context, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.TotalSections = n
	t.persist(ctx)
}

// EnsureSessions idempotently initializes missing section entries. Existing
// entries are never overwritten, guarding against storage drift when a course
// is re-entered.
func (t *Tracker) EnsureSessions(ctx context.Context, ids []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	changed := false
	for _, id := range ids {
		if _, ok := t.state.SessionsProgress[id]; ok {
			continue
		}
		t.state.SessionsProgress[id] = models.SessionProgress{Status: models.SessionNotStarted}
		changed = true
	}
	if changed {
		t.persist(ctx)
	}
}

// SetActiveSession moves the view to a section, promoting it to in_progress
// unless it already completed.
func (t *Tracker) SetActiveSession(ctx context.Context, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	existing := t.state.SessionsProgress[id]
	status := models.SessionInProgress
	if existing.Status == models.SessionCompleted {
		status = models.SessionCompleted
	}
	t.state.ActiveSessionID = id
	t.state.SessionsProgress[id] = models.SessionProgress{
		Status:        status,
		ScrollPercent: existing.ScrollPercent,
		TimeSpent:     existing.TimeSpent,
	}
	t.persist(ctx)
}

// MarkSessionCompleted forces a section to completed and recomputes the
// course percentage. It reports whether this call caused the transition to
// 100%; the registered completion hook fires whenever the recomputed
// percentage is 100.
func (t *Tracker) MarkSessionCompleted(ctx context.Context, id string) bool {
	t.mu.Lock()

	existing, had := t.state.SessionsProgress[id]
	scroll := existing.ScrollPercent
	if !had {
		scroll = 100
	}
	t.state.SessionsProgress[id] = models.SessionProgress{
		Status:        models.SessionCompleted,
		ScrollPercent: scroll,
		TimeSpent:     existing.TimeSpent,
	}

	total := t.state.TotalSections
	if total == 0 {
		total = len(t.state.SessionsProgress)
	}
	if tracked := len(t.state.SessionsProgress); t.state.TotalSections != 0 && t.state.TotalSections != tracked {
		log.Printf("tracker %s: totalSections mismatch: total=%d tracked=%d", t.courseID, t.state.TotalSections, tracked)
	}

	completed := 0
	for _, sp := range t.state.SessionsProgress {
		if sp.Status == models.SessionCompleted {
			completed++
		}
	}

	previous := t.state.CourseProgress
	if total > 0 {
		t.state.CourseProgress = int(float64(completed)/float64(total)*100 + 0.5)
	} else {
		t.state.CourseProgress = 0
	}
	t.persist(ctx)

	reached := t.state.CourseProgress == 100
	justCompleted := reached && previous < 100
	hook := t.onComplete
	t.mu.Unlock()

	if reached && hook != nil {
		hook()
	}
	return justCompleted
}

// UpdateSessionScroll records the last observed scroll depth. A section with
// no prior status defaults to in_progress.
func (t *Tracker) UpdateSessionScroll(ctx context.Context, id string, percent int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	existing := t.state.SessionsProgress[id]
	status := existing.Status
	if status == "" {
		status = models.SessionInProgress
	}
	t.state.SessionsProgress[id] = models.SessionProgress{
		Status:        status,
		ScrollPercent: percent,
		TimeSpent:     existing.TimeSpent,
	}
	t.persist(ctx)
}

// UpdateSessionTime records accumulated active seconds for a section.
func (t *Tracker) UpdateSessionTime(ctx context.Context, id string, seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	existing := t.state.SessionsProgress[id]
	status := existing.Status
	if status == "" {
		status = models.SessionInProgress
	}
	t.state.SessionsProgress[id] = models.SessionProgress{
		Status:        status,
		ScrollPercent: existing.ScrollPercent,
		TimeSpent:     seconds,
	}
	t.persist(ctx)
}

// SetCourseCompleted is the explicit override used by finalize flows.
func (t *Tracker) SetCourseCompleted(ctx context.Context, v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.CourseCompleted = v
	t.persist(ctx)
}

// AutoComplete applies the completion heuristic to a section: scroll depth
// and active time past their thresholds auto-mark it completed. It re-runs
// safely on every scroll or state update, self-healing sections an update
// ordering race left just short of completion. Returns whether the section
// was completed by this call.
func (t *Tracker) AutoComplete(ctx context.Context, id string) bool {
	t.mu.Lock()
	sp, ok := t.state.SessionsProgress[id]
	eligible := ok &&
		sp.Status != models.SessionCompleted &&
		sp.ScrollPercent >= t.opts.ScrollCompletePercent &&
		sp.TimeSpent >= t.opts.MinReadSeconds
	t.mu.Unlock()

	if !eligible {
		return false
	}
	t.MarkSessionCompleted(ctx, id)
	return true
}
