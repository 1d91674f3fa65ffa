package models

import "time"

type SessionStatus string

const (
	SessionNotStarted SessionStatus = "not_started"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// SessionProgress tracks one section of one course for one profile.
type SessionProgress struct {
	Status        SessionStatus `json:"status"`
	ScrollPercent int           `json:"scrollPercent"`
	TimeSpent     int           `json:"timeSpent"`
}

// TrackerState is the in-session progress record the tracker persists on every
// mutation. CourseProgress is derived: round(completed / totalSections * 100).
type TrackerState struct {
	ActiveSessionID  string                     `json:"activeSessionId"`
	SessionsProgress map[string]SessionProgress `json:"sessionsProgress"`
	CourseProgress   int                        `json:"courseProgress"`
	CourseCompleted  bool                       `json:"courseCompleted"`
	TotalSections    int                        `json:"totalSections"`
}

// SavedQuizResult is the quiz outcome stored inside CourseProgress.
type SavedQuizResult struct {
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	CompletedAt time.Time `json:"completedAt"`
	Attempts    int       `json:"attempts"`
}

// CourseProgress is the durable per-profile, per-course record. Every mutation
// stamps LastAccessedAt; it survives until an explicit reset.
type CourseProgress struct {
	CourseID  string     `json:"courseId"`
	Started   bool       `json:"started"`
	StartedAt *time.Time `json:"startedAt,omitempty"`

	SectionsRead      []string   `json:"sectionsRead"`
	CurrentSection    string     `json:"currentSection,omitempty"`
	Progress          int        `json:"progress"`
	ContentFinished   bool       `json:"contentFinished"`
	ContentFinishedAt *time.Time `json:"contentFinishedAt,omitempty"`

	QuizCompleted bool             `json:"quizCompleted"`
	QuizResult    *SavedQuizResult `json:"quizResult,omitempty"`

	CertificateGenerated   bool       `json:"certificateGenerated"`
	CertificateGeneratedAt *time.Time `json:"certificateGeneratedAt,omitempty"`
	UserName               string     `json:"userName,omitempty"`

	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	LastAccessedAt *time.Time `json:"lastAccessedAt,omitempty"`
}

// EmptyProgress returns a fresh record for a course, used on first access and
// as the self-healing fallback when a stored record fails to parse.
func EmptyProgress(courseID string) CourseProgress {
	return CourseProgress{
		CourseID:     courseID,
		SectionsRead: []string{},
	}
}

// CertificateData is everything the presentation layer needs to render a
// certificate. Producing it is gated on a quiz pass.
type CertificateData struct {
	StudentName    string    `json:"studentName"`
	CourseName     string    `json:"courseName"`
	InstructorName string    `json:"instructorName"`
	CompletionDate time.Time `json:"completionDate"`
}
