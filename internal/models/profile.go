package models

// Profile is a locally stored persona. All progress and favorites keys are
// namespaced by the active profile id. At most MaxProfiles exist at once.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

const MaxProfiles = 5

// DefaultProfileID is used when progress is recorded before any profile has
// been created, so nothing is lost.
const DefaultProfileID = "default"
