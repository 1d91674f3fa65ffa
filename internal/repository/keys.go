package repository

import "fmt"

// Storage key layout. Everything durable lives in the KV store under the
// "pcursos" prefix; progress and favorites are additionally namespaced by the
// active profile id.
const (
	keyPrefix        = "pcursos"
	keyProfiles      = keyPrefix + ":profiles"
	keyActiveProfile = keyPrefix + ":activeProfileId"
)

func progressKey(profileID, courseID string) string {
	return fmt.Sprintf("%s:progress:%s:%s", keyPrefix, profileID, courseID)
}

func progressPrefix(profileID string) string {
	return fmt.Sprintf("%s:progress:%s:", keyPrefix, profileID)
}

func trackerKey(profileID, courseID string) string {
	return fmt.Sprintf("%s:courseProgress:%s:%s", keyPrefix, profileID, courseID)
}

func favoritesKey(profileID string) string {
	return fmt.Sprintf("%s:favorites:%s", keyPrefix, profileID)
}
