package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/google/uuid"

	"course-service/internal/models"
	"course-service/internal/store"
)

var (
	ErrProfileLimit    = errors.New("profile limit reached")
	ErrProfileNotFound = errors.New("profile not found")
)

// ProfileRepository manages the locally stored personas and the active-profile
// pointer every other repository namespaces its keys by.
type ProfileRepository struct {
	Store store.KV
}

func NewProfileRepository(kv store.KV) *ProfileRepository {
	return &ProfileRepository{Store: kv}
}

// Profiles returns every stored profile. A corrupt profiles record is treated
// as empty rather than surfacing the parse error.
func (r *ProfileRepository) Profiles(ctx context.Context) ([]models.Profile, error) {
	raw, ok, err := r.Store.Get(ctx, keyProfiles)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var profiles []models.Profile
	if err := json.Unmarshal([]byte(raw), &profiles); err != nil {
		log.Printf("profiles record corrupt, starting fresh: %v", err)
		return nil, nil
	}
	return profiles, nil
}

func (r *ProfileRepository) save(ctx context.Context, profiles []models.Profile, activeID string) error {
	raw, err := json.Marshal(profiles)
	if err != nil {
		return err
	}
	if err := r.Store.Set(ctx, keyProfiles, string(raw)); err != nil {
		return err
	}
	if activeID == "" {
		return r.Store.Remove(ctx, keyActiveProfile)
	}
	return r.Store.Set(ctx, keyActiveProfile, activeID)
}

// Create adds a profile and makes it active. At most models.MaxProfiles may
// exist at once.
func (r *ProfileRepository) Create(ctx context.Context, name, photo string) (*models.Profile, error) {
	profiles, err := r.Profiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(profiles) >= models.MaxProfiles {
		return nil, ErrProfileLimit
	}
	profile := models.Profile{
		ID:    "profile_" + uuid.NewString(),
		Name:  name,
		Photo: photo,
	}
	profiles = append(profiles, profile)
	if err := r.save(ctx, profiles, profile.ID); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, id, name, photo string) error {
	profiles, err := r.Profiles(ctx)
	if err != nil {
		return err
	}
	for i := range profiles {
		if profiles[i].ID != id {
			continue
		}
		if name != "" {
			profiles[i].Name = name
		}
		if photo != "" {
			profiles[i].Photo = photo
		}
		activeID, _, err := r.activeID(ctx)
		if err != nil {
			return err
		}
		return r.save(ctx, profiles, activeID)
	}
	return ErrProfileNotFound
}

// Delete removes a profile. If it was active, the first remaining profile
// becomes active, or none when the list is empty.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	profiles, err := r.Profiles(ctx)
	if err != nil {
		return err
	}
	kept := profiles[:0]
	found := false
	for _, p := range profiles {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrProfileNotFound
	}

	activeID, _, err := r.activeID(ctx)
	if err != nil {
		return err
	}
	if activeID == id {
		activeID = ""
		if len(kept) > 0 {
			activeID = kept[0].ID
		}
	}
	return r.save(ctx, kept, activeID)
}

// Switch makes an existing profile the active one.
func (r *ProfileRepository) Switch(ctx context.Context, id string) error {
	profiles, err := r.Profiles(ctx)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		if p.ID == id {
			return r.Store.Set(ctx, keyActiveProfile, id)
		}
	}
	return ErrProfileNotFound
}

func (r *ProfileRepository) activeID(ctx context.Context) (string, bool, error) {
	id, ok, err := r.Store.Get(ctx, keyActiveProfile)
	return id, ok, err
}

// ActiveProfileID returns the active profile id, falling back to the literal
// default identifier (and recording it) when none is set, so progress can be
// saved before a profile is explicitly created.
func (r *ProfileRepository) ActiveProfileID(ctx context.Context) (string, error) {
	id, ok, err := r.activeID(ctx)
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		return id, nil
	}
	if err := r.Store.Set(ctx, keyActiveProfile, models.DefaultProfileID); err != nil {
		return "", err
	}
	return models.DefaultProfileID, nil
}

// ActiveProfile returns the active profile record, or nil when the active id
// does not correspond to a stored profile (the default fallback id, for one).
func (r *ProfileRepository) ActiveProfile(ctx context.Context) (*models.Profile, error) {
	id, ok, err := r.activeID(ctx)
	if err != nil || !ok {
		return nil, err
	}
	profiles, err := r.Profiles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].ID == id {
			return &profiles[i], nil
		}
	}
	return nil, nil
}
