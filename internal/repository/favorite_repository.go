package repository

import (
	"context"
	"encoding/json"
	"log"

	"course-service/internal/store"
)

// FavoriteRepository stores the active profile's favorite course ids.
type FavoriteRepository struct {
	Store    store.KV
	Profiles *ProfileRepository
}

func NewFavoriteRepository(kv store.KV, profiles *ProfileRepository) *FavoriteRepository {
	return &FavoriteRepository{Store: kv, Profiles: profiles}
}

func (r *FavoriteRepository) List(ctx context.Context) ([]string, error) {
	profileID, err := r.Profiles.ActiveProfileID(ctx)
	if err != nil {
		return nil, err
	}
	raw, ok, err := r.Store.Get(ctx, favoritesKey(profileID))
	if err != nil || !ok {
		return nil, err
	}
	var favorites []string
	if err := json.Unmarshal([]byte(raw), &favorites); err != nil {
		log.Printf("favorites record corrupt for %s, starting fresh: %v", profileID, err)
		return nil, nil
	}
	return favorites, nil
}

// Toggle adds the course to the favorites when absent and removes it when
// present, returning whether it is now a favorite.
func (r *FavoriteRepository) Toggle(ctx context.Context, courseID string) (bool, error) {
	favorites, err := r.List(ctx)
	if err != nil {
		return false, err
	}

	kept := favorites[:0]
	removed := false
	for _, id := range favorites {
		if id == courseID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if !removed {
		kept = append(kept, courseID)
	}

	profileID, err := r.Profiles.ActiveProfileID(ctx)
	if err != nil {
		return false, err
	}
	raw, err := json.Marshal(kept)
	if err != nil {
		return false, err
	}
	if err := r.Store.Set(ctx, favoritesKey(profileID), string(raw)); err != nil {
		return false, err
	}
	return !removed, nil
}

func (r *FavoriteRepository) IsFavorite(ctx context.Context, courseID string) (bool, error) {
	favorites, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range favorites {
		if id == courseID {
			return true, nil
		}
	}
	return false, nil
}
