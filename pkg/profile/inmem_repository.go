package profile

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryProfileRepository implements ProfileRepository using in-memory storage
type InMemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]Profile
}

// NewInMemoryProfileRepository creates a new in-memory profile repository
func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{
		profiles: make(map[uuid.UUID]Profile),
	}
}

// CreateProfile creates a new profile keyed by the account ID
func (r *InMemoryProfileRepository) CreateProfile(ctx context.Context, params CreateProfileParams) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[params.AccountID]; exists {
		return Profile{}, ErrProfileExists
	}

	now := time.Now()
	p := Profile{
		ID:             params.AccountID,
		Email:          params.Email,
		FullName:       params.FullName,
		Phone:          params.Phone,
		Address:        params.Address,
		CreatedAt:      now,
		LastModifiedAt: now,
	}
	r.profiles[p.ID] = p
	return p, nil
}

// GetProfile returns the profile for an account
func (r *InMemoryProfileRepository) GetProfile(ctx context.Context, accountID uuid.UUID) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[accountID]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	return p, nil
}

// ListProfiles returns all profiles ordered by creation time
func (r *InMemoryProfileRepository) ListProfiles(ctx context.Context) ([]Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})
	return profiles, nil
}

// UpdatePictureURL patches the profile's picture URL
func (r *InMemoryProfileRepository) UpdatePictureURL(ctx context.Context, accountID uuid.UUID, pictureURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[accountID]
	if !ok {
		return ErrProfileNotFound
	}
	p.PictureURL = pictureURL
	p.LastModifiedAt = time.Now()
	r.profiles[accountID] = p
	return nil
}

// DeleteProfile removes the profile for an account
func (r *InMemoryProfileRepository) DeleteProfile(ctx context.Context, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[accountID]; !ok {
		return ErrProfileNotFound
	}
	delete(r.profiles, accountID)
	return nil
}

// CountProfiles returns the number of stored profiles
func (r *InMemoryProfileRepository) CountProfiles(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.profiles)), nil
}
