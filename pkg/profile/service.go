package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ProfileService provides profile operations
type ProfileService struct {
	repo ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Create inserts the profile row for a freshly created account
func (s *ProfileService) Create(ctx context.Context, params CreateProfileParams) (Profile, error) {
	if params.Email == "" {
		return Profile{}, fmt.Errorf("email is required")
	}
	if params.FullName == "" {
		return Profile{}, fmt.Errorf("full name is required")
	}
	return s.repo.CreateProfile(ctx, params)
}

// Get returns the profile for an account
func (s *ProfileService) Get(ctx context.Context, accountID uuid.UUID) (Profile, error) {
	return s.repo.GetProfile(ctx, accountID)
}

// List returns all non-deleted profiles
func (s *ProfileService) List(ctx context.Context) ([]Profile, error) {
	return s.repo.ListProfiles(ctx)
}

// SetPictureURL patches the profile with an uploaded picture URL
func (s *ProfileService) SetPictureURL(ctx context.Context, accountID uuid.UUID, pictureURL string) error {
	if pictureURL == "" {
		return fmt.Errorf("picture URL is required")
	}
	return s.repo.UpdatePictureURL(ctx, accountID, pictureURL)
}

// Delete removes the profile for an account
func (s *ProfileService) Delete(ctx context.Context, accountID uuid.UUID) error {
	return s.repo.DeleteProfile(ctx, accountID)
}
