package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists for account")
)

// Profile is 1:1 with an identity account; its ID is the account ID.
// Created only by the provisioning workflow, deleted only by
// de-provisioning.
type Profile struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	Phone          string     `json:"phone,omitempty"`
	Address        string     `json:"address,omitempty"`
	PictureURL     string     `json:"picture_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	LastModifiedAt time.Time  `json:"last_modified_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// CreateProfileParams contains parameters for creating a new profile
type CreateProfileParams struct {
	AccountID uuid.UUID
	Email     string
	FullName  string
	Phone     string
	Address   string
}

// ProfileRepository defines the persistence operations for profiles
type ProfileRepository interface {
	CreateProfile(ctx context.Context, params CreateProfileParams) (Profile, error)
	GetProfile(ctx context.Context, accountID uuid.UUID) (Profile, error)
	ListProfiles(ctx context.Context) ([]Profile, error)
	UpdatePictureURL(ctx context.Context, accountID uuid.UUID, pictureURL string) error
	DeleteProfile(ctx context.Context, accountID uuid.UUID) error
	CountProfiles(ctx context.Context) (int64, error)
}
