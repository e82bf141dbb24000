package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuskit/campus-portal/pkg/apperr"
	"github.com/campuskit/campus-portal/pkg/blob"
	"github.com/campuskit/campus-portal/pkg/identity"
	"github.com/campuskit/campus-portal/pkg/profile"
	"github.com/campuskit/campus-portal/pkg/role"
	"github.com/campuskit/campus-portal/pkg/roster"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// ProvisioningService orchestrates account creation across the identity
// provider and the domain tables as a pseudo-transaction: each successful
// step pushes a compensating action, and any later failure unwinds them
// most-recent-first. There is no distributed transaction underneath; the
// store's uniqueness constraints are the only concurrency guard.
type ProvisioningService struct {
	identity identity.Provider
	profiles *profile.ProfileService
	roles    *role.RoleService
	roster   *roster.RosterService
	blobs    blob.Store
}

// ProvisioningServiceOption is a functional option for configuring ProvisioningService
type ProvisioningServiceOption func(*ProvisioningService)

// NewProvisioningService creates a new ProvisioningService with the given options
func NewProvisioningService(opts ...ProvisioningServiceOption) *ProvisioningService {
	s := &ProvisioningService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithIdentityProvider sets the identity provider collaborator
func WithIdentityProvider(p identity.Provider) ProvisioningServiceOption {
	return func(s *ProvisioningService) {
		s.identity = p
	}
}

// WithProfileService sets the profile service
func WithProfileService(ps *profile.ProfileService) ProvisioningServiceOption {
	return func(s *ProvisioningService) {
		s.profiles = ps
	}
}

// WithRoleService sets the role service
func WithRoleService(rs *role.RoleService) ProvisioningServiceOption {
	return func(s *ProvisioningService) {
		s.roles = rs
	}
}

// WithRosterService sets the roster service
func WithRosterService(rs *roster.RosterService) ProvisioningServiceOption {
	return func(s *ProvisioningService) {
		s.roster = rs
	}
}

// WithBlobStore sets the blob storage collaborator
func WithBlobStore(b blob.Store) ProvisioningServiceOption {
	return func(s *ProvisioningService) {
		s.blobs = b
	}
}

// StudentData carries the student-specific provisioning fields
type StudentData struct {
	StudentNumber    string
	Course           string
	Semester         int
	EmergencyContact string
}

// StaffData carries the staff-specific provisioning fields
type StaffData struct {
	EmployeeNumber string
	Department     string
	Position       string
}

// ProvisionRequest represents one account-provisioning request
type ProvisionRequest struct {
	Email    string
	FullName string
	Phone    string
	Address  string
	Role     role.Role

	// Optional profile picture; upload failure is non-fatal.
	Picture            []byte
	PictureContentType string

	Student *StudentData
	Staff   *StaffData
}

// ProvisionResult represents the outcome of a successful provisioning run.
// OneTimePassword is handed to the caller exactly once and exists nowhere
// else in plaintext.
type ProvisionResult struct {
	AccountID       uuid.UUID
	OneTimePassword string
	Message         string
}

// compensation is one undo step, named for logging.
type compensation struct {
	name string
	undo func() error
}

// Provision runs the admin-gated provisioning workflow.
func (s *ProvisioningService) Provision(ctx context.Context, caller uuid.UUID, req ProvisionRequest) (*ProvisionResult, error) {
	// Permission and validation failures happen before any mutation.
	if err := s.requireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	if err := validateProvisionRequest(req); err != nil {
		return nil, err
	}

	oneTimePassword, err := generateOneTimePassword()
	if err != nil {
		return nil, apperr.InternalWrap(err, "failed to generate credential")
	}

	account, err := s.identity.CreateAccount(ctx, identity.CreateAccountParams{
		Email:         req.Email,
		Credential:    oneTimePassword,
		EmailVerified: true,
	})
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return nil, apperr.Conflict("account", req.Email)
		}
		return nil, apperr.Unavailable(err, "identity provider")
	}
	slog.Info("Account created", "accountId", account.ID, "role", req.Role)

	// The account delete is pushed first so it runs last: domain rows are
	// removed explicitly rather than relying on provider-side cascade.
	comps := []compensation{{
		name: "identity account",
		undo: func() error { return s.identity.DeleteAccount(ctx, account.ID) },
	}}

	_, err = s.profiles.Create(ctx, profile.CreateProfileParams{
		AccountID: account.ID,
		Email:     req.Email,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		return nil, s.compensate(comps, mapProfileErr(err, req.Email))
	}
	comps = append(comps, compensation{
		name: "profile",
		undo: func() error { return s.profiles.Delete(ctx, account.ID) },
	})

	_, err = s.roles.Grant(ctx, account.ID, req.Role, caller)
	if err != nil {
		return nil, s.compensate(comps, mapRoleErr(err))
	}
	comps = append(comps, compensation{
		name: "role assignment",
		undo: func() error {
			_, revokeErr := s.roles.RevokeAll(ctx, account.ID)
			return revokeErr
		},
	})

	switch req.Role {
	case role.RoleStudent:
		_, err = s.roster.CreateStudent(ctx, roster.CreateStudentParams{
			AccountID:        account.ID,
			StudentNumber:    req.Student.StudentNumber,
			Course:           req.Student.Course,
			Semester:         req.Student.Semester,
			EmergencyContact: req.Student.EmergencyContact,
			RegisteredBy:     caller,
		})
	case role.RoleStaff:
		_, err = s.roster.CreateStaff(ctx, roster.CreateStaffParams{
			AccountID:      account.ID,
			EmployeeNumber: req.Staff.EmployeeNumber,
			Department:     req.Staff.Department,
			Position:       req.Staff.Position,
			RegisteredBy:   caller,
		})
	}
	if err != nil {
		return nil, s.compensate(comps, mapRosterErr(err))
	}

	// Picture upload is non-fatal: the account is fully usable without it
	// and the picture can be added later.
	if len(req.Picture) > 0 && s.blobs != nil {
		path := fmt.Sprintf("profiles/%s/picture", account.ID)
		url, uploadErr := s.blobs.Upload(ctx, path, req.Picture, req.PictureContentType)
		if uploadErr != nil {
			slog.Error("Profile picture upload failed, continuing", "accountId", account.ID, "err", uploadErr)
		} else if patchErr := s.profiles.SetPictureURL(ctx, account.ID, url); patchErr != nil {
			slog.Error("Profile picture patch failed, continuing", "accountId", account.ID, "err", patchErr)
		}
	}

	slog.Info("Provisioning complete", "accountId", account.ID, "role", req.Role)
	return &ProvisionResult{
		AccountID:       account.ID,
		OneTimePassword: oneTimePassword,
		Message:         fmt.Sprintf("%s account created for %s", req.Role, req.Email),
	}, nil
}

// compensate unwinds successful steps most-recent-first. It is
// best-effort: a failing undo does not stop the remaining ones, and any
// undo failure converts the result into a PartialFailure that carries
// both the original error and the cleanup error.
func (s *ProvisioningService) compensate(comps []compensation, primary error) error {
	var cleanupErrs []error
	for i := len(comps) - 1; i >= 0; i-- {
		if err := comps[i].undo(); err != nil {
			slog.Error("Compensation step failed", "step", comps[i].name, "err", err)
			cleanupErrs = append(cleanupErrs, fmt.Errorf("%s: %w", comps[i].name, err))
		} else {
			slog.Info("Compensated step", "step", comps[i].name)
		}
	}
	if len(cleanupErrs) > 0 {
		return apperr.PartialFailure(primary, errors.Join(cleanupErrs...))
	}
	return primary
}

func (s *ProvisioningService) requireAdmin(ctx context.Context, caller uuid.UUID) error {
	if caller == uuid.Nil {
		return apperr.Unauthenticated("caller could not be resolved")
	}
	effective, held, err := s.roles.EffectiveRole(ctx, caller)
	if err != nil {
		return apperr.InternalWrap(err, "failed to resolve caller role")
	}
	if !held || effective != role.RoleAdmin {
		return apperr.PermissionDenied("admin role required")
	}
	return nil
}

func validateProvisionRequest(req ProvisionRequest) error {
	if req.Email == "" {
		return apperr.InvalidArgument("email", "required")
	}
	if req.FullName == "" {
		return apperr.InvalidArgument("fullName", "required")
	}
	switch req.Role {
	case role.RoleStudent:
		if req.Student == nil {
			return apperr.InvalidArgument("studentData", "required for student role")
		}
		if req.Student.StudentNumber == "" || req.Student.Course == "" || req.Student.Semester < 1 {
			return apperr.InvalidArgument("studentData", "studentId, course and semester are required")
		}
	case role.RoleStaff:
		if req.Staff == nil {
			return apperr.InvalidArgument("staffData", "required for staff role")
		}
		if req.Staff.EmployeeNumber == "" || req.Staff.Department == "" || req.Staff.Position == "" {
			return apperr.InvalidArgument("staffData", "employeeId, department and position are required")
		}
	default:
		// Admin accounts are not provisioned through this workflow.
		return apperr.InvalidArgument("role", fmt.Sprintf("must be %q or %q", role.RoleStudent, role.RoleStaff))
	}
	return nil
}

func mapProfileErr(err error, email string) error {
	if errors.Is(err, profile.ErrProfileExists) {
		return apperr.Conflict("profile", email)
	}
	return apperr.InternalWrap(err, "failed to create profile")
}

func mapRoleErr(err error) error {
	if errors.Is(err, role.ErrAssignmentExists) {
		return apperr.New(apperr.ErrCodeConflict, "role already assigned")
	}
	return apperr.InternalWrap(err, "failed to assign role")
}

func mapRosterErr(err error) error {
	switch {
	case errors.Is(err, roster.ErrStudentNumberTaken):
		return apperr.New(apperr.ErrCodeConflict, "student number already in use")
	case errors.Is(err, roster.ErrEmployeeNumberTaken):
		return apperr.New(apperr.ErrCodeConflict, "employee number already in use")
	case errors.Is(err, roster.ErrRecordExists):
		return apperr.New(apperr.ErrCodeConflict, "account already has a record")
	default:
		return apperr.InternalWrap(err, "failed to create record")
	}
}
