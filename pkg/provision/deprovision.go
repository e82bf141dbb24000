package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuskit/campus-portal/pkg/apperr"
	"github.com/campuskit/campus-portal/pkg/identity"
	"github.com/campuskit/campus-portal/pkg/profile"
	"github.com/campuskit/campus-portal/pkg/role"
	"github.com/campuskit/campus-portal/pkg/roster"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// DeprovisionRequest identifies an account to remove. TargetRef may be
// either the roster record id or the account id itself.
type DeprovisionRequest struct {
	TargetRef string
	UserType  string
}

// DeprovisionResult reports what was removed. Warnings carry non-fatal
// cleanup problems; the run still counts as a success when the identity
// account itself was deleted.
type DeprovisionResult struct {
	AccountID string
	Warnings  []string
	Message   string
}

// Deprovision removes an account and its domain rows. Domain cleanup is
// best-effort and failures are downgraded to warnings; only the final
// identity-provider delete is allowed to fail the operation, so a repeat
// call for an already-removed account returns not found.
func (s *ProvisioningService) Deprovision(ctx context.Context, caller uuid.UUID, req DeprovisionRequest) (*DeprovisionResult, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	if req.TargetRef == "" {
		return nil, apperr.InvalidArgument("userId", "required")
	}
	hint, ok := role.ParseRole(req.UserType)
	if !ok || hint == role.RoleAdmin {
		return nil, apperr.InvalidArgument("userType", fmt.Sprintf("must be %q or %q", role.RoleStudent, role.RoleStaff))
	}

	targetRef, err := uuid.Parse(req.TargetRef)
	if err != nil {
		return nil, apperr.InvalidArgument("userId", "not a valid identifier")
	}
	accountID, err := s.roster.ResolveAccountID(ctx, targetRef, hint)
	if err != nil {
		return nil, apperr.InternalWrap(err, "failed to resolve account")
	}

	var warnings []string
	warn := func(step string, err error) {
		slog.Warn("De-provisioning step failed, continuing", "step", step, "accountId", accountID, "err", err)
		warnings = append(warnings, fmt.Sprintf("%s: %v", step, err))
	}

	if err := s.roster.DeleteByAccount(ctx, accountID, hint); err != nil && !errors.Is(err, roster.ErrRecordNotFound) {
		warn("record removal", err)
	}
	if _, err := s.roles.RevokeAll(ctx, accountID); err != nil {
		warn("role revocation", err)
	}
	if err := s.profiles.Delete(ctx, accountID); err != nil && !errors.Is(err, profile.ErrProfileNotFound) {
		warn("profile removal", err)
	}

	// A wrong userType hint only removes the hinted table's record. Deleting
	// the account would then orphan the other table's row, so check it.
	other := role.RoleStaff
	if hint == role.RoleStaff {
		other = role.RoleStudent
	}
	if exists, err := s.roster.HasRecord(ctx, accountID, other); err == nil && exists {
		warn("record cross-check", fmt.Errorf("account still has a %s record", other))
	}

	if err := s.identity.DeleteAccount(ctx, accountID); err != nil {
		if errors.Is(err, identity.ErrAccountNotFound) {
			return nil, apperr.NotFound("account", accountID.String())
		}
		return nil, apperr.Unavailable(err, "identity provider")
	}

	slog.Info("De-provisioning complete", "accountId", accountID, "warnings", len(warnings))
	return &DeprovisionResult{
		AccountID: accountID.String(),
		Warnings:  warnings,
		Message:   fmt.Sprintf("%s account removed", hint),
	}, nil
}
