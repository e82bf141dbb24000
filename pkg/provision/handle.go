package provision

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campuskit/campus-portal/pkg/apperr"
	"github.com/campuskit/campus-portal/pkg/client"
	"github.com/campuskit/campus-portal/pkg/notice"
	"github.com/campuskit/campus-portal/pkg/notification"
	"github.com/campuskit/campus-portal/pkg/profile"
	"github.com/campuskit/campus-portal/pkg/role"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"
	"golang.org/x/exp/slog"
)

type Handle struct {
	service       *ProvisioningService
	profiles      *profile.ProfileService
	notifications *notification.NotificationManager
	loginURL      string
}

type HandleOption func(*Handle)

func NewHandle(opts ...HandleOption) *Handle {
	h := &Handle{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func WithService(s *ProvisioningService) HandleOption {
	return func(h *Handle) {
		h.service = s
	}
}

func WithProfiles(ps *profile.ProfileService) HandleOption {
	return func(h *Handle) {
		h.profiles = ps
	}
}

func WithNotifications(nm *notification.NotificationManager, loginURL string) HandleOption {
	return func(h *Handle) {
		h.notifications = nm
		h.loginURL = loginURL
	}
}

// Routes registers the user-management surface. The caller middleware must
// already be on the chain; admin checks happen in the service.
func (h *Handle) Routes(r chi.Router) {
	r.Post("/api/users", h.CreateUser)
	r.Get("/api/users", h.ListUsers)
	r.Delete("/api/users/{id}", h.DeleteUser)
}

type StudentPayload struct {
	StudentNumber    string `json:"studentId"`
	Course           string `json:"course"`
	Semester         int    `json:"semester"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
}

type StaffPayload struct {
	EmployeeNumber string `json:"employeeId"`
	Department     string `json:"department"`
	Position       string `json:"position"`
}

type CreateUserRequest struct {
	Email       string          `json:"email"`
	FullName    string          `json:"fullName"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	Role        string          `json:"role"`
	PictureData []byte          `json:"pictureData,omitempty"`
	PictureType string          `json:"pictureType,omitempty"`
	StudentData *StudentPayload `json:"studentData,omitempty"`
	StaffData   *StaffPayload   `json:"staffData,omitempty"`
}

type CreateUserResponse struct {
	Success         bool   `json:"success"`
	UserID          string `json:"userId"`
	OneTimePassword string `json:"oneTimePassword"`
	Message         string `json:"message"`
}

type DeleteUserResponse struct {
	Success  bool     `json:"success"`
	UserID   string   `json:"userId"`
	Warnings []string `json:"warnings,omitempty"`
	Message  string   `json:"message"`
}

// CreateUser provisions a new student or staff account. The one-time
// password appears only in this response.
func (h *Handle) CreateUser(w http.ResponseWriter, r *http.Request) {
	var request CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		renderError(w, r, apperr.InvalidArgument("body", "malformed JSON"))
		return
	}

	parsedRole, _ := role.ParseRole(request.Role)
	req := ProvisionRequest{
		Email:              request.Email,
		FullName:           request.FullName,
		Phone:              request.Phone,
		Address:            request.Address,
		Role:               parsedRole,
		Picture:            request.PictureData,
		PictureContentType: request.PictureType,
	}
	if request.StudentData != nil {
		req.Student = &StudentData{}
		copier.Copy(req.Student, request.StudentData)
	}
	if request.StaffData != nil {
		req.Staff = &StaffData{}
		copier.Copy(req.Staff, request.StaffData)
	}

	caller := client.GetCaller(r)
	result, err := h.service.Provision(r.Context(), caller.AccountID, req)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if h.notifications != nil {
		params := notice.WelcomeParams{
			Email:           request.Email,
			Name:            request.FullName,
			Role:            string(req.Role),
			OneTimePassword: result.OneTimePassword,
			LoginURL:        h.loginURL,
		}
		go notice.SendWelcome(h.notifications, params)
	}

	render.JSON(w, r, CreateUserResponse{
		Success:         true,
		UserID:          result.AccountID.String(),
		OneTimePassword: result.OneTimePassword,
		Message:         result.Message,
	})
}

// ListUsers returns all profiles. Admin only.
func (h *Handle) ListUsers(w http.ResponseWriter, r *http.Request) {
	caller := client.GetCaller(r)
	if !caller.Authenticated {
		renderError(w, r, apperr.Unauthenticated("authentication required"))
		return
	}
	if !caller.HasRole || caller.Role != role.RoleAdmin {
		renderError(w, r, apperr.PermissionDenied("admin role required"))
		return
	}

	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		renderError(w, r, apperr.InternalWrap(err, "failed to list users"))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"users": profiles,
		"count": len(profiles),
	})
}

// DeleteUser removes an account by roster record id or account id.
// The user type comes from the "type" query parameter.
func (h *Handle) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller := client.GetCaller(r)
	result, err := h.service.Deprovision(r.Context(), caller.AccountID, DeprovisionRequest{
		TargetRef: chi.URLParam(r, "id"),
		UserType:  r.URL.Query().Get("type"),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, DeleteUserResponse{
		Success:  true,
		UserID:   result.AccountID,
		Warnings: result.Warnings,
		Message:  result.Message,
	})
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.GetCode(err)
	status := apperr.MapErrorCodeToHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "status", status, "error", err)
	} else {
		slog.Debug("Request rejected", "status", status, "error", err)
	}

	message := "request failed"
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	render.Status(r, status)
	render.JSON(w, r, map[string]interface{}{"error": message})
}
