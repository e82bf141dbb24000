// Package main runs the portal without a database using in-memory
// repositories. This is useful for:
// - Quick development and testing
// - Demo/prototype environments
// - Learning the API without database setup
//
// Note: All data is lost when the server stops. For production, use
// cmd/portal with PostgreSQL.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/campuskit/campus-portal/pkg/blob"
	"github.com/campuskit/campus-portal/pkg/client"
	"github.com/campuskit/campus-portal/pkg/identity"
	"github.com/campuskit/campus-portal/pkg/profile"
	"github.com/campuskit/campus-portal/pkg/provision"
	"github.com/campuskit/campus-portal/pkg/role"
	"github.com/campuskit/campus-portal/pkg/roster"
	"github.com/campuskit/campus-portal/pkg/tokengenerator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/tendant/chi-demo/app"
)

const (
	jwtSecret     = "inmem-dev-secret-change-in-production"
	baseURL       = "http://localhost:4000"
	issuer        = "campus-portal"
	adminEmail    = "admin@school.edu"
	adminPassword = "password123"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting In-Memory Campus Portal (no database required)")
	slog.Info(strings.Repeat("=", 60))

	// In-memory repositories
	tokenGenerator := tokengenerator.NewJwtTokenGenerator(jwtSecret, issuer, baseURL)
	identityProvider := identity.NewInMemoryProvider(tokenGenerator)
	profileRepo := profile.NewInMemoryProfileRepository()
	roleRepo := role.NewInMemoryRoleRepository()
	rosterRepo := roster.NewInMemoryRosterRepository()
	blobStore := blob.NewInMemoryStore(baseURL + "/files")

	// Services
	profileService := profile.NewProfileService(profileRepo)
	roleService := role.NewRoleService(roleRepo)
	rosterService := roster.NewRosterService(rosterRepo)
	provisioningService := provision.NewProvisioningService(
		provision.WithIdentityProvider(identityProvider),
		provision.WithProfileService(profileService),
		provision.WithRoleService(roleService),
		provision.WithRosterService(rosterService),
		provision.WithBlobStore(blobStore),
	)

	seedAdmin(identityProvider, profileService, roleService)

	server := app.NewApp(app.WithPort(4000))
	server.R.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	provisionHandle := provision.NewHandle(
		provision.WithService(provisioningService),
		provision.WithProfiles(profileService),
	)
	loginHandle := identity.NewHandle(identityProvider)

	tokenAuth := jwtauth.New("HS256", []byte(jwtSecret), nil)

	server.R.Post("/api/auth/login", loginHandle.Login)

	server.R.Group(func(r chi.Router) {
		r.Use(client.Verifier(tokenAuth))
		r.Use(client.CallerMiddleware(roleService))
		provisionHandle.Routes(r)
	})

	slog.Info(strings.Repeat("=", 60))
	slog.Info("In-Memory Campus Portal Ready")
	slog.Info("Base URL: " + baseURL)
	slog.Info("")
	slog.Info("Test credentials:")
	slog.Info("  Email:    " + adminEmail)
	slog.Info("  Password: " + adminPassword)
	slog.Info("")
	slog.Info("API Endpoints:")
	slog.Info("  POST   /api/auth/login   - Login")
	slog.Info("  POST   /api/users        - Provision user (admin)")
	slog.Info("  GET    /api/users        - List users (admin)")
	slog.Info("  DELETE /api/users/{id}   - De-provision user (admin)")
	slog.Info(strings.Repeat("=", 60))

	server.Run()
}

func seedAdmin(
	identityProvider *identity.InMemoryProvider,
	profiles *profile.ProfileService,
	roles *role.RoleService,
) {
	ctx := context.Background()
	slog.Info("Seeding initial admin account...")

	account, err := identityProvider.CreateAccount(ctx, identity.CreateAccountParams{
		Email:         adminEmail,
		Credential:    adminPassword,
		EmailVerified: true,
	})
	if err != nil {
		slog.Error("Failed to seed admin account", "err", err)
		os.Exit(-1)
	}

	if _, err := profiles.Create(ctx, profile.CreateProfileParams{
		AccountID: account.ID,
		Email:     adminEmail,
		FullName:  "Portal Admin",
	}); err != nil {
		slog.Error("Failed to seed admin profile", "err", err)
		os.Exit(-1)
	}

	if _, err := roles.Grant(ctx, account.ID, role.RoleAdmin, account.ID); err != nil {
		slog.Error("Failed to seed admin role", "err", err)
		os.Exit(-1)
	}

	slog.Info("Created admin account", "id", account.ID, "email", adminEmail)
}
