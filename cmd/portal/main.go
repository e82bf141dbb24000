package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/campuskit/campus-portal/pkg/blob"
	"github.com/campuskit/campus-portal/pkg/client"
	"github.com/campuskit/campus-portal/pkg/config"
	"github.com/campuskit/campus-portal/pkg/identity"
	"github.com/campuskit/campus-portal/pkg/notice"
	"github.com/campuskit/campus-portal/pkg/notification"
	"github.com/campuskit/campus-portal/pkg/profile"
	"github.com/campuskit/campus-portal/pkg/provision"
	"github.com/campuskit/campus-portal/pkg/role"
	"github.com/campuskit/campus-portal/pkg/roster"
	"github.com/campuskit/campus-portal/pkg/tokengenerator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	config.LoadEnvFile()

	cfg := config.Config{}
	cleanenv.ReadEnv(&cfg)

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	dbConfig := cfg.DbConfig.ToDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}

	// Repositories
	profileRepo := profile.NewPostgresProfileRepository(pool)
	roleRepo := role.NewPostgresRoleRepository(pool)
	rosterRepo := roster.NewPostgresRosterRepository(pool)

	// Identity provider. The in-process provider stands in for an external
	// identity service; swap in a real implementation of identity.Provider
	// to integrate one.
	tokenGenerator := tokengenerator.NewJwtTokenGenerator(
		cfg.JwtConfig.Secret,
		cfg.JwtConfig.Issuer,
		cfg.JwtConfig.Audience,
	)
	identityProvider := identity.NewInMemoryProvider(tokenGenerator)

	// Blob storage for profile pictures
	var blobStore blob.Store
	if cfg.BlobConfig.Dir != "" {
		blobStore, err = blob.NewFSStore(cfg.BlobConfig.Dir, cfg.BlobConfig.BaseURL)
		if err != nil {
			slog.Error("Failed creating blob store", "dir", cfg.BlobConfig.Dir, "err", err)
			os.Exit(-1)
		}
	} else {
		blobStore = blob.NewInMemoryStore(cfg.BlobConfig.BaseURL)
	}

	// Notifications
	notificationManager, err := notice.NewNotificationManager(notification.SMTPConfig{
		Host:     cfg.EmailConfig.Host,
		Port:     int(cfg.EmailConfig.Port),
		Username: cfg.EmailConfig.Username,
		Password: cfg.EmailConfig.Password,
		From:     cfg.EmailConfig.From,
		TLS:      cfg.EmailConfig.TLS,
	})
	if err != nil {
		slog.Error("Failed initialize notification manager", "err", err)
	}

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

	provisionHandle := provision.NewHandle(
		provision.WithService(provisioningService),
		provision.WithProfiles(profileService),
		provision.WithNotifications(notificationManager, cfg.FrontendUrl+"/login"),
	)
	loginHandle := identity.NewHandle(identityProvider,
		identity.WithCookieSecure(cfg.JwtConfig.CookieSecure),
	)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JwtConfig.Secret), nil)

	server.R.Post("/api/auth/login", loginHandle.Login)

	server.R.Group(func(r chi.Router) {
		r.Use(client.Verifier(tokenAuth))
		r.Use(client.CallerMiddleware(roleService))
		provisionHandle.Routes(r)
	})

	server.Run()
}
