package notice

import (
	"embed"
	"log/slog"

	"github.com/campuskit/campus-portal/pkg/notification"
)

//go:embed templates/*
var templateFiles embed.FS

func loadTemplate(filename string) string {
	content, err := templateFiles.ReadFile(filename)
	if err != nil {
		slog.Error("Error reading template file!", "err", err, "filename", filename)
		return ""
	}
	return string(content)
}

// NewNotificationManager builds the portal's notification manager with the
// email notifier and all notice templates registered.
func NewNotificationManager(smtpConfig notification.SMTPConfig) (*notification.NotificationManager, error) {
	notificationManager := notification.NewNotificationManager()

	emailNotifier, err := notification.NewEmailNotifier(smtpConfig)
	if err != nil {
		return nil, err
	}
	notificationManager.RegisterNotifier(notification.EmailSystem, emailNotifier)

	err = notificationManager.RegisterNotification(notification.WelcomeNotice, notification.EmailSystem, notification.NoticeTemplate{
		Subject: "Your campus portal account",
		Text:    loadTemplate("templates/email/welcome.tmpl"),
		Html:    loadTemplate("templates/email/welcome.html"),
	})
	if err != nil {
		return nil, err
	}

	return notificationManager, nil
}

// WelcomeParams is the data the welcome notice template expects.
type WelcomeParams struct {
	Email           string
	Name            string
	Role            string
	OneTimePassword string
	LoginURL        string
}

// SendWelcome delivers the welcome email. It is fire-and-forget: failures
// are logged and never propagated, so a lost email cannot fail a
// provisioning result that already succeeded. The one-time password goes
// into the message body only, never into logs.
func SendWelcome(nm *notification.NotificationManager, params WelcomeParams) {
	err := nm.Send(notification.WelcomeNotice, notification.EmailSystem, notification.NotificationData{
		To: params.Email,
		Data: map[string]string{
			"Name":            params.Name,
			"Role":            params.Role,
			"OneTimePassword": params.OneTimePassword,
			"LoginURL":        params.LoginURL,
		},
	})
	if err != nil {
		slog.Error("Failed to send welcome email", "email", params.Email, "err", err)
		return
	}
	slog.Info("Welcome email sent", "email", params.Email, "role", params.Role)
}
