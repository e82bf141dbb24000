package notification

// NotificationSystem represents a delivery channel (e.g. email, SMS).
type NotificationSystem string

// NoticeType represents a kind of notification (e.g. "welcome").
type NoticeType string

const (
	EmailSystem NotificationSystem = "email"
	SMSSystem   NotificationSystem = "sms"

	WelcomeNotice NoticeType = "welcome"
)

// NoticeTemplate holds the renderable content registered for a notice.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

// NotificationData is the payload handed to a notifier.
type NotificationData struct {
	To      string            // Recipient identifier (e.g. email address, phone number)
	Subject string            // Optional override of the template subject
	Body    string            // Pre-rendered content, when no template applies
	Data    map[string]string // Template data
}

// Notifier delivers one notice over one system.
type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
