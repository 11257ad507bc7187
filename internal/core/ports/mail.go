package ports

import "context"

// MailMessage is one outbound message. TextBody is the mandatory plain-text
// fallback for the HTML body.
type MailMessage struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// MailDispatcher sends a single message. Implementations must return a plain
// error on failure; nothing may panic across this boundary.
type MailDispatcher interface {
	Send(ctx context.Context, msg MailMessage) error
}
