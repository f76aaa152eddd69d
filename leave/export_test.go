package leave

import (
	"context"

	gomail "github.com/wneessen/go-mail"
)

// SetDeliverFunc replaces the SMTP transport of m.
func SetDeliverFunc(m *SMTPMailer, fn func(ctx context.Context, msg *gomail.Msg) error) {
	m.deliver = fn
}
