package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	gomail "github.com/wneessen/go-mail"
)

// =============================================================================
// MAILERS
// =============================================================================

// Message is an HTML email.
type Message struct {
	To      []string
	Subject string
	HTML    []byte
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ErrNoRecipients is returned when a digest has nobody to go to.
var ErrNoRecipients = errors.New("no digest recipients configured")

// LogMailer logs messages instead of sending them. Used when no SMTP host is set.
type LogMailer struct {
	Logger log.FieldLogger
}

// Send logs the envelope and size of msg.
func (m LogMailer) Send(_ context.Context, msg Message) error {
	logger := m.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	logger.WithFields(log.Fields{
		"to":      strings.Join(msg.To, ","),
		"subject": msg.Subject,
		"bytes":   len(msg.HTML),
	}).Info("Mail not sent (log mailer)")
	return nil
}

// SMTPMailer sends through an SMTP relay. PLAIN auth is used when a user
// is set; TLS is negotiated when the relay offers it.
type SMTPMailer struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	// deliver dials the relay; replaced in tests.
	deliver func(ctx context.Context, msg *gomail.Msg) error
}

// NewSMTPMailer returns a mailer for the relay at host:port.
func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	m := &SMTPMailer{Host: host, Port: port, User: user, Password: password, From: from}
	m.deliver = m.dialAndSend
	return m
}

// Send builds the message and hands it to the relay. Headers are encoded
// by go-mail; malformed addresses are rejected before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	gm, err := m.build(msg)
	if err != nil {
		return err
	}
	if err := m.deliver(ctx, gm); err != nil {
		return fmt.Errorf("failed to send mail via %s:%d: %w", m.Host, m.Port, err)
	}
	return nil
}

func (m *SMTPMailer) build(msg Message) (*gomail.Msg, error) {
	gm := gomail.NewMsg()
	if err := gm.From(m.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.From, err)
	}
	if err := gm.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipients: %w", err)
	}
	gm.Subject(msg.Subject)
	gm.SetBodyString(gomail.TypeTextHTML, string(msg.HTML))
	return gm, nil
}

func (m *SMTPMailer) dialAndSend(ctx context.Context, msg *gomail.Msg) error {
	opts := []gomail.Option{
		gomail.WithPort(m.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if m.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.User),
			gomail.WithPassword(m.Password),
		)
	}
	client, err := gomail.NewClient(m.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}
