package notify

import (
	"context"
	"sync"

	"github.com/segyhp/reminder-engine/internal/config"
	"github.com/segyhp/reminder-engine/internal/domain"
	apperrors "github.com/segyhp/reminder-engine/pkg/errors"

	"gopkg.in/gomail.v2"
)

// SMTPSender sends HTML email through an SMTP relay. One session is dialed
// lazily and reused until Close or a failed send.
type SMTPSender struct {
	dial func() (gomail.SendCloser, error)
	from string

	mu      sync.Mutex
	session gomail.SendCloser
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	return &SMTPSender{
		dial: dialer.Dial,
		from: cfg.From,
	}
}

// Send delivers one message. A send on a reused session that fails is
// retried once on a fresh session, since relays drop idle connections.
// gomail has no context support, so ctx is only checked up front.
func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	s.mu.Lock()
	defer s.mu.Unlock()

	reused := s.session != nil
	err := s.send(m)
	if err != nil && reused {
		err = s.send(m)
	}
	if err != nil {
		return apperrors.WrapDeliveryError(domain.ChannelEmail, err)
	}
	return nil
}

// send dials if needed and drops the session on failure. Caller holds mu.
func (s *SMTPSender) send(m *gomail.Message) error {
	if s.session == nil {
		session, err := s.dial()
		if err != nil {
			return err
		}
		s.session = session
	}

	if err := gomail.Send(s.session, m); err != nil {
		s.closeSession()
		return err
	}
	return nil
}

// Close ends the current session. The next Send dials again.
func (s *SMTPSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeSession()
}

func (s *SMTPSender) closeSession() error {
	if s.session == nil {
		return nil
	}
	err := s.session.Close()
	s.session = nil
	return err
}
