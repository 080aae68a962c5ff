package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// SMTPSender dispatches mail over plain SMTP. Used in development and as a
// fallback when no transactional provider is configured; the generated
// message id plays the role of the provider message id in the send log.
type SMTPSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Timeout  time.Duration
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		Timeout:  15 * time.Second,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody, textBody string) (string, error) {
	messageID := uuid.New().String()

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-ID", fmt.Sprintf("<%s@ligue-leads>", messageID))
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	// gomail has no context support, so the call runs in a goroutine and
	// the timeout is enforced here. A timed-out send counts as a dispatch
	// failure and is retried on the next scheduled run.
	errCh := make(chan error, 1)
	go func() {
		errCh <- d.DialAndSend(m)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return "", &DispatchError{Provider: "smtp", Err: err}
		}
		return messageID, nil
	case <-time.After(s.Timeout):
		return "", &DispatchError{Provider: "smtp", Err: fmt.Errorf("send timed out after %s", s.Timeout)}
	case <-ctx.Done():
		return "", &DispatchError{Provider: "smtp", Err: ctx.Err()}
	}
}
