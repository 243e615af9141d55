package email

import (
	"gopkg.in/gomail.v2"
)

// Sender delivers transactional mail to patients.
type Sender interface {
	Send(to, subject, body string) error
}

type Config struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

type noopSender struct{}

func (noopSender) Send(string, string, string) error { return nil }

// NewSender returns an SMTP-backed sender, or a no-op one when mail is
// disabled in configuration.
func NewSender(cfg Config) Sender {
	if !cfg.Enabled {
		return noopSender{}
	}
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return s.dialer.DialAndSend(m)
}
