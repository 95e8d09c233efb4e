// Package notification delivers verification messages. The registration
// workflow only depends on the register.Mailer contract; this package
// provides the SMTP implementation.
package notification

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"time"
)

// EmailConfig holds SMTP delivery configuration.
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// EmailService sends verification mail over SMTP. Every delivery honors the
// caller's context deadline; a blocked mail relay surfaces as a delivery
// failure instead of stalling the registration path.
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service.
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// SendVerification delivers the account-activation message containing the
// verification token.
func (s *EmailService) SendVerification(ctx context.Context, to, account, token string, expiresIn time.Duration) error {
	subject := fmt.Sprintf("Activate your account %s", account)
	body := fmt.Sprintf(
		"Hello,\r\n\r\n"+
			"The account %s has been registered to this address.\r\n\r\n"+
			"To activate it, use the following verification key:\r\n\r\n"+
			"    %s\r\n\r\n"+
			"If you do not complete activation within %s the account will expire.\r\n"+
			"If you did not request this registration, you can ignore this message.\r\n",
		account, token, expiresIn)
	return s.sendMail(ctx, to, subject, body)
}

func (s *EmailService) sendMail(ctx context.Context, to, subject, body string) error {
	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if s.config.User != "" {
		auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := client.Mail(s.config.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
