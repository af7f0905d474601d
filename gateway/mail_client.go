package gateway

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"
)

type Email struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// MailClient delivers a single email with an optional attachment.
type MailClient interface {
	Send(ctx context.Context, email Email) error
}

type SMTPConfig struct {
	Addr     string
	Username string
	Password string
	Host     string
	From     string
	FromName string
}

type SMTPClient struct {
	config SMTPConfig
}

func NewSMTPClient(config SMTPConfig) *SMTPClient {
	return &SMTPClient{config: config}
}

func (c *SMTPClient) Send(_ context.Context, email Email) error {
	var auth smtp.Auth
	if c.config.Username != "" {
		auth = smtp.PlainAuth("", c.config.Username, c.config.Password, c.config.Host)
	}

	mail := mailyak.New(c.config.Addr, auth)
	mail.From(c.config.From)
	mail.FromName(c.config.FromName)
	mail.To(email.To)
	mail.Subject(email.Subject)
	mail.Plain().Set(email.Body)

	if len(email.Attachment) > 0 {
		mail.Attach(email.AttachmentName, bytes.NewReader(email.Attachment))
	}

	if err := mail.Send(); err != nil {
		return fmt.Errorf("could not send email to %s: %w", email.To, err)
	}
	return nil
}
