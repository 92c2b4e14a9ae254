package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendEndpoint = "/v3/mail/send"
	resetSubject = "Reset your lexi-cards password"
)

type SendGridConfig struct {
	APIKey   string
	Host     string
	From     string
	FromName string
}

// SendGrid delivers mail through the SendGrid v3 API.
type SendGrid struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendGrid(cfg SendGridConfig) *SendGrid {
	client := sendgrid.NewSendClient(cfg.APIKey)
	if cfg.Host != "" {
		req := sendgrid.GetRequest(cfg.APIKey, sendEndpoint, cfg.Host)
		req.Method = "POST"
		client = &sendgrid.Client{Request: req}
	}

	return &SendGrid{
		client: client,
		from:   sgmail.NewEmail(cfg.FromName, cfg.From),
	}
}

func (s *SendGrid) SendResetLink(ctx context.Context, to, link string) error {
	plain, html := resetBody(link)
	msg := sgmail.NewSingleEmail(s.from, resetSubject, sgmail.NewEmail("", to), plain, html)

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send mail: sendgrid responded %d: %s", resp.StatusCode, resp.Body)
	}

	return nil
}

func resetBody(link string) (plain, html string) {
	plain = fmt.Sprintf("Follow this link to choose a new password: %s\n\nIf you did not ask for a reset, ignore this message.", link)
	html = fmt.Sprintf(`<p>Follow <a href="%s">this link</a> to choose a new password.</p><p>If you did not ask for a reset, ignore this message.</p>`, link)
	return plain, html
}
