package mail

import (
	"context"
	"log/slog"
)

// Mailer sends password reset links.
type Mailer interface {
	SendResetLink(ctx context.Context, to, link string) error
}

// Log writes reset links to the log instead of mailing them. Used when no
// SendGrid key is configured.
type Log struct {
	l *slog.Logger
}

func NewLog(l *slog.Logger) *Log {
	if l == nil {
		l = slog.Default()
	}

	return &Log{l: l}
}

func (m *Log) SendResetLink(ctx context.Context, to, link string) error {
	m.l.InfoContext(ctx, "password reset link", "to", to, "link", link)
	return nil
}
