package notifxconsole

import (
	"context"
	"strings"
	"sync"

	"github.com/Abraxas-365/passport/pkg/logx"
	"github.com/Abraxas-365/passport/pkg/notifx"
)

// ConsoleProvider logs emails instead of sending them. It keeps the messages
// it has seen so tests and local runs can inspect OTP mails.
type ConsoleProvider struct {
	mu   sync.Mutex
	sent []notifx.EmailMessage
}

func NewConsoleProvider() *ConsoleProvider {
	return &ConsoleProvider{}
}

func (p *ConsoleProvider) SendEmail(ctx context.Context, msg notifx.EmailMessage, opts ...notifx.Option) error {
	so := notifx.ApplyOptions(opts)

	p.mu.Lock()
	p.sent = append(p.sent, msg)
	p.mu.Unlock()

	fields := logx.Fields{
		"from":    msg.From,
		"to":      strings.Join(msg.To, ", "),
		"subject": msg.Subject,
	}
	for k, v := range so.Tags {
		fields["tag_"+k] = v
	}
	logx.WithContext(ctx).WithFields(fields).Info("notifx/console: email sent (dev mode)")

	if msg.HTMLBody != "" {
		logx.Debugf("notifx/console: html body:\n%s", msg.HTMLBody)
	}
	return nil
}

// Sent returns a copy of every message sent so far.
func (p *ConsoleProvider) Sent() []notifx.EmailMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notifx.EmailMessage, len(p.sent))
	copy(out, p.sent)
	return out
}
