package notifx

import (
	"context"
	"fmt"
)

// EmailSender sends a single email.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) error
}

// TemplateStore loads mail templates by keyword.
type TemplateStore interface {
	GetByKeyword(ctx context.Context, keyword string) (*MailTemplate, error)
}

// Client renders stored templates and hands them to a provider.
type Client struct {
	provider  EmailSender
	templates TemplateStore
	from      string
}

// NewClient creates a client. from may be empty to use the provider default.
func NewClient(provider EmailSender, templates TemplateStore, fromName, fromAddress string) *Client {
	from := fromAddress
	if fromName != "" && fromAddress != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromAddress)
	}
	return &Client{provider: provider, templates: templates, from: from}
}

// SendEmail validates msg and sends it through the provider.
func (c *Client) SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) error {
	if len(msg.To) == 0 {
		return ErrInvalidMessage("no recipients")
	}
	if msg.Subject == "" {
		return ErrInvalidMessage("empty subject")
	}
	if msg.From == "" {
		msg.From = c.from
	}
	return c.provider.SendEmail(ctx, msg, opts...)
}

// SendTemplated looks up mail.Keyword, renders the language version and sends it.
func (c *Client) SendTemplated(ctx context.Context, mail TemplatedMail) error {
	if mail.To == "" {
		return ErrInvalidMessage("no recipients")
	}

	tmpl, err := c.templates.GetByKeyword(ctx, mail.Keyword)
	if err != nil {
		return err
	}
	content, ok := tmpl.ContentFor(mail.Language)
	if !ok {
		return ErrTemplateNotFound(mail.Keyword).WithDetail("language", mail.Language)
	}

	values := make(map[string]string, len(mail.Values)+1)
	values[KeyEmail] = mail.To
	for k, v := range mail.Values {
		values[k] = v
	}

	msg := EmailMessage{
		To:       []string{mail.To},
		Subject:  Render(content.Subject, values),
		HTMLBody: Render(content.Body, values),
	}
	return c.SendEmail(ctx, msg, WithTags(map[string]string{"keyword": mail.Keyword}))
}
