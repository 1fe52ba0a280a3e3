package notifx

// EmailMessage is a rendered email ready for a provider.
type EmailMessage struct {
	From     string   `json:"from"`
	To       []string `json:"to"`
	ReplyTo  string   `json:"reply_to,omitempty"`
	Subject  string   `json:"subject"`
	TextBody string   `json:"text_body,omitempty"`
	HTMLBody string   `json:"html_body,omitempty"`
}

// Placeholder keys understood by templates, written as {{KEY}}.
const (
	KeyCodeOTP = "CODE_OTP"
	KeyName    = "NAME"
	KeyEmail   = "EMAIL"
	KeyAmount  = "AMOUNT"
)

// Template keywords used by the account flows.
const (
	KeywordForgotPassword = "forgot_password"
	KeywordEmailVerify    = "email_verify"
)

// TemplatedMail names a stored template and the values to fill it with.
type TemplatedMail struct {
	To       string            `json:"to"`
	Language string            `json:"language"`
	Keyword  string            `json:"keyword"`
	Values   map[string]string `json:"values"`
}

// TemplateContent is one language version of a template.
type TemplateContent struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// MailTemplate is a stored template with one content per language.
type MailTemplate struct {
	Keyword string                     `json:"keyword"`
	Name    string                     `json:"name"`
	Content map[string]TemplateContent `json:"content"`
	Status  string                     `json:"status"`
}

const (
	TemplateStatusActive = "active"
	FallbackLanguage     = "en"
)

// ContentFor returns the content for language, falling back to English.
func (t *MailTemplate) ContentFor(language string) (TemplateContent, bool) {
	if c, ok := t.Content[language]; ok {
		return c, true
	}
	c, ok := t.Content[FallbackLanguage]
	return c, ok
}
