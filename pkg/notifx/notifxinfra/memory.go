package notifxinfra

import (
	"context"
	"sync"

	"github.com/Abraxas-365/passport/pkg/notifx"
)

// MemoryTemplateStore holds templates in process.
type MemoryTemplateStore struct {
	mu        sync.RWMutex
	templates map[string]notifx.MailTemplate
}

func NewMemoryTemplateStore(templates ...notifx.MailTemplate) *MemoryTemplateStore {
	s := &MemoryTemplateStore{templates: make(map[string]notifx.MailTemplate)}
	for _, t := range templates {
		s.Put(t)
	}
	return s
}

func (s *MemoryTemplateStore) Put(t notifx.MailTemplate) {
	if t.Status == "" {
		t.Status = notifx.TemplateStatusActive
	}
	s.mu.Lock()
	s.templates[t.Keyword] = t
	s.mu.Unlock()
}

func (s *MemoryTemplateStore) GetByKeyword(_ context.Context, keyword string) (*notifx.MailTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[keyword]
	if !ok || t.Status != notifx.TemplateStatusActive {
		return nil, notifx.ErrTemplateNotFound(keyword)
	}
	return &t, nil
}

// DefaultTemplates are the account flow templates used in memory mode.
func DefaultTemplates() []notifx.MailTemplate {
	return []notifx.MailTemplate{
		{
			Keyword: notifx.KeywordForgotPassword,
			Name:    "Forgot password",
			Content: map[string]notifx.TemplateContent{
				"en": {Subject: "Reset your password", Body: "<p>Hi {{NAME}},</p><p>Your reset code is <b>{{CODE_OTP}}</b>.</p>"},
				"vi": {Subject: "Đặt lại mật khẩu", Body: "<p>Xin chào {{NAME}},</p><p>Mã đặt lại mật khẩu của bạn là <b>{{CODE_OTP}}</b>.</p>"},
			},
		},
		{
			Keyword: notifx.KeywordEmailVerify,
			Name:    "Verify e-mail",
			Content: map[string]notifx.TemplateContent{
				"en": {Subject: "Verify your e-mail", Body: "<p>Hi {{NAME}},</p><p>Your verification code for {{EMAIL}} is <b>{{CODE_OTP}}</b>.</p>"},
				"vi": {Subject: "Xác minh e-mail", Body: "<p>Xin chào {{NAME}},</p><p>Mã xác minh cho {{EMAIL}} là <b>{{CODE_OTP}}</b>.</p>"},
			},
		},
	}
}
