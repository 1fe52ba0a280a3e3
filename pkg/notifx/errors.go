package notifx

import (
	"net/http"

	"github.com/Abraxas-365/passport/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("NOTIFX")

var (
	CodeSendFailed       = ErrRegistry.Register("SEND_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to send email")
	CodeInvalidMessage   = ErrRegistry.Register("INVALID_MESSAGE", errx.TypeValidation, http.StatusBadRequest, "Invalid email message")
	CodeTemplateNotFound = ErrRegistry.Register("TEMPLATE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Email template not found")
	CodeDispatchFailed   = ErrRegistry.Register("DISPATCH_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to dispatch email")
)

func ErrInvalidMessage(reason string) *errx.Error {
	return ErrRegistry.New(CodeInvalidMessage).WithDetail("reason", reason)
}

func ErrTemplateNotFound(keyword string) *errx.Error {
	return ErrRegistry.New(CodeTemplateNotFound).WithDetail("keyword", keyword)
}

func ErrSendFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeSendFailed, cause)
}
