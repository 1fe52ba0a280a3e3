package accountapi

import (
	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/Abraxas-365/passport/pkg/iam/account/accountsrv"
	"github.com/Abraxas-365/passport/pkg/iam/auth"
	"github.com/Abraxas-365/passport/pkg/iam/signing"
	"github.com/Abraxas-365/passport/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	service *accountsrv.AccountService
}

func NewHandlers(service *accountsrv.AccountService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts /api/user/* and the signed /internal/accounts/* lookups.
func (h *Handlers) RegisterRoutes(app fiber.Router, gate *auth.Gate, guard *signing.Guard) {
	user := app.Group("/api/user")

	user.Post("/register", h.Register)
	user.Post("/login", h.Login)
	user.Post("/login-google", h.LoginGoogle)
	user.Post("/login-google-assertion", h.LoginGoogleAssertion)
	user.Post("/login-facebook", h.LoginFacebook)
	user.Post("/refresh-token", h.RefreshToken)
	user.Post("/forgot-password", h.ForgotPassword)
	user.Post("/reset-password", h.ResetPassword)
	user.Post("/check-otp", h.CheckOTP)

	authed := gate.Protect(auth.Authenticated)
	user.Get("/profile", authed, h.Profile)
	user.Put("/profile", authed, h.UpdateProfile)
	user.Post("/avatar", authed, h.UploadAvatar)
	user.Put("/change-password", authed, h.ChangePassword)
	user.Post("/send-mail-otp", authed, h.SendMailOTP)
	user.Post("/verify-email", authed, h.VerifyEmail)
	user.Put("/language", authed, h.UpdateLanguage)
	user.Get("/list", gate.Protect(auth.RequireRoles(kernel.RoleAdmin, kernel.RoleMarketing)), h.List)

	internal := app.Group("/internal/accounts", signing.Middleware(guard))
	internal.Post("/by-id", h.InternalByID)
	internal.Post("/by-email", h.InternalByEmail)
}

// ============================================================================
// Public
// ============================================================================

func (h *Handlers) Register(c *fiber.Ctx) error {
	var req account.RegisterRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	res, err := h.service.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *Handlers) Login(c *fiber.Ctx) error {
	var req account.LoginRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	res, err := h.service.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handlers) LoginGoogle(c *fiber.Ctx) error {
	var req account.SocialLoginRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	res, err := h.service.LoginGoogle(c.UserContext(), req.AccessToken)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handlers) LoginGoogleAssertion(c *fiber.Ctx) error {
	var req account.SocialLoginRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	res, err := h.service.LoginGoogleAssertion(c.UserContext(), req.AccessToken)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handlers) LoginFacebook(c *fiber.Ctx) error {
	var req account.SocialLoginRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	res, err := h.service.LoginFacebook(c.UserContext(), req.AccessToken)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handlers) RefreshToken(c *fiber.Ctx) error {
	var req account.RefreshTokenRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	pair, err := h.service.RefreshToken(c.UserContext(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(pair)
}

func (h *Handlers) ForgotPassword(c *fiber.Ctx) error {
	var req account.EmailRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	acc, err := h.service.ForgotPassword(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(acc.ToDTO())
}

func (h *Handlers) ResetPassword(c *fiber.Ctx) error {
	var req account.ResetPasswordRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	if err := h.service.ResetPassword(c.UserContext(), req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handlers) CheckOTP(c *fiber.Ctx) error {
	var req account.CheckOTPRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	ok, err := h.service.CheckOTP(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"valid": ok})
}

// ============================================================================
// Authenticated
// ============================================================================

func (h *Handlers) Profile(c *fiber.Ctx) error {
	acc, err := h.service.Profile(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(acc.ToDTO())
}

func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	var req account.UpdateProfileRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	acc, err := h.service.UpdateProfile(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(acc.ToDTO())
}

// UploadAvatar expects a multipart form with the image in field "file".
func (h *Handlers) UploadAvatar(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return account.ErrInvalidInput("file", "multipart field is required")
	}
	f, err := header.Open()
	if err != nil {
		return account.ErrInvalidInput("file", "cannot be read")
	}
	defer f.Close()

	acc, err := h.service.UploadAvatar(c.UserContext(), header.Filename, f)
	if err != nil {
		return err
	}
	return c.JSON(acc.ToDTO())
}

func (h *Handlers) ChangePassword(c *fiber.Ctx) error {
	var req account.ChangePasswordRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	if err := h.service.ChangePassword(c.UserContext(), req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handlers) SendMailOTP(c *fiber.Ctx) error {
	var req account.EmailRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	if err := h.service.SendMailOTP(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handlers) VerifyEmail(c *fiber.Ctx) error {
	var req account.VerifyEmailRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	acc, err := h.service.VerifyEmail(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(acc.ToDTO())
}

func (h *Handlers) UpdateLanguage(c *fiber.Ctx) error {
	var req account.UpdateLanguageRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	acc, err := h.service.UpdateLanguage(c.UserContext(), req.Locale)
	if err != nil {
		return err
	}
	return c.JSON(acc.ToDTO())
}

func (h *Handlers) List(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	})
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// ============================================================================
// Signed service-to-service lookups
// ============================================================================

func (h *Handlers) InternalByID(c *fiber.Ctx) error {
	id := signing.ParamsFrom(c).String("id")
	if id == "" {
		return account.ErrInvalidInput("id", "is required")
	}
	acc, err := h.service.GetOne(c.UserContext(), kernel.NewAccountID(id))
	if err != nil {
		return err
	}
	return c.JSON(acc.ToDTO())
}

func (h *Handlers) InternalByEmail(c *fiber.Ctx) error {
	email := signing.ParamsFrom(c).String("email")
	if email == "" {
		return account.ErrInvalidInput("email", "is required")
	}
	acc, err := h.service.GetByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(acc.ToDTO())
}

func parse(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return account.ErrInvalidInput("body", "malformed request body")
	}
	return nil
}
