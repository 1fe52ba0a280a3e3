package adminapi

import (
	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/Abraxas-365/passport/pkg/iam/admin"
	"github.com/Abraxas-365/passport/pkg/iam/admin/adminsrv"
	"github.com/Abraxas-365/passport/pkg/iam/auth"
	"github.com/Abraxas-365/passport/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	service *adminsrv.AdminService
}

func NewHandlers(service *adminsrv.AdminService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts /api/admin/*.
func (h *Handlers) RegisterRoutes(app fiber.Router, gate *auth.Gate) {
	group := app.Group("/api/admin")
	group.Post("/login", h.Login)
	group.Post("/create", gate.Protect(auth.RequireRoles(kernel.RoleAdmin, kernel.RoleMarketing)), h.Create)
}

func (h *Handlers) Create(c *fiber.Ctx) error {
	var req admin.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return account.ErrInvalidInput("body", "malformed request body")
	}
	a, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(a.ToDTO())
}

func (h *Handlers) Login(c *fiber.Ctx) error {
	var req account.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return account.ErrInvalidInput("body", "malformed request body")
	}
	res, err := h.service.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(res)
}
