package languageapi

import (
	"github.com/Abraxas-365/passport/pkg/iam/language"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	service *language.Service
}

func NewHandlers(service *language.Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts GET /languages on router.
func (h *Handlers) RegisterRoutes(router fiber.Router) {
	router.Get("/languages", h.List)
}

func (h *Handlers) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}
