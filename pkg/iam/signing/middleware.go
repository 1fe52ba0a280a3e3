package signing

import (
	"github.com/Abraxas-365/passport/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

const paramsLocalKey = "signed_params"

// Middleware collects query and JSON body parameters, runs the guard, and
// stores the admitted parameters for ParamsFrom.
func Middleware(g *Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params, err := DecodeParams(c.Body())
		if err != nil {
			logx.WithContext(c.UserContext()).WithError(err).Debug("signing: body is not a JSON object")
			return ErrBadRequest().WithDetail("reason", "invalid body")
		}
		for k, v := range c.Queries() {
			if _, exists := params[k]; !exists {
				params[k] = v
			}
		}

		if err := g.Check(c.UserContext(), params); err != nil {
			return err
		}

		c.Locals(paramsLocalKey, params)
		return c.Next()
	}
}

// ParamsFrom returns the parameters admitted by Middleware.
func ParamsFrom(c *fiber.Ctx) Params {
	if p, ok := c.Locals(paramsLocalKey).(Params); ok {
		return p
	}
	return Params{}
}
