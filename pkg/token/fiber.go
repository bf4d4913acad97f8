package token

import (
	"github.com/gofiber/fiber/v3"
)

// CtxKeyClaims is the Fiber locals key under which verified claims are stored.
const CtxKeyClaims = "auth_claims"

// ClaimsFromFiber retrieves verified claims stored by the auth middleware.
func ClaimsFromFiber(c fiber.Ctx) (*Claims, bool) {
	v := c.Locals(CtxKeyClaims)
	claims, ok := v.(*Claims)
	return claims, ok && claims != nil
}
