package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// Header is the response header carrying the ray id.
	Header = "X-Ray-ID"
	// LocalsKey is the fiber.Ctx locals key holding the ray id.
	LocalsKey = "ray_id"
)

// New returns a middleware that assigns every request a ray id. An id sent by
// the client in Header is reused.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(Header, rid)
		return c.Next()
	}
}

// Get returns the ray id of the current request.
func Get(c *fiber.Ctx) string {
	rid, _ := c.Locals(LocalsKey).(string)
	return rid
}
