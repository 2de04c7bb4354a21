package middleware

import (
	"log"
	"strings"

	"github.com/ManuelReschke/NotesKart/internal/pkg/cache"
	"github.com/gofiber/fiber/v2"
)

const adminTokenKeyPrefix = "admin_token:"

// RequireAdmin authenticates requests carrying an admin bearer token
// issued by the login endpoint. Tokens live in the cache with a TTL, so
// logout is simply expiry.
func RequireAdmin(c *fiber.Ctx) error {
	token := extractTokenFromHeader(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	ok, err := cache.Exists(adminTokenKeyPrefix + token)
	if err != nil {
		log.Printf("admin token lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Authentication unavailable"})
	}
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	return c.Next()
}

func extractTokenFromHeader(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return auth
}
