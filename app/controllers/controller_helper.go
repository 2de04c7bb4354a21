package controllers

import (
	"strings"

	"github.com/ManuelReschke/NotesKart/internal/pkg/database"
	"github.com/ManuelReschke/NotesKart/internal/pkg/mail"
	"github.com/ManuelReschke/NotesKart/internal/pkg/payment"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// paymentService is a variable so handler tests can substitute a service
// backed by a fake repository.
var paymentService = func() *payment.Service {
	return payment.NewServiceFromDB(database.GetDB(), mail.NewOrderNotifierFromEnv())
}

func firstHeaderValue(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		v := strings.TrimSpace(c.Get(k))
		if v != "" {
			return v
		}
	}
	return ""
}
