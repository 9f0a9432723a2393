package exts

import (
	"strings"
	"time"

	"git.solsynth.dev/hypernet/collab/pkg/internal/models"
	"git.solsynth.dev/hypernet/collab/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

const SessionCookieName = "collab_session"

// AuthMiddleware resolves the caller once per request. Requests without a
// valid session continue anonymously.
func AuthMiddleware(c *fiber.Ctx) error {
	tk := c.Cookies(SessionCookieName)
	if len(tk) == 0 {
		if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
			tk = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if len(tk) == 0 {
		return c.Next()
	}

	if caller, err := services.DecodeSessionToken(tk); err == nil {
		c.Locals("user", caller)
	}
	return c.Next()
}

func IsAuthenticated(c *fiber.Ctx) bool {
	_, ok := c.Locals("user").(models.Caller)
	return ok
}

// GetCaller returns nil for anonymous requests.
func GetCaller(c *fiber.Ctx) *models.Caller {
	if caller, ok := c.Locals("user").(models.Caller); ok {
		return &caller
	}
	return nil
}

func EnsureAuthenticated(c *fiber.Ctx) error {
	if !IsAuthenticated(c) {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return nil
}

func SetSessionCookie(c *fiber.Ctx, tk string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    tk,
		Path:     "/",
		Domain:   viper.GetString("security.cookie_domain"),
		Expires:  time.Now().Add(services.SessionDuration()),
		Secure:   viper.GetBool("security.cookie_secure"),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   viper.GetString("security.cookie_domain"),
		Expires:  time.Unix(0, 0),
		Secure:   viper.GetBool("security.cookie_secure"),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
