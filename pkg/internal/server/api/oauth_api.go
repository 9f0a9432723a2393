package api

import (
	"net/url"
	"strings"

	"git.solsynth.dev/hypernet/collab/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// sanitizeCallback only keeps same-site relative paths.
func sanitizeCallback(callback string) string {
	// Browsers read a backslash like a slash, so "/\host" leaves the site.
	if !strings.HasPrefix(callback, "/") || strings.HasPrefix(callback, "//") || strings.Contains(callback, "\\") {
		return "/"
	}
	if parsed, err := url.Parse(callback); err != nil || parsed.Host != "" {
		return "/"
	}
	return callback
}

func startGoogleSignin(c *fiber.Ctx) error {
	cfg, err := services.GoogleOauthConfig()
	if err != nil {
		return err
	}

	state, err := services.NewOauthState(sanitizeCallback(c.Query("callbackUrl", "/")))
	if err != nil {
		return err
	}

	return c.Redirect(cfg.AuthCodeURL(state.State, oauth2.AccessTypeOnline), fiber.StatusTemporaryRedirect)
}

func finishGoogleSignin(c *fiber.Ctx) error {
	if reason := c.Query("error"); len(reason) > 0 {
		log.Warn().Str("error", reason).Msg("Google sign-in was denied.")
		return c.Redirect("/signin?error=google_denied", fiber.StatusSeeOther)
	}

	cfg, err := services.GoogleOauthConfig()
	if err != nil {
		return err
	}

	state, err := services.ConsumeOauthState(c.Query("state"))
	if err != nil {
		return c.Redirect("/signin?error=invalid_state", fiber.StatusSeeOther)
	}

	profile, raw, err := services.FetchGoogleProfile(c.UserContext(), cfg, c.Query("code"))
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when fetching google profile...")
		return c.Redirect("/signin?error=token_exchange", fiber.StatusSeeOther)
	}

	account, err := services.EnsureOauthAccount(services.OauthProviderGoogle, profile, raw)
	if err != nil {
		return err
	}
	if err := issueSession(c, account); err != nil {
		return err
	}

	return c.Redirect(sanitizeCallback(state.CallbackURL), fiber.StatusSeeOther)
}
