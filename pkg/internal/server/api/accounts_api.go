package api

import (
	"git.solsynth.dev/hypernet/collab/pkg/internal/models"
	"git.solsynth.dev/hypernet/collab/pkg/internal/server/exts"
	"git.solsynth.dev/hypernet/collab/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func signup(c *fiber.Ctx) error {
	var data services.SignupInput
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	account, err := services.Signup(data)
	if err != nil {
		return err
	}

	// The account exists from here on; failing to sign in only changes the message.
	if err := issueSession(c, account); err != nil {
		log.Warn().Err(err).Str("account", account.ID).Msg("Sign in after signup failed.")
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Account created successfully. Please sign in.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created and signed in successfully",
		"user":    account,
	})
}

func signin(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.Authenticate(data.Email, data.Password)
	if err != nil {
		return err
	}
	if err := issueSession(c, account); err != nil {
		return err
	}

	return c.JSON(account)
}

func signout(c *fiber.Ctx) error {
	exts.ClearSessionCookie(c)
	return c.SendStatus(fiber.StatusOK)
}

func getUserinfo(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	caller := exts.GetCaller(c)

	account, err := services.GetAccount(caller.ID)
	if err != nil {
		return err
	}

	return c.JSON(account)
}

func issueSession(c *fiber.Ctx, account models.Account) error {
	tk, err := services.EncodeSessionToken(account)
	if err != nil {
		return err
	}
	exts.SetSessionCookie(c, tk)
	c.Locals("user", account.ToCaller())
	return nil
}
