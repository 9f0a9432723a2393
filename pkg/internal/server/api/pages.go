package api

import (
	"errors"

	"git.solsynth.dev/hypernet/collab/pkg/internal/server/exts"
	"git.solsynth.dev/hypernet/collab/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func renderIndex(c *fiber.Ctx) error {
	return c.Render("views/index", fiber.Map{
		"user": exts.GetCaller(c),
	})
}

func renderSignin(c *fiber.Ctx) error {
	return c.Render("views/signin", fiber.Map{
		"callbackUrl": sanitizeCallback(c.Query("callbackUrl", "/")),
		"error":       c.Query("error"),
	})
}

func renderSignup(c *fiber.Ctx) error {
	return c.Render("views/signup", fiber.Map{})
}

func renderDashboard(c *fiber.Ctx) error {
	caller := exts.GetCaller(c)
	if caller == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	meetings, err := services.ListMeetingsByCreator(caller.ID, 50, 0)
	if err != nil {
		return err
	}

	return c.Render("views/dashboard", fiber.Map{
		"user":     caller,
		"meetings": meetings,
	})
}

func renderMeeting(c *fiber.Ctx) error {
	caller := exts.GetCaller(c)
	id := c.Params("meetingId")

	result, err := services.GetMeetingToken(caller, id)
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).Render("views/not-found", fiber.Map{})
	} else if err != nil {
		return err
	}

	return c.Render("views/meeting", fiber.Map{
		"meetingId": id,
		"user":      caller,
		"userName":  caller.DisplayName(),
		"meeting":   result,
	})
}
