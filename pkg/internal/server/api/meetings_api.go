package api

import (
	"git.solsynth.dev/hypernet/collab/pkg/internal/server/exts"
	"git.solsynth.dev/hypernet/collab/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func createMeeting(c *fiber.Ctx) error {
	var data services.CreateMeetingInput
	if len(c.Body()) > 0 {
		if err := exts.BindAndValidate(c, &data); err != nil {
			return err
		}
	}

	result, err := services.CreateMeeting(exts.GetCaller(c), data)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func exchangeMeetingToken(c *fiber.Ctx) error {
	result, err := services.GetMeetingToken(exts.GetCaller(c), c.Params("meetingId"))
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func getMeeting(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	meeting, err := services.GetMeeting(c.Params("meetingId"))
	if err != nil {
		return err
	}

	return c.JSON(meeting)
}

func listOwnedMeeting(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	caller := exts.GetCaller(c)
	take := min(max(c.QueryInt("take", 20), 1), 100)
	offset := max(c.QueryInt("offset", 0), 0)

	count, err := services.CountMeetingsByCreator(caller.ID)
	if err != nil {
		return err
	}
	meetings, err := services.ListMeetingsByCreator(caller.ID, take, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  meetings,
	})
}

func listMeetingParticipants(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	meeting, err := services.GetMeeting(c.Params("meetingId"))
	if err != nil {
		return err
	}

	participants, err := services.ListRoomParticipants(c.UserContext(), meeting.RoomName)
	if err != nil {
		return err
	}

	return c.JSON(participants)
}
