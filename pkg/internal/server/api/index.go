package api

import (
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		auth := api.Group("/auth").Name("Auth API")
		{
			auth.Post("/signup", signup)
			auth.Post("/signin", signin)
			auth.Post("/signout", signout)
			auth.Get("/google", startGoogleSignin)
			auth.Get("/google/callback", finishGoogleSignin)
		}

		api.Get("/users/me", getUserinfo)

		meetings := api.Group("/meetings").Name("Meetings API")
		{
			meetings.Get("/me", listOwnedMeeting)
			meetings.Get("/:meetingId", getMeeting)
			meetings.Get("/:meetingId/participants", listMeetingParticipants)
			meetings.Post("/", createMeeting)
			meetings.Post("/:meetingId/token", exchangeMeetingToken)
		}
	}
}

func MapPages(app *fiber.App) {
	app.Get("/", renderIndex)
	app.Get("/signin", renderSignin)
	app.Get("/signup", renderSignup)
	app.Get("/dashboard", renderDashboard)
	app.Get("/meeting/:meetingId", renderMeeting)
}
