package services

import (
	"fmt"

	"git.solsynth.dev/hypernet/collab/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

type CreateMeetingInput struct {
	Title          string  `json:"title" validate:"max=256"`
	OrganizationID *string `json:"organization_id"`
}

type CreateMeetingResult struct {
	MeetingID   string `json:"meeting_id"`
	RoomName    string `json:"room_name"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type MeetingTokenResult struct {
	Token         string `json:"token"`
	RoomName      string `json:"room_name"`
	MeetingTitle  string `json:"meeting_title"`
	ServerURL     string `json:"server_url"`
	IsHost        bool   `json:"is_host"`
	IsParticipant bool   `json:"is_participant"`
}

// CreateMeeting persists a meeting for the caller and signs a grant for its room.
// The meeting row is written before the grant exists, so any failure after the
// insert deletes the row again. That delete is not transactional with the insert.
func CreateMeeting(caller *models.Caller, in CreateMeetingInput) (CreateMeetingResult, error) {
	if caller == nil {
		return CreateMeetingResult{}, newError(ErrUnauthenticated, "You must be authenticated to create a meeting")
	}

	if in.OrganizationID != nil && len(*in.OrganizationID) > 0 {
		if _, err := GetOrganization(*in.OrganizationID); err != nil {
			return CreateMeetingResult{}, err
		}
	} else {
		in.OrganizationID = nil
	}

	roomName, err := NewRoomName(caller.ID)
	if err != nil {
		return CreateMeetingResult{}, wrapUpstream(err)
	}

	meeting, err := NewMeeting(models.Meeting{
		Title:          in.Title,
		RoomName:       roomName,
		CreatorID:      caller.ID,
		OrganizationID: in.OrganizationID,
	})
	if err != nil {
		return CreateMeetingResult{}, err
	}

	cred, err := LoadMediaCredentials()
	if err != nil {
		compensateMeeting(meeting)
		return CreateMeetingResult{}, err
	}

	token, err := EncodeMeetingToken(GrantRequest{
		Identity: caller.ID,
		Name:     caller.DisplayName(),
		Room:     meeting.RoomName,
	}, cred)
	if err != nil {
		compensateMeeting(meeting)
		return CreateMeetingResult{}, err
	}

	log.Info().
		Str("meeting", meeting.ID).
		Str("room", meeting.RoomName).
		Str("creator", caller.ID).
		Msg("A new meeting has been created.")

	return CreateMeetingResult{
		MeetingID:   meeting.ID,
		RoomName:    meeting.RoomName,
		Token:       token,
		RedirectURL: fmt.Sprintf("/meeting/%s", meeting.ID),
	}, nil
}

// compensateMeeting undoes a creation; when it fails the row stays orphaned.
func compensateMeeting(meeting models.Meeting) {
	if err := DeleteMeeting(meeting.ID); err != nil {
		log.Error().Err(err).
			Str("meeting", meeting.ID).
			Str("room", meeting.RoomName).
			Msg("Unable to delete meeting after a failed creation, the record is orphaned.")
	}
}

// GetMeetingToken signs a grant for any authenticated caller. Membership is
// reported but does not restrict access.
func GetMeetingToken(caller *models.Caller, meetingID string) (MeetingTokenResult, error) {
	if caller == nil {
		return MeetingTokenResult{}, newError(ErrUnauthenticated, "You must be authenticated to join a meeting")
	}

	meeting, err := GetMeeting(meetingID)
	if err != nil {
		return MeetingTokenResult{}, err
	}

	cred, err := LoadMediaCredentials()
	if err != nil {
		return MeetingTokenResult{}, err
	}

	membership, err := GetMeetingMembership(meeting, caller.ID)
	if err != nil {
		log.Warn().Err(err).Str("meeting", meeting.ID).Msg("Unable to resolve meeting membership.")
	}

	token, err := EncodeMeetingToken(GrantRequest{
		Identity: caller.ID,
		Name:     caller.DisplayName(),
		Room:     meeting.RoomName,
	}, cred)
	if err != nil {
		return MeetingTokenResult{}, err
	}

	return MeetingTokenResult{
		Token:         token,
		RoomName:      meeting.RoomName,
		MeetingTitle:  meeting.Title,
		ServerURL:     cred.Endpoint,
		IsHost:        membership.IsHost,
		IsParticipant: membership.IsParticipant,
	}, nil
}
