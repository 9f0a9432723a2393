package models

import "time"

const DefaultMeetingTitle = "Meeting Room"

type Meeting struct {
	BaseModel

	Title     string     `json:"title"`
	RoomName  string     `json:"room_name" gorm:"uniqueIndex;size:64;<-:create"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	CreatorID      string        `json:"creator_id" gorm:"index;not null"`
	Creator        Account       `json:"creator"`
	OrganizationID *string       `json:"organization_id"`
	Organization   *Organization `json:"organization"`
	Participants   []Participant `json:"participants"`
}

type ParticipantRole = string

const (
	ParticipantRoleHost        = ParticipantRole("HOST")
	ParticipantRoleParticipant = ParticipantRole("PARTICIPANT")
)

type Participant struct {
	BaseModel

	Role      ParticipantRole `json:"role"`
	MeetingID string          `json:"meeting_id" gorm:"uniqueIndex:idx_meeting_participant"`
	AccountID string          `json:"account_id" gorm:"uniqueIndex:idx_meeting_participant"`
	Account   Account         `json:"account"`
}
