package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/collab/pkg/internal/database"
	"git.solsynth.dev/hypernet/collab/pkg/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewRoomName derives "collab-{first 8 chars of creator id}-{8 hex chars}".
// Uniqueness is left to the unique index on meetings.room_name.
func NewRoomName(creatorID string) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	prefix := creatorID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("collab-%s-%s", prefix, hex.EncodeToString(suffix)), nil
}

func NewMeeting(meeting models.Meeting) (models.Meeting, error) {
	if len(meeting.Title) == 0 {
		meeting.Title = models.DefaultMeetingTitle
	}
	if err := database.C.Omit(clause.Associations).Create(&meeting).Error; err != nil {
		return meeting, wrapUpstream(err)
	}
	return meeting, nil
}

func GetMeeting(id string) (models.Meeting, error) {
	var meeting models.Meeting
	if err := database.C.
		Where("id = ?", id).
		Preload("Creator").
		First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return meeting, newError(ErrNotFound, "Meeting not found")
		}
		return meeting, wrapUpstream(err)
	}
	return meeting, nil
}

func ListMeetingsByCreator(creatorID string, take, offset int) ([]models.Meeting, error) {
	var meetings []models.Meeting
	if err := database.C.
		Where(models.Meeting{CreatorID: creatorID}).
		Limit(take).
		Offset(offset).
		Preload("Organization").
		Order("created_at DESC").
		Find(&meetings).Error; err != nil {
		return meetings, wrapUpstream(err)
	}
	return meetings, nil
}

func CountMeetingsByCreator(creatorID string) (int64, error) {
	var count int64
	if err := database.C.
		Model(&models.Meeting{}).
		Where(models.Meeting{CreatorID: creatorID}).
		Count(&count).Error; err != nil {
		return count, wrapUpstream(err)
	}
	return count, nil
}

// DeleteMeeting removes the row for good; it is only used to undo a creation.
func DeleteMeeting(id string) error {
	if err := database.C.Delete(&models.Meeting{}, "id = ?", id).Error; err != nil {
		return wrapUpstream(err)
	}
	return nil
}

type MeetingMembership struct {
	IsHost        bool
	IsParticipant bool
}

func GetMeetingMembership(meeting models.Meeting, accountID string) (MeetingMembership, error) {
	membership := MeetingMembership{IsHost: meeting.CreatorID == accountID}

	var participant models.Participant
	if err := database.C.
		Where(models.Participant{MeetingID: meeting.ID, AccountID: accountID}).
		First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return membership, nil
		}
		return membership, wrapUpstream(err)
	}

	membership.IsParticipant = true
	if participant.Role == models.ParticipantRoleHost {
		membership.IsHost = true
	}
	return membership, nil
}

func GetOrganization(id string) (models.Organization, error) {
	var org models.Organization
	if err := database.C.Where("id = ?", id).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return org, newError(ErrNotFound, "Organization not found")
		}
		return org, wrapUpstream(err)
	}
	return org, nil
}
