package database

import (
	"git.solsynth.dev/hypernet/collab/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.OauthAccount{},
	&models.OauthState{},
	&models.Organization{},
	&models.OrganizationMember{},
	&models.Meeting{},
	&models.Participant{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}
