package services

import (
	"time"

	"git.solsynth.dev/hypernet/collab/pkg/internal/database"
	"git.solsynth.dev/hypernet/collab/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

func DoAutoDatabaseCleanup() {
	deadline := time.Now()
	log.Debug().Time("deadline", deadline).Msg("Now cleaning up expired sign-in states...")

	tx := database.C.Where("expired_at < ?", deadline).Delete(&models.OauthState{})
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("An error occurred when running database cleanup...")
		return
	}

	log.Debug().Int64("affected", tx.RowsAffected).Msg("Clean up expired sign-in states accomplished.")
}
