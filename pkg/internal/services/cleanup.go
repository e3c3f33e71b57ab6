package services

import (
	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

// DoAutoDatabaseCleanup sweeps rows nothing points at anymore: relation
// groups emptied by unlinking and media links whose publication is gone.
// Post state is never touched here; that belongs to the dispatch worker.
func DoAutoDatabaseCleanup() {
	log.Debug().Msg("Now cleaning up database...")

	var count int64

	if result := database.C.
		Where("id NOT IN (?)", database.C.Model(&models.RelationItem{}).Select("group_id")).
		Delete(&models.RelationGroup{}); result.Error != nil {
		log.Error().Err(result.Error).Msg("An error occurred when cleaning up relation groups...")
	} else {
		count += result.RowsAffected
	}

	if result := database.C.
		Where("publication_id NOT IN (?)", database.C.Model(&models.Publication{}).Select("id")).
		Delete(&models.PublicationMedia{}); result.Error != nil {
		log.Error().Err(result.Error).Msg("An error occurred when cleaning up media links...")
	} else {
		count += result.RowsAffected
	}

	log.Debug().Int64("affected", count).Msg("Database cleaned up.")
}
