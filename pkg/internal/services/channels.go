package services

import (
	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/models"
	"github.com/publicador/server/pkg/internal/platforms"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func GetChannel(tx *gorm.DB, id uint, projectID uint) (models.Channel, error) {
	var channel models.Channel
	if err := tx.Where("id = ? AND project_id = ?", id, projectID).First(&channel).Error; err != nil {
		return channel, err
	}
	return channel, nil
}

func ListChannels(projectID uint) ([]models.Channel, error) {
	var channels []models.Channel
	if err := database.C.Where("project_id = ?", projectID).Find(&channels).Error; err != nil {
		return channels, err
	}
	return channels, nil
}

// ListChannelsByIDs is the channel directory lookup used by the fan-out
// engine: every requested id must resolve inside the given project or the
// whole call is rejected.
func ListChannelsByIDs(tx *gorm.DB, ids []uint, projectID uint) ([]models.Channel, error) {
	ids = lo.Uniq(ids)

	var channels []models.Channel
	if err := tx.Where("id IN ? AND project_id = ?", ids, projectID).Find(&channels).Error; err != nil {
		return channels, err
	}
	if len(channels) != len(ids) {
		missing, _ := lo.Difference(ids, lo.Map(channels, func(item models.Channel, index int) uint {
			return item.ID
		}))
		return nil, NewBadRequest("channels %v do not exist or belong to another project", missing)
	}

	return channels, nil
}

func NewChannel(item models.Channel) (models.Channel, error) {
	if !platforms.IsSupported(item.Platform) {
		return item, NewBadRequest("unsupported platform %s", item.Platform)
	}

	if err := database.C.Create(&item).Error; err != nil {
		return item, err
	}
	return item, nil
}

func UpdateChannel(item models.Channel) (models.Channel, error) {
	err := database.C.Save(&item).Error
	return item, err
}
