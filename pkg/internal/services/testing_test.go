package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	localCache "github.com/publicador/server/pkg/internal/cache"
	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/models"
)

// setupTest points the global database handle at a fresh in-memory store
// named after the test, so cases do not bleed into each other.
func setupTest(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigration(db))
	database.C = db

	if localCache.S == nil {
		require.NoError(t, localCache.NewStore())
	}
	Authority = LocalAuthority{}
}

func seedProject(t *testing.T, accountID uint, role models.ProjectRole) models.Project {
	t.Helper()

	project := models.Project{Name: fmt.Sprintf("project of %d", accountID)}
	require.NoError(t, database.C.Create(&project).Error)
	require.NoError(t, database.C.Create(&models.ProjectMember{
		ProjectID: project.ID,
		AccountID: accountID,
		Role:      role,
	}).Error)
	return project
}

func seedChannel(t *testing.T, projectID uint, platform string) models.Channel {
	t.Helper()

	channel := models.Channel{
		Name:      fmt.Sprintf("%s channel", platform),
		Platform:  platform,
		IsActive:  true,
		ProjectID: projectID,
	}
	require.NoError(t, database.C.Create(&channel).Error)
	return channel
}

func seedMedia(t *testing.T, projectID uint, mediaType models.MediaType) models.Media {
	t.Helper()

	media := models.Media{
		Type:       mediaType,
		StorageRef: fmt.Sprintf("blob/%s/%d", mediaType, time.Now().UnixNano()),
		MimeType:   "application/octet-stream",
		SizeBytes:  1024,
		ProjectID:  projectID,
	}
	require.NoError(t, database.C.Create(&media).Error)
	return media
}

func seedPublication(t *testing.T, creatorID uint, projectID uint, body *string, language string) models.Publication {
	t.Helper()

	item := models.Publication{
		Type:      models.PublicationTypePost,
		Body:      body,
		Language:  language,
		Status:    models.PublicationStatusDraft,
		ProjectID: projectID,
		CreatorID: creatorID,
	}
	require.NoError(t, database.C.Create(&item).Error)

	loaded, err := GetPublication(database.C, item.ID)
	require.NoError(t, err)
	return loaded
}

func attachMedia(t *testing.T, item *models.Publication, media ...models.Media) {
	t.Helper()

	for _, m := range media {
		require.NoError(t, AppendMedia(item, m.ID, false))
	}
}

func reloadPublication(t *testing.T, id uint) models.Publication {
	t.Helper()

	item, err := GetPublication(database.C, id)
	require.NoError(t, err)
	return item
}
