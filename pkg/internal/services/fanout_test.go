package services

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/models"
	"github.com/publicador/server/pkg/internal/platforms"
)

func TestCreatePostsRequiresChannels(t *testing.T) {
	setupTest(t)

	user := models.Account{ID: 1}
	project := seedProject(t, user.ID, models.ProjectRoleManager)
	item := seedPublication(t, user.ID, project.ID, lo.ToPtr("hello"), "en")

	_, err := CreatePosts(item, nil, FanOutOptions{})
	var badRequest BadRequestError
	assert.ErrorAs(t, err, &badRequest)
}

func TestCreatePostsScopeIsAllOrNothing(t *testing.T) {
	setupTest(t)

	user := models.Account{ID: 1}
	project := seedProject(t, user.ID, models.ProjectRoleManager)
	other := seedProject(t, 2, models.ProjectRoleOwner)
	mine := seedChannel(t, project.ID, platforms.PlatformTelegram)
	foreign := seedChannel(t, other.ID, platforms.PlatformTelegram)
	item := seedPublication(t, user.ID, project.ID, lo.ToPtr("hello"), "en")

	_, err := CreatePosts(item, []uint{mine.ID, foreign.ID}, FanOutOptions{})
	var badRequest BadRequestError
	require.ErrorAs(t, err, &badRequest)

	var count int64
	require.NoError(t, database.C.Model(&models.Post{}).Where("publication_id = ?", item.ID).Count(&count).Error)
	assert.Zero(t, count, "a rejected fan-out must not create any post")
}

func TestCreatePostsScheduleDefaulting(t *testing.T) {
	setupTest(t)

	user := models.Account{ID: 1}
	project := seedProject(t, user.ID, models.ProjectRoleManager)
	channel := seedChannel(t, project.ID, platforms.PlatformTelegram)
	item := seedPublication(t, user.ID, project.ID, lo.ToPtr("hello"), "en")

	inherited := time.Now().Add(2 * time.Hour)
	item.ScheduledAt = &inherited

	posts, err := CreatePosts(item, []uint{channel.ID}, FanOutOptions{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.NotNil(t, posts[0].ScheduledAt)
	assert.Equal(t, inherited.Unix(), posts[0].ScheduledAt.Unix(), "posts inherit the publication schedule")
	assert.Equal(t, models.PostStatusPending, posts[0].Status)
	assert.Equal(t, platforms.PlatformTelegram, posts[0].Platform)

	explicit := time.Now().Add(4 * time.Hour)
	posts, err = CreatePosts(item, []uint{channel.ID}, FanOutOptions{ScheduledAt: &explicit})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.NotNil(t, posts[0].ScheduledAt)
	assert.Equal(t, explicit.Unix(), posts[0].ScheduledAt.Unix(), "an explicit schedule wins over the inherited one")
}

func TestCreatePostsRefreshesInsteadOfDuplicating(t *testing.T) {
	setupTest(t)

	user := models.Account{ID: 1}
	project := seedProject(t, user.ID, models.ProjectRoleManager)
	channel := seedChannel(t, project.ID, platforms.PlatformTelegram)
	item := seedPublication(t, user.ID, project.ID, lo.ToPtr("hello"), "en")

	first, err := CreatePosts(item, []uint{channel.ID}, FanOutOptions{})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := CreatePosts(item, []uint{channel.ID}, FanOutOptions{})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)

	var count int64
	require.NoError(t, database.C.Model(&models.Post{}).Where("publication_id = ?", item.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Once the dispatch worker owns the post, fan-out keeps its hands off.
	require.NoError(t, database.C.Model(&models.Post{}).Where("id = ?", first[0].ID).
		Update("status", models.PostStatusPublished).Error)

	later := time.Now().Add(time.Hour)
	third, err := CreatePosts(item, []uint{channel.ID}, FanOutOptions{ScheduledAt: &later})
	require.NoError(t, err)
	require.Len(t, third, 1)

	var post models.Post
	require.NoError(t, database.C.First(&post, first[0].ID).Error)
	assert.Equal(t, models.PostStatusPublished, post.Status)
	assert.Nil(t, post.ScheduledAt)
}

func TestPickSignatureVariant(t *testing.T) {
	channelID := uint(7)
	variants := []models.SignatureVariant{
		{Content: "fallback"},
		{Content: "english", Language: lo.ToPtr("en")},
		{Content: "channel", ChannelID: lo.ToPtr(channelID)},
		{Content: "channel english", ChannelID: lo.ToPtr(channelID), Language: lo.ToPtr("en")},
	}

	for _, scenario := range []struct {
		name      string
		channelID uint
		language  string
		expected  string
	}{
		{"channel and language beat everything", channelID, "en", "channel english"},
		{"channel beats language", channelID, "fr", "channel"},
		{"language beats fallback", 99, "en", "english"},
		{"fallback catches the rest", 99, "fr", "fallback"},
		{"fallback without a language", 99, "", "fallback"},
	} {
		t.Run(scenario.name, func(t *testing.T) {
			variant := PickSignatureVariant(variants, scenario.channelID, scenario.language)
			require.NotNil(t, variant)
			assert.Equal(t, scenario.expected, variant.Content)
		})
	}

	assert.Nil(t, PickSignatureVariant(nil, channelID, "en"))
}

func TestCreatePostsSignatureResolution(t *testing.T) {
	setupTest(t)

	user := models.Account{ID: 1}
	project := seedProject(t, user.ID, models.ProjectRoleManager)
	first := seedChannel(t, project.ID, platforms.PlatformTelegram)
	second := seedChannel(t, project.ID, platforms.PlatformVkontakte)
	item := seedPublication(t, user.ID, project.ID, lo.ToPtr("hello"), "en")

	signature, err := NewSignature(models.Signature{
		Name:      "Newsroom",
		ProjectID: project.ID,
		Variants: []models.SignatureVariant{
			{Content: "-- the newsroom"},
			{Content: "-- the telegram desk", ChannelID: &first.ID},
		},
	})
	require.NoError(t, err)
	FlushResolvedSignatures(signature.ID)

	posts, err := CreatePosts(item, []uint{first.ID, second.ID}, FanOutOptions{
		SignatureID: &signature.ID,
		Overrides:   map[uint]string{second.ID: "personal sign-off"},
	})
	require.NoError(t, err)
	require.Len(t, posts, 2)

	byChannel := map[uint]models.Post{}
	for _, post := range posts {
		byChannel[post.ChannelID] = post
	}

	require.NotNil(t, byChannel[first.ID].Signature)
	assert.Equal(t, "-- the telegram desk", *byChannel[first.ID].Signature)
	require.NotNil(t, byChannel[second.ID].Signature)
	assert.Equal(t, "personal sign-off", *byChannel[second.ID].Signature, "a per-channel override wins over the named signature")
}
