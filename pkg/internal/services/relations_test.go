package services

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/models"
)

func TestLinkPublicationsRejectsIncompatiblePairs(t *testing.T) {
	setupTest(t)

	user := models.Account{ID: 1}
	project := seedProject(t, user.ID, models.ProjectRoleManager)
	other := seedProject(t, user.ID, models.ProjectRoleManager)
	english := seedPublication(t, user.ID, project.ID, lo.ToPtr("hello"), "en")
	foreign := seedPublication(t, user.ID, other.ID, lo.ToPtr("bonjour"), "fr")

	article := models.Publication{
		Type:      models.PublicationTypeArticle,
		Body:      lo.ToPtr("long form"),
		Language:  "fr",
		Status:    models.PublicationStatusDraft,
		ProjectID: project.ID,
		CreatorID: user.ID,
	}
	require.NoError(t, database.C.Create(&article).Error)

	var incompatible IncompatibleLinkError

	_, err := LinkPublications(english, english, models.RelationKindLocalization)
	assert.ErrorAs(t, err, &incompatible, "self links are meaningless")

	_, err = LinkPublications(foreign, english, models.RelationKindLocalization)
	assert.ErrorAs(t, err, &incompatible, "links cannot cross projects")

	_, err = LinkPublications(article, english, models.RelationKindLocalization)
	assert.ErrorAs(t, err, &incompatible, "links cannot cross content types")
}

func TestLinkPublicationsLanguageUniqueness(t *testing.T) {
	setupTest(t)

	user := models.Account{ID: 1}
	project := seedProject(t, user.ID, models.ProjectRoleManager)
	origin := seedPublication(t, user.ID, project.ID, lo.ToPtr("hello"), "en")
	french := seedPublication(t, user.ID, project.ID, lo.ToPtr("bonjour"), "fr")
	duplicate := seedPublication(t, user.ID, project.ID, lo.ToPtr("hi again"), "en")

	group, err := LinkPublications(french, origin, models.RelationKindLocalization)
	require.NoError(t, err)
	require.NotNil(t, group.OriginID)
	assert.Equal(t, origin.ID, *group.OriginID)
	require.Len(t, group.Items, 2)
	assert.Equal(t, origin.ID, group.Items[0].PublicationID, "the target seeds the group at position zero")
	assert.Equal(t, 0, group.Items[0].Position)
	assert.Equal(t, french.ID, group.Items[1].PublicationID)
	assert.Equal(t, 1, group.Items[1].Position)

	var duplicated DuplicateLanguageError
	_, err = LinkPublications(duplicate, origin, models.RelationKindLocalization)
	require.ErrorAs(t, err, &duplicated)

	// The rejected subject must not have slipped into the group.
	group, err = GetRelationGroup(database.C, group.ID)
	require.NoError(t, err)
	assert.Len(t, group.Items, 2)
}

func TestLinkPublicationsJoinsExistingGroup(t *testing.T) {
	setupTest(t)

	user := models.Account{ID: 1}
	project := seedProject(t, user.ID, models.ProjectRoleManager)
	origin := seedPublication(t, user.ID, project.ID, lo.ToPtr("hello"), "en")
	french := seedPublication(t, user.ID, project.ID, lo.ToPtr("bonjour"), "fr")
	german := seedPublication(t, user.ID, project.ID, lo.ToPtr("hallo"), "de")

	first, err := LinkPublications(french, origin, models.RelationKindLocalization)
	require.NoError(t, err)

	// Linking against any existing member lands in the same group.
	second, err := LinkPublications(german, french, models.RelationKindLocalization)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Items, 3)

	// Linking twice is a no-op.
	third, err := LinkPublications(german, origin, models.RelationKindLocalization)
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)
	assert.Len(t, third.Items, 3)
}

func TestLanguageEditRespectsGroupUniqueness(t *testing.T) {
	setupTest(t)

	user := models.Account{ID: 1}
	project := seedProject(t, user.ID, models.ProjectRoleManager)
	origin := seedPublication(t, user.ID, project.ID, lo.ToPtr("hello"), "en")
	french := seedPublication(t, user.ID, project.ID, lo.ToPtr("bonjour"), "fr")

	_, err := LinkPublications(french, origin, models.RelationKindLocalization)
	require.NoError(t, err)

	french = reloadPublication(t, french.ID)
	french.Language = "en"

	var duplicated DuplicateLanguageError
	require.ErrorAs(t, EditPublication(&french), &duplicated)
	assert.Equal(t, "fr", reloadPublication(t, french.ID).Language, "a rejected edit must not persist")
}

func TestUnlinkLeavesEmptyGroupsToTheJanitor(t *testing.T) {
	setupTest(t)

	user := models.Account{ID: 1}
	project := seedProject(t, user.ID, models.ProjectRoleManager)
	origin := seedPublication(t, user.ID, project.ID, lo.ToPtr("hello"), "en")
	french := seedPublication(t, user.ID, project.ID, lo.ToPtr("bonjour"), "fr")

	group, err := LinkPublications(french, origin, models.RelationKindLocalization)
	require.NoError(t, err)

	require.NoError(t, UnlinkPublication(french, models.RelationKindLocalization))
	require.NoError(t, UnlinkPublication(origin, models.RelationKindLocalization))

	var groups int64
	require.NoError(t, database.C.Model(&models.RelationGroup{}).Where("id = ?", group.ID).Count(&groups).Error)
	assert.EqualValues(t, 1, groups, "unlink itself never deletes the group")

	DoAutoDatabaseCleanup()

	require.NoError(t, database.C.Model(&models.RelationGroup{}).Where("id = ?", group.ID).Count(&groups).Error)
	assert.Zero(t, groups)
}
