package platforms

import (
	"strings"
	"testing"

	"github.com/publicador/server/pkg/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	longText := strings.Repeat("a", 2000)

	tests := []struct {
		name        string
		content     *string
		media       []models.MediaType
		platform    string
		contentType string
		ok          bool
		errPart     string
	}{
		{
			name:        "empty content and no media",
			platform:    PlatformTelegram,
			contentType: models.PublicationTypePost,
			errPart:     "content or media",
		},
		{
			name:        "text only on telegram",
			content:     lo.ToPtr("hello"),
			platform:    PlatformTelegram,
			contentType: models.PublicationTypePost,
			ok:          true,
		},
		{
			name:        "media only on telegram",
			media:       []models.MediaType{models.MediaTypeImage},
			platform:    PlatformTelegram,
			contentType: models.PublicationTypePost,
			ok:          true,
		},
		{
			name:        "album over telegram limit",
			media:       lo.Times(11, func(int) models.MediaType { return models.MediaTypeImage }),
			platform:    PlatformTelegram,
			contentType: models.PublicationTypePost,
			errPart:     "at most 10 media",
		},
		{
			name:        "two media on pinterest",
			media:       []models.MediaType{models.MediaTypeImage, models.MediaTypeImage},
			platform:    PlatformPinterest,
			contentType: models.PublicationTypePost,
			errPart:     "at most 1 media",
		},
		{
			name:        "caption over limit only when media attached",
			content:     lo.ToPtr(longText),
			media:       []models.MediaType{models.MediaTypeImage},
			platform:    PlatformTelegram,
			contentType: models.PublicationTypePost,
			errPart:     "exceeds 1024 characters",
		},
		{
			name:        "same text without media is fine",
			content:     lo.ToPtr(longText),
			platform:    PlatformTelegram,
			contentType: models.PublicationTypePost,
			ok:          true,
		},
		{
			name:        "text only on instagram",
			content:     lo.ToPtr("hello"),
			platform:    PlatformInstagram,
			contentType: models.PublicationTypePost,
			errPart:     "requires at least one media",
		},
		{
			name:        "audio on twitter",
			content:     lo.ToPtr("hello"),
			media:       []models.MediaType{models.MediaTypeAudio},
			platform:    PlatformTwitter,
			contentType: models.PublicationTypePost,
			errPart:     "does not accept audio",
		},
		{
			name:        "document mixed into a telegram album",
			media:       []models.MediaType{models.MediaTypeDocument, models.MediaTypeImage},
			platform:    PlatformTelegram,
			contentType: models.PublicationTypePost,
			errPart:     "cannot be mixed",
		},
		{
			name:        "document album alone is fine",
			media:       []models.MediaType{models.MediaTypeDocument, models.MediaTypeDocument},
			platform:    PlatformTelegram,
			contentType: models.PublicationTypePost,
			ok:          true,
		},
		{
			name:        "video publication without a video",
			content:     lo.ToPtr("watch this"),
			media:       []models.MediaType{models.MediaTypeImage},
			platform:    PlatformVkontakte,
			contentType: models.PublicationTypeVideo,
			errPart:     "must attach a video",
		},
		{
			name:        "anything goes on site",
			content:     lo.ToPtr(strings.Repeat("a", 100000)),
			media:       lo.Times(40, func(int) models.MediaType { return models.MediaTypeDocument }),
			platform:    PlatformSite,
			contentType: models.PublicationTypeArticle,
			ok:          true,
		},
		{
			name:        "unknown platform",
			content:     lo.ToPtr("hello"),
			platform:    "myspace",
			contentType: models.PublicationTypePost,
			errPart:     "unsupported platform",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.content, tt.media, tt.platform, tt.contentType)
			assert.Equal(t, tt.ok, result.OK)
			if tt.ok {
				assert.Empty(t, result.Errors)
			} else if assert.NotEmpty(t, result.Errors) {
				matched := lo.SomeBy(result.Errors, func(msg string) bool {
					return strings.Contains(msg, tt.errPart)
				})
				assert.True(t, matched, "expected an error containing %q, got %v", tt.errPart, result.Errors)
			}
		})
	}
}

func TestValidateCollectsAllReasons(t *testing.T) {
	result := Validate(
		lo.ToPtr(strings.Repeat("a", 300)),
		[]models.MediaType{
			models.MediaTypeAudio,
			models.MediaTypeImage, models.MediaTypeImage, models.MediaTypeImage, models.MediaTypeImage,
		},
		PlatformTwitter,
		models.PublicationTypePost,
	)

	assert.False(t, result.OK)
	assert.Len(t, result.Errors, 3)
}
