package platforms

import (
	"fmt"

	"github.com/publicador/server/pkg/internal/models"
	"github.com/samber/lo"
)

const (
	PlatformTelegram  = "telegram"
	PlatformVkontakte = "vkontakte"
	PlatformTwitter   = "twitter"
	PlatformInstagram = "instagram"
	PlatformPinterest = "pinterest"
	PlatformSite      = "site"
)

// Rule describes what one platform accepts. Zero limits mean unlimited.
type Rule struct {
	MaxMedia              int
	MaxContentLen         int
	MaxContentLenAttached int
	MediaRequired         bool
	AllowedMedia          []models.MediaType
	// ExclusiveMedia types cannot share an album with any other type.
	ExclusiveMedia []models.MediaType
}

var rules = map[string]Rule{
	PlatformTelegram: {
		MaxMedia:              10,
		MaxContentLen:         4096,
		MaxContentLenAttached: 1024,
		ExclusiveMedia:        []models.MediaType{models.MediaTypeDocument, models.MediaTypeAudio},
	},
	PlatformVkontakte: {
		MaxMedia:      10,
		MaxContentLen: 16000,
	},
	PlatformTwitter: {
		MaxMedia:      4,
		MaxContentLen: 280,
		AllowedMedia:  []models.MediaType{models.MediaTypeImage, models.MediaTypeVideo},
	},
	PlatformInstagram: {
		MaxMedia:              10,
		MaxContentLenAttached: 2200,
		MediaRequired:         true,
		AllowedMedia:          []models.MediaType{models.MediaTypeImage, models.MediaTypeVideo},
	},
	PlatformPinterest: {
		MaxMedia:              1,
		MaxContentLenAttached: 800,
		MediaRequired:         true,
		AllowedMedia:          []models.MediaType{models.MediaTypeImage, models.MediaTypeVideo},
	},
	PlatformSite: {},
}

// List returns the identifiers of every platform with a rule set.
func List() []string {
	return lo.Keys(rules)
}

// IsSupported reports whether a platform identifier has a rule set.
func IsSupported(platform string) bool {
	_, ok := rules[platform]
	return ok
}

type Result struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors"`
}

// Validate is the publishability gate for one (content, media set) pair
// against one platform. It is pure and does no I/O; callers re-run it
// whenever content, media or the target platform change.
func Validate(content *string, mediaTypes []models.MediaType, platform string, contentType string) Result {
	var errs []string

	rule, ok := rules[platform]
	if !ok {
		return Result{Errors: []string{fmt.Sprintf("unsupported platform %s", platform)}}
	}

	var contentLen int
	if content != nil {
		contentLen = len([]rune(*content))
	}

	if contentLen == 0 && len(mediaTypes) == 0 {
		errs = append(errs, "content or media is required")
	}
	if rule.MediaRequired && len(mediaTypes) == 0 {
		errs = append(errs, fmt.Sprintf("%s requires at least one media", platform))
	}
	if rule.MaxMedia > 0 && len(mediaTypes) > rule.MaxMedia {
		errs = append(errs, fmt.Sprintf("%s allows at most %d media, got %d", platform, rule.MaxMedia, len(mediaTypes)))
	}

	if len(rule.AllowedMedia) > 0 {
		for _, mt := range lo.Uniq(mediaTypes) {
			if !lo.Contains(rule.AllowedMedia, mt) {
				errs = append(errs, fmt.Sprintf("%s does not accept %s media", platform, mt))
			}
		}
	}
	if len(mediaTypes) > 1 {
		for _, mt := range lo.Intersect(rule.ExclusiveMedia, lo.Uniq(mediaTypes)) {
			if lo.SomeBy(mediaTypes, func(other models.MediaType) bool { return other != mt }) {
				errs = append(errs, fmt.Sprintf("%s media cannot be mixed with other media on %s", mt, platform))
			}
		}
	}

	if contentType == models.PublicationTypeVideo && !lo.Contains(mediaTypes, models.MediaTypeVideo) {
		errs = append(errs, "video publications must attach a video")
	}

	limit := rule.MaxContentLen
	if len(mediaTypes) > 0 && rule.MaxContentLenAttached > 0 {
		limit = rule.MaxContentLenAttached
	}
	if limit > 0 && contentLen > limit {
		errs = append(errs, fmt.Sprintf("content exceeds %d characters allowed on %s", limit, platform))
	}

	return Result{OK: len(errs) == 0, Errors: errs}
}
