package services

import (
	"context"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"

	localCache "github.com/publicador/server/pkg/internal/cache"
	"github.com/publicador/server/pkg/internal/database"
	"github.com/publicador/server/pkg/internal/models"
	"gorm.io/gorm"
)

func GetSignature(id uint, projectID uint) (models.Signature, error) {
	var signature models.Signature
	if err := database.C.
		Where("id = ? AND project_id = ?", id, projectID).
		Preload("Variants").
		First(&signature).Error; err != nil {
		return signature, err
	}
	return signature, nil
}

func ListSignatures(projectID uint) ([]models.Signature, error) {
	var signatures []models.Signature
	err := database.C.Where("project_id = ?", projectID).Preload("Variants").Find(&signatures).Error
	return signatures, err
}

func NewSignature(item models.Signature) (models.Signature, error) {
	err := database.C.Create(&item).Error
	return item, err
}

func UpdateSignature(item models.Signature) (models.Signature, error) {
	err := database.C.Session(&gorm.Session{FullSaveAssociations: true}).Save(&item).Error
	if err == nil {
		FlushResolvedSignatures(item.ID)
	}
	return item, err
}

func DeleteSignature(item models.Signature) error {
	if err := database.C.Select("Variants").Delete(&item).Error; err != nil {
		return err
	}
	FlushResolvedSignatures(item.ID)
	return nil
}

// PickSignatureVariant chooses the most specific variant for a channel and
// language: channel+language beats channel, channel beats language, language
// beats the bare fallback.
func PickSignatureVariant(variants []models.SignatureVariant, channelID uint, language string) *models.SignatureVariant {
	var best *models.SignatureVariant
	bestScore := -1

	for idx, variant := range variants {
		score := 0
		if variant.ChannelID != nil {
			if *variant.ChannelID != channelID {
				continue
			}
			score += 2
		}
		if variant.Language != nil {
			if len(language) == 0 || *variant.Language != language {
				continue
			}
			score++
		}
		if score > bestScore {
			best = &variants[idx]
			bestScore = score
		}
	}

	return best
}

// ResolveSignature returns the sign-off text for one (channel, language)
// pair, or nil when the signature has no matching variant. Lookups are
// cached until the signature is rewritten.
func ResolveSignature(signatureID uint, projectID uint, channelID uint, language string) (*string, error) {
	marshal := marshaler.New(cache.New[any](localCache.S))
	ctx := context.Background()

	cacheKey := fmt.Sprintf("signature-resolve#%d:%d:%s", signatureID, channelID, language)
	if cached, err := marshal.Get(ctx, cacheKey, new(string)); err == nil {
		resolved := cached.(*string)
		if len(*resolved) == 0 {
			return nil, nil
		}
		return resolved, nil
	}

	signature, err := GetSignature(signatureID, projectID)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve signature: %v", err)
	}

	var resolved string
	if variant := PickSignatureVariant(signature.Variants, channelID, language); variant != nil {
		resolved = variant.Content
	}

	_ = marshal.Set(
		ctx,
		cacheKey,
		resolved,
		store.WithExpiration(10*time.Minute),
		store.WithTags([]string{"signature-resolve", fmt.Sprintf("signature#%d", signatureID)}),
	)

	if len(resolved) == 0 {
		return nil, nil
	}
	return &resolved, nil
}

func FlushResolvedSignatures(signatureID uint) {
	marshal := marshaler.New(cache.New[any](localCache.S))
	_ = marshal.Invalidate(
		context.Background(),
		store.WithInvalidateTags([]string{fmt.Sprintf("signature#%d", signatureID)}),
	)
}
