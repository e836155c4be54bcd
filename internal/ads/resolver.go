// Package ads picks the ad for a placement slot and tracks its impressions.
package ads

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"contentHub/internal/models"
)

// Source is the read side of the ad store.
type Source interface {
	GetPlacementAd(ctx context.Context, postID string, position models.AdPosition) (*models.Ad, error)
	GetActiveByPosition(ctx context.Context, position models.AdPosition) (*models.Ad, error)
}

type Resolver struct {
	source Source
	log    zerolog.Logger
}

func NewResolver(source Source, log zerolog.Logger) *Resolver {
	return &Resolver{source: source, log: log.With().Str("component", "ads").Logger()}
}

// Resolve returns the ad for slot, or nil when none should render. A
// post-specific placement wins over the slot's global ad. Lookup failures
// are logged and resolve to nil.
func (r *Resolver) Resolve(ctx context.Context, slot models.AdPosition, contentID string) *models.Ad {
	if contentID != "" {
		ad, err := r.source.GetPlacementAd(ctx, contentID, slot)
		switch {
		case err == nil && ad != nil:
			return ad
		case err != nil && !errors.Is(err, models.ErrNotFound):
			r.log.Error().Err(err).Str("slot", string(slot)).Str("post_id", contentID).Msg("ошибка поиска размещения рекламы")
		}
	}

	ad, err := r.source.GetActiveByPosition(ctx, slot)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			r.log.Error().Err(err).Str("slot", string(slot)).Msg("ошибка поиска рекламы")
		}
		return nil
	}
	return ad
}
