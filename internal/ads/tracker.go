package ads

import (
	"github.com/rs/zerolog"

	"contentHub/internal/metrics"
)

// GlobalContent tags impressions rendered outside any post.
const GlobalContent = "global"

type Impression struct {
	AdID      string `json:"adId"`
	Slot      string `json:"slot"`
	ContentID string `json:"contentId"`
}

type Sink interface {
	RecordImpression(imp Impression)
}

// Tracker forwards impressions to an optional sink; a nil sink makes it a no-op.
type Tracker struct {
	sink Sink
	log  zerolog.Logger
}

func NewTracker(sink Sink, log zerolog.Logger) *Tracker {
	return &Tracker{sink: sink, log: log.With().Str("component", "ad_tracker").Logger()}
}

func (t *Tracker) Track(imp Impression) {
	if t == nil || t.sink == nil {
		return
	}
	if imp.ContentID == "" {
		imp.ContentID = GlobalContent
	}

	defer func() {
		if r := recover(); r != nil {
			t.log.Error().Interface("panic", r).Msg("ошибка учета показа рекламы")
		}
	}()

	t.sink.RecordImpression(imp)
}

// MetricsSink counts impressions per slot and logs each one at debug level.
type MetricsSink struct {
	Recorder metrics.Recorder
	Log      zerolog.Logger
}

func (s MetricsSink) RecordImpression(imp Impression) {
	s.Recorder.RecordAdImpression(imp.Slot)
	s.Log.Debug().Str("ad_id", imp.AdID).Str("slot", imp.Slot).Str("post_id", imp.ContentID).Msg("показ рекламы")
}
