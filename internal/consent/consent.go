// Package consent decides whether a video may play without asking the
// viewer first, and records the viewer's answer.
package consent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"contentHub/internal/browserstore"
	"contentHub/internal/content"
	"contentHub/internal/metrics"
	"contentHub/internal/models"
)

type Category string

const (
	Functional Category = "functional"
	Analytics  Category = "analytics"
	Marketing  Category = "marketing"
)

// Categories lists every category in display order; functional is mandatory.
var Categories = []Category{Functional, Analytics, Marketing}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: consent category %q", models.ErrInvalidEnum, s)
}

// Window is how long an accepted record stays valid.
const Window = 24 * time.Hour

const (
	DeclineMessage = "Для просмотра видео необходимо принять условия"
	defaultText    = "Это видео использует cookie и технологии отслеживания. Примите условия, чтобы продолжить."
)

// Record is what the browser keeps per video. Timestamp is epoch milliseconds.
type Record struct {
	Accepted  bool       `json:"accepted"`
	Timestamp int64      `json:"timestamp"`
	Types     []Category `json:"types"`
}

// IsValid reports whether the record still grants playback; the window end is exclusive.
func (r Record) IsValid(now time.Time) bool {
	return r.Accepted && now.UnixMilli()-r.Timestamp < Window.Milliseconds()
}

func Key(contentID string) string {
	return "video_consent_" + contentID
}

type Option struct {
	Category  Category `json:"category"`
	Mandatory bool     `json:"mandatory"`
	Checked   bool     `json:"checked"`
}

// Prompt is shown instead of the player.
type Prompt struct {
	ContentID string   `json:"contentId"`
	Text      string   `json:"text"`
	Options   []Option `json:"options"`
}

type Decision struct {
	Allowed bool    `json:"allowed"`
	Record  *Record `json:"record,omitempty"`
	Prompt  *Prompt `json:"prompt,omitempty"`
}

type AcceptRequest struct {
	ContentID  string
	SessionID  string
	Categories []Category
	UserAgent  string
	IPAddress  string
}

// AcceptResult carries the stored record; AuditError reports a failed audit
// write without revoking the acceptance.
type AcceptResult struct {
	Record     Record
	AuditError error
}

type Auditor interface {
	InsertConsentLog(ctx context.Context, entry *models.ConsentLog) error
}

type Gate struct {
	auditor      Auditor
	renderer     *content.Renderer
	auditTimeout time.Duration
	now          func() time.Time
	metrics      metrics.Recorder
	log          zerolog.Logger
}

type GateOption func(*Gate)

func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

func WithAuditTimeout(d time.Duration) GateOption {
	return func(g *Gate) { g.auditTimeout = d }
}

func WithMetrics(m metrics.Recorder) GateOption {
	return func(g *Gate) { g.metrics = m }
}

func NewGate(auditor Auditor, renderer *content.Renderer, log zerolog.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		auditor:      auditor,
		renderer:     renderer,
		auditTimeout: 3 * time.Second,
		now:          time.Now,
		metrics:      metrics.Nop{},
		log:          log.With().Str("component", "consent").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check never fails: an unreadable record is treated as missing.
func (g *Gate) Check(store browserstore.Store, post *models.Post) Decision {
	if !post.RequiresConsent {
		return Decision{Allowed: true}
	}

	var record Record
	err := store.Get(Key(post.ID), &record)
	if err == nil && record.IsValid(g.now()) {
		return Decision{Allowed: true, Record: &record}
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		g.log.Warn().Err(err).Str("post_id", post.ID).Msg("не удалось прочитать согласие")
	}

	return Decision{Prompt: g.prompt(post)}
}

func (g *Gate) prompt(post *models.Post) *Prompt {
	text := defaultText
	if post.ConsentText != "" {
		text = g.renderer.PlainText(post.ConsentText)
	}

	options := make([]Option, 0, len(Categories))
	for _, c := range Categories {
		options = append(options, Option{
			Category:  c,
			Mandatory: c == Functional,
			Checked:   c == Functional,
		})
	}

	return &Prompt{ContentID: post.ID, Text: text, Options: options}
}

// Accept stores the record before auditing, so a slow or failing audit
// never holds back playback.
func (g *Gate) Accept(ctx context.Context, store browserstore.Store, req AcceptRequest) (AcceptResult, error) {
	types, err := normalize(req.Categories)
	if err != nil {
		return AcceptResult{}, err
	}

	record := Record{
		Accepted:  true,
		Timestamp: g.now().UnixMilli(),
		Types:     types,
	}

	if err := store.Set(Key(req.ContentID), record); err != nil {
		return AcceptResult{}, fmt.Errorf("ошибка сохранения согласия: %w", err)
	}

	g.metrics.RecordConsentDecision("accepted")

	auditErr := g.audit(ctx, req, types)
	if auditErr != nil {
		g.log.Warn().Err(auditErr).Str("post_id", req.ContentID).Msg("согласие принято, но не записано в журнал")
	}

	return AcceptResult{Record: record, AuditError: auditErr}, nil
}

// Decline leaves the store untouched.
func (g *Gate) Decline(contentID string) string {
	g.metrics.RecordConsentDecision("declined")
	g.log.Debug().Str("post_id", contentID).Msg("согласие отклонено")
	return DeclineMessage
}

func (g *Gate) audit(ctx context.Context, req AcceptRequest, types []Category) error {
	if g.auditor == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.auditTimeout)
	defer cancel()

	granted := make([]string, len(types))
	for i, c := range types {
		granted[i] = string(c)
	}

	return g.auditor.InsertConsentLog(ctx, &models.ConsentLog{
		PostID:       req.ContentID,
		UserSession:  req.SessionID,
		ConsentGiven: true,
		ConsentTypes: granted,
		UserAgent:    req.UserAgent,
		IPAddress:    req.IPAddress,
	})
}

// normalize puts functional first, keeps the rest in display order and drops duplicates.
func normalize(selected []Category) ([]Category, error) {
	chosen := map[Category]bool{Functional: true}
	for _, c := range selected {
		if _, err := ParseCategory(string(c)); err != nil {
			return nil, err
		}
		chosen[c] = true
	}

	types := make([]Category, 0, len(chosen))
	for _, c := range Categories {
		if chosen[c] {
			types = append(types, c)
		}
	}
	return types, nil
}
