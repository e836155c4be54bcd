package models

import (
	"database/sql/driver"
	"fmt"
)

type AdPosition string

const (
	AdHomepageTop        AdPosition = "homepage_top"
	AdHomepageMiddle     AdPosition = "homepage_middle"
	AdHomepageBottom     AdPosition = "homepage_bottom"
	AdPostBefore         AdPosition = "post_before"
	AdPostInside         AdPosition = "post_inside"
	AdPostAfter          AdPosition = "post_after"
	AdVideoBanner300x250 AdPosition = "video_banner_300x250"
	AdVideoBanner728x90  AdPosition = "video_banner_728x90"
	AdVideoPopunder      AdPosition = "video_popunder"
	AdVideoSmartlink     AdPosition = "video_smartlink"
	AdVideoSocialBar     AdPosition = "video_social_bar"
	AdVideoNativeBanner  AdPosition = "video_native_banner"
)

var adPositions = []AdPosition{
	AdHomepageTop, AdHomepageMiddle, AdHomepageBottom,
	AdPostBefore, AdPostInside, AdPostAfter,
	AdVideoBanner300x250, AdVideoBanner728x90, AdVideoPopunder,
	AdVideoSmartlink, AdVideoSocialBar, AdVideoNativeBanner,
}

type PostType string

const (
	PostArticle PostType = "article"
	PostVideo   PostType = "video"
	PostTool    PostType = "tool"
)

var postTypes = []PostType{PostArticle, PostVideo, PostTool}

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
	StatusArchived  PostStatus = "archived"
)

var postStatuses = []PostStatus{StatusDraft, StatusPublished, StatusArchived}

type ToolCategory string

const (
	ToolProductivity ToolCategory = "productivity"
	ToolDesign       ToolCategory = "design"
	ToolDevelopment  ToolCategory = "development"
	ToolMarketing    ToolCategory = "marketing"
	ToolAnalytics    ToolCategory = "analytics"
	ToolOther        ToolCategory = "other"
)

var toolCategories = []ToolCategory{
	ToolProductivity, ToolDesign, ToolDevelopment,
	ToolMarketing, ToolAnalytics, ToolOther,
}

type VideoEventType string

const (
	VideoPlay  VideoEventType = "play"
	VideoPause VideoEventType = "pause"
	VideoEnded VideoEventType = "ended"
)

var videoEventTypes = []VideoEventType{VideoPlay, VideoPause, VideoEnded}

func AdPositions() []AdPosition {
	return append([]AdPosition(nil), adPositions...)
}

func ParseAdPosition(s string) (AdPosition, error) { return parseEnum(s, adPositions, "ad position") }
func ParsePostType(s string) (PostType, error)     { return parseEnum(s, postTypes, "post type") }
func ParsePostStatus(s string) (PostStatus, error) { return parseEnum(s, postStatuses, "post status") }
func ParseToolCategory(s string) (ToolCategory, error) {
	return parseEnum(s, toolCategories, "tool category")
}
func ParseVideoEventType(s string) (VideoEventType, error) {
	return parseEnum(s, videoEventTypes, "video event type")
}

// Scan validates values coming back from the store so unknown literals never leak past the repository.
func (p *AdPosition) Scan(src any) error   { return scanEnum(p, src, adPositions, "ad position") }
func (p *PostType) Scan(src any) error     { return scanEnum(p, src, postTypes, "post type") }
func (p *PostStatus) Scan(src any) error   { return scanEnum(p, src, postStatuses, "post status") }
func (c *ToolCategory) Scan(src any) error { return scanEnum(c, src, toolCategories, "tool category") }
func (e *VideoEventType) Scan(src any) error {
	return scanEnum(e, src, videoEventTypes, "video event type")
}

func (p AdPosition) Value() (driver.Value, error)     { return string(p), nil }
func (p PostType) Value() (driver.Value, error)       { return string(p), nil }
func (p PostStatus) Value() (driver.Value, error)     { return string(p), nil }
func (c ToolCategory) Value() (driver.Value, error)   { return string(c), nil }
func (e VideoEventType) Value() (driver.Value, error) { return string(e), nil }

func parseEnum[T ~string](s string, allowed []T, name string) (T, error) {
	for _, v := range allowed {
		if string(v) == s {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrInvalidEnum, name, s)
}

func scanEnum[T ~string](dst *T, src any, allowed []T, name string) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*dst = ""
		return nil
	default:
		return fmt.Errorf("%w: %s has unsupported type %T", ErrInvalidEnum, name, src)
	}

	parsed, err := parseEnum(raw, allowed, name)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}
