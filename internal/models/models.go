package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

type User struct {
	UserID                 string     `json:"userId" db:"user_id"`
	Email                  string     `json:"email" db:"email"`
	PasswordHash           string     `json:"-" db:"password_hash"`
	FullName               string     `json:"fullName" db:"full_name"`
	RefreshToken           string     `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime time.Time  `json:"-" db:"refresh_token_expiry_time"`
	EmailConfirmedAt       *time.Time `json:"emailConfirmedAt" db:"email_confirmed_at"`
	ConfirmationToken      string     `json:"-" db:"confirmation_token"`
	CreatedAt              time.Time  `json:"createdAt" db:"created_at"`
}

// AuthUser is the identity carried by a session.
type AuthUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
}

type Session struct {
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         AuthUser  `json:"user"`
}

type Profile struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"fullName" db:"full_name"`
	AvatarURL string    `json:"avatarUrl" db:"avatar_url"`
	IsAdmin   bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type Post struct {
	ID              string     `json:"id" db:"id"`
	AuthorID        string     `json:"authorId" db:"author_id"`
	CategoryID      *string    `json:"categoryId" db:"category_id"`
	Title           string     `json:"title" db:"title"`
	Slug            string     `json:"slug" db:"slug"`
	Content         string     `json:"content" db:"content"`
	Excerpt         string     `json:"excerpt" db:"excerpt"`
	PostType        PostType   `json:"postType" db:"post_type"`
	Status          PostStatus `json:"status" db:"status"`
	ThumbnailURL    string     `json:"thumbnailUrl" db:"thumbnail_url"`
	VideoURL        string     `json:"videoUrl" db:"video_url"`
	VideoType       string     `json:"videoType" db:"video_type"`
	VideoDuration   *int       `json:"videoDuration" db:"video_duration"`
	RequiresConsent bool       `json:"requiresConsent" db:"requires_consent"`
	ConsentText     string     `json:"consentText" db:"consent_text"`
	SEOTitle        string     `json:"seoTitle" db:"seo_title"`
	SEODescription  string     `json:"seoDescription" db:"seo_description"`
	SEOKeywords     string     `json:"seoKeywords" db:"seo_keywords"`
	ViewCount       int        `json:"viewCount" db:"view_count"`
	PublishedAt     *time.Time `json:"publishedAt" db:"published_at"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type Tool struct {
	ID               string       `json:"id" db:"id"`
	Name             string       `json:"name" db:"name"`
	Description      string       `json:"description" db:"description"`
	URL              string       `json:"url" db:"url"`
	EmbedCode        string       `json:"embedCode" db:"embed_code"`
	ThumbnailURL     string       `json:"thumbnailUrl" db:"thumbnail_url"`
	Category         ToolCategory `json:"category" db:"category"`
	IsActive         bool         `json:"isActive" db:"is_active"`
	IsFeatured       bool         `json:"isFeatured" db:"is_featured"`
	HomepagePosition *int         `json:"homepagePosition" db:"homepage_position"`
	CreatedAt        time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time    `json:"updatedAt" db:"updated_at"`
}

type Ad struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Code      string     `json:"code" db:"code"`
	Position  AdPosition `json:"position" db:"position"`
	IsActive  bool       `json:"isActive" db:"is_active"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// AdPlacement pins a specific ad to a slot of a single post.
type AdPlacement struct {
	ID        string     `json:"id" db:"id"`
	AdID      string     `json:"adId" db:"ad_id"`
	PostID    string     `json:"postId" db:"post_id"`
	Position  AdPosition `json:"position" db:"position"`
	IsActive  bool       `json:"isActive" db:"is_active"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

type MediaFile struct {
	ID               string    `json:"id" db:"id"`
	Filename         string    `json:"filename" db:"filename"`
	OriginalFilename string    `json:"originalFilename" db:"original_filename"`
	FilePath         string    `json:"filePath" db:"file_path"`
	FileSize         int64     `json:"fileSize" db:"file_size"`
	MimeType         string    `json:"mimeType" db:"mime_type"`
	UploadedBy       *string   `json:"uploadedBy" db:"uploaded_by"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

type SiteSetting struct {
	ID          string    `json:"id" db:"id"`
	Key         string    `json:"key" db:"key"`
	Value       string    `json:"value" db:"value"`
	Type        string    `json:"type" db:"type"`
	Category    string    `json:"category" db:"category"`
	Description string    `json:"description" db:"description"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// VideoEvent is one playback analytics row, keyed by the anonymous browser session.
type VideoEvent struct {
	ID               string         `json:"id" db:"id"`
	PostID           string         `json:"postId" db:"post_id"`
	UserSession      string         `json:"userSession" db:"user_session"`
	EventType        VideoEventType `json:"eventType" db:"event_type"`
	EventData        types.JSONText `json:"eventData" db:"event_data"`
	TimestampSeconds int            `json:"timestampSeconds" db:"timestamp_seconds"`
	CreatedAt        time.Time      `json:"createdAt" db:"created_at"`
}

// ConsentLog is the audit trail of a viewer accepting a consent prompt.
type ConsentLog struct {
	ID           string         `json:"id" db:"id"`
	PostID       string         `json:"postId" db:"post_id"`
	UserSession  string         `json:"userSession" db:"user_session"`
	ConsentGiven bool           `json:"consentGiven" db:"consent_given"`
	ConsentTypes pq.StringArray `json:"consentTypes" db:"consent_type"`
	UserAgent    string         `json:"userAgent" db:"user_agent"`
	IPAddress    string         `json:"ipAddress" db:"ip_address"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
}

// DashboardStats feeds the admin overview.
type DashboardStats struct {
	Posts       int `json:"posts" db:"posts"`
	Published   int `json:"published" db:"published"`
	Tools       int `json:"tools" db:"tools"`
	ActiveAds   int `json:"activeAds" db:"active_ads"`
	MediaFiles  int `json:"mediaFiles" db:"media_files"`
	TotalViews  int `json:"totalViews" db:"total_views"`
	VideoEvents int `json:"videoEvents" db:"video_events"`
	AdminsCount int `json:"admins" db:"admins"`

	TopPosts []TopPost `json:"topPosts" db:"-"`
}

type TopPost struct {
	ID        string `json:"id" db:"id"`
	Title     string `json:"title" db:"title"`
	Slug      string `json:"slug" db:"slug"`
	ViewCount int    `json:"viewCount" db:"view_count"`
}

// PostRef is what the sitemap needs from a published post.
type PostRef struct {
	Slug      string    `db:"slug"`
	PostType  PostType  `db:"post_type"`
	UpdatedAt time.Time `db:"updated_at"`
}
