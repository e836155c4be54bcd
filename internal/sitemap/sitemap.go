// Package sitemap renders sitemap.xml from the static pages and the
// published content.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"contentHub/internal/models"
)

const (
	Namespace  = "http://www.sitemaps.org/schemas/sitemap/0.9"
	dateLayout = "2006-01-02"
)

type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// WriteTo writes the document with the XML declaration.
func (s *URLSet) WriteTo(w io.Writer) (int64, error) {
	body, err := xml.MarshalIndent(s, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("ошибка сериализации карты сайта: %w", err)
	}

	n, err := io.WriteString(w, xml.Header+string(body)+"\n")
	return int64(n), err
}

type staticPage struct {
	path       string
	changeFreq string
	priority   string
}

var staticPages = []staticPage{
	{"/", "daily", "1.0"},
	{"/articles", "daily", "0.9"},
	{"/videos", "daily", "0.9"},
	{"/tools", "weekly", "0.9"},
	{"/contact", "monthly", "0.6"},
	{"/help-center", "weekly", "0.7"},
	{"/privacy-policy", "yearly", "0.5"},
	{"/terms-of-service", "yearly", "0.5"},
}

type PostSource interface {
	ListSitemapRefs(ctx context.Context) ([]models.PostRef, error)
}

type ToolSource interface {
	ListActive(ctx context.Context) ([]models.Tool, error)
}

type CategorySource interface {
	List(ctx context.Context) ([]models.Category, error)
}

type Builder struct {
	baseURL    string
	posts      PostSource
	tools      ToolSource
	categories CategorySource
}

func NewBuilder(baseURL string, posts PostSource, tools ToolSource, categories CategorySource) *Builder {
	return &Builder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		posts:      posts,
		tools:      tools,
		categories: categories,
	}
}

// Build lists static pages, published posts, active tools and categories.
// Static pages carry now as their last modification date.
func (b *Builder) Build(ctx context.Context, now time.Time) (*URLSet, error) {
	set := &URLSet{Xmlns: Namespace}
	today := now.UTC().Format(dateLayout)

	for _, page := range staticPages {
		set.URLs = append(set.URLs, URL{
			Loc:        b.baseURL + page.path,
			LastMod:    today,
			ChangeFreq: page.changeFreq,
			Priority:   page.priority,
		})
	}

	posts, err := b.posts.ListSitemapRefs(ctx)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		set.URLs = append(set.URLs, URL{
			Loc:        b.baseURL + PostPath(post),
			LastMod:    post.UpdatedAt.UTC().Format(dateLayout),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	tools, err := b.tools.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, tool := range tools {
		set.URLs = append(set.URLs, URL{
			Loc:        b.baseURL + "/tool/" + tool.ID,
			LastMod:    tool.UpdatedAt.UTC().Format(dateLayout),
			ChangeFreq: "monthly",
			Priority:   "0.7",
		})
	}

	categories, err := b.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		set.URLs = append(set.URLs, URL{
			Loc:        b.baseURL + "/category/" + category.Slug,
			LastMod:    category.CreatedAt.UTC().Format(dateLayout),
			ChangeFreq: "weekly",
			Priority:   "0.6",
		})
	}

	return set, nil
}

// PostPath is the public page of a post: videos have their own route.
func PostPath(post models.PostRef) string {
	if post.PostType == models.PostVideo {
		return "/video/" + post.Slug
	}
	return "/article/" + post.Slug
}
