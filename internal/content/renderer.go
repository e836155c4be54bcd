// Package content turns stored post bodies into HTML that is safe to embed.
package content

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	markdown goldmark.Markdown
	ugc      *bluemonday.Policy
	strict   *bluemonday.Policy
}

func NewRenderer() *Renderer {
	ugc := bluemonday.UGCPolicy()
	ugc.AddTargetBlankToFullyQualifiedLinks(true)
	ugc.RequireNoReferrerOnLinks(true)
	ugc.AllowAttrs("src", "width", "height", "allow", "allowfullscreen", "frameborder").OnElements("iframe")
	ugc.AllowURLSchemes("https")

	return &Renderer{
		// raw HTML is passed through goldmark and filtered by the UGC policy afterwards
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				goldmarkHTML.WithHardWraps(),
				goldmarkHTML.WithUnsafe(),
			),
		),
		ugc:    ugc,
		strict: bluemonday.StrictPolicy(),
	}
}

// Markdown renders a post body to sanitised HTML.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("ошибка рендеринга markdown: %w", err)
	}

	return template.HTML(r.ugc.SanitizeBytes(buf.Bytes())), nil
}

// PlainText strips every tag, leaving escaped text.
func (r *Renderer) PlainText(src string) string {
	return r.strict.Sanitize(src)
}
