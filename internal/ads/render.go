package ads

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"contentHub/internal/models"
)

const PixelPath = "/api/ads/pixel"

// PixelGIF is a transparent 1x1 GIF.
var PixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x01, 0x44, 0x00, 0x3b,
}

type Size struct {
	Width  string `json:"width"`
	Height string `json:"height"`
}

// Dimensions is the layout box reserved for a slot.
func Dimensions(slot models.AdPosition) Size {
	switch slot {
	case models.AdHomepageTop, models.AdHomepageBottom, models.AdPostBefore, models.AdPostAfter:
		return Size{Width: "100%", Height: "96px"}
	case models.AdPostInside:
		return Size{Width: "100%", Height: "128px"}
	case models.AdHomepageMiddle:
		return Size{Width: "100%", Height: "256px"}
	case models.AdVideoBanner300x250:
		return Size{Width: "300px", Height: "250px"}
	case models.AdVideoBanner728x90:
		return Size{Width: "728px", Height: "90px"}
	case models.AdVideoPopunder:
		return Size{Width: "0", Height: "0"}
	case models.AdVideoSmartlink:
		return Size{Width: "100%", Height: "32px"}
	case models.AdVideoSocialBar:
		return Size{Width: "100%", Height: "48px"}
	case models.AdVideoNativeBanner:
		return Size{Width: "100%", Height: "160px"}
	default:
		return Size{Width: "100%", Height: "96px"}
	}
}

// PixelURL is hit by the browser once the fragment is displayed.
func PixelURL(adID string, slot models.AdPosition, contentID string) string {
	if contentID == "" {
		contentID = GlobalContent
	}

	q := url.Values{}
	q.Set("ad", adID)
	q.Set("slot", string(slot))
	q.Set("post", contentID)
	return PixelPath + "?" + q.Encode()
}

var fragment = template.Must(template.New("ad").Parse(
	`<div class="ad-placement ad-{{.Slot}}" data-ad-id="{{.ID}}" data-ad-position="{{.Slot}}" data-width="{{.Size.Width}}" data-height="{{.Size.Height}}">` +
		`<div class="ad-label">Реклама</div>` +
		`<div class="ad-content">{{.Code}}</div>` +
		`<img src="{{.Pixel}}" alt="" width="1" height="1" style="display:none">` +
		`</div>`))

// Render builds the HTML for a resolved ad. The ad code is emitted as is:
// it is authored by admins and may carry third-party scripts.
func Render(ad *models.Ad, slot models.AdPosition, contentID string) (template.HTML, error) {
	if ad == nil {
		return "", nil
	}

	var buf bytes.Buffer
	err := fragment.Execute(&buf, struct {
		ID    string
		Slot  string
		Size  Size
		Code  template.HTML
		Pixel string
	}{
		ID:    ad.ID,
		Slot:  string(slot),
		Size:  Dimensions(slot),
		Code:  template.HTML(ad.Code),
		Pixel: PixelURL(ad.ID, slot, contentID),
	})
	if err != nil {
		return "", fmt.Errorf("ошибка рендеринга рекламы: %w", err)
	}

	return template.HTML(buf.String()), nil
}
