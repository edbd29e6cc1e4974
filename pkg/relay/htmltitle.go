package relay

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxErrorPageBytes = 1 << 20 // 1 MiB

// pageTitle extracts the title (or first heading) from an HTML error page so
// transport failures carry something more useful than raw markup. Non-HTML
// bodies yield nothing.
func pageTitle(body []byte, contentType string) string {
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return ""
	}
	if len(body) > maxErrorPageBytes {
		body = body[:maxErrorPageBytes]
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	return title
}
