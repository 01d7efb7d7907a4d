package botapi

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// QueueLink is one selectable schedule page found on the source site's
// index.
type QueueLink struct {
	Name string
	URL  string
}

// DiscoverQueues scrapes the index page for links to per-queue schedule
// pages. Relative hrefs are resolved against baseURL; links without a
// readable label or a usable href are dropped.
func DiscoverQueues(html, baseURL string) []QueueLink {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	var links []QueueLink
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		name := strings.Join(strings.Fields(sel.Text()), " ")
		if href == "" || name == "" {
			return
		}
		if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		if base != nil {
			ref = base.ResolveReference(ref)
		}
		if ref.Scheme != "http" && ref.Scheme != "https" {
			return
		}
		abs := ref.String()
		if seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, QueueLink{Name: name, URL: abs})
	})
	return links
}
