package site

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/thought2/blog/internal/config"
	"github.com/thought2/blog/internal/content"
)

// Atom feed document. The feed's updated element derives from post dates,
// not from the build clock, so identical inputs produce identical feeds.

const feedEntryLimit = 20

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	XMLNS   string      `xml:"xmlns,attr"`
	Title   string      `xml:"title"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Links   []atomLink  `xml:"link"`
	Author  *atomAuthor `xml:"author,omitempty"`
	Entries []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomEntry struct {
	Title   string   `xml:"title"`
	ID      string   `xml:"id"`
	Updated string   `xml:"updated"`
	Link    atomLink `xml:"link"`
	Summary string   `xml:"summary,omitempty"`
}

// buildFeed serializes the newest posts (already sorted newest-first) as an
// Atom document.
//
// Atom ids must be absolute IRIs, which requires site.base_url. Without it
// the ids degrade to site-relative paths; the feed still renders for local
// preview, but a warning flags the misconfiguration for published sites.
func buildFeed(cfg *config.Config, posts []content.Post) ([]byte, error) {
	if cfg.Site.BaseURL == "" {
		slog.Warn("site.base_url is not set; feed ids will be relative paths, set it for a valid published feed")
	}
	siteURL := strings.TrimSuffix(cfg.Site.BaseURL, "/") + cfg.Site.BasePath

	updated := time.Unix(0, 0).UTC()
	if len(posts) > 0 {
		updated = posts[0].Meta.Time()
	}

	feed := atomFeed{
		XMLNS:   "http://www.w3.org/2005/Atom",
		Title:   cfg.Site.Title,
		ID:      siteURL + "/",
		Updated: updated.UTC().Format(time.RFC3339),
		Links: []atomLink{
			{Href: siteURL + "/", Rel: "alternate", Type: "text/html"},
			{Href: siteURL + "/" + feedOutputPath, Rel: "self", Type: "application/atom+xml"},
		},
	}
	if cfg.Site.Author != "" {
		feed.Author = &atomAuthor{Name: cfg.Site.Author}
	}

	for i := range posts {
		if i >= feedEntryLimit {
			break
		}
		p := &posts[i]
		link := strings.TrimSuffix(cfg.Site.BaseURL, "/") + postURL(cfg.Site.BasePath, p)
		feed.Entries = append(feed.Entries, atomEntry{
			Title:   p.Meta.Title,
			ID:      link,
			Updated: p.Meta.Time().UTC().Format(time.RFC3339),
			Link:    atomLink{Href: link, Rel: "alternate", Type: "text/html"},
			Summary: p.Meta.Description,
		})
	}

	body, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal feed: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
