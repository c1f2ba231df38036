package site

import (
	"context"
	"log/slog"
	"sort"

	"github.com/thought2/blog/internal/content"
	"github.com/thought2/blog/internal/logfields"
	"github.com/thought2/blog/internal/manifest"
)

// stageIndexes writes the home index, one index per category, and the Atom
// feed. bs.Posts is already sorted newest-first by the render stage.
func stageIndexes(_ context.Context, bs *BuildState) error {
	g := bs.Generator
	basePath := g.config.Site.BasePath

	links := make([]postLink, 0, len(bs.Posts))
	for i := range bs.Posts {
		p := &bs.Posts[i]
		links = append(links, postLink{
			Title:       p.Meta.Title,
			URL:         postURL(basePath, p),
			DateISO:     p.Meta.Time().Format("2006-01-02"),
			DateDisplay: p.Meta.Time().Format("January 2, 2006"),
		})
	}

	if err := bs.writeIndexPage(indexOutputPath, "", links); err != nil {
		return err
	}

	if err := bs.writeCategoryIndexes(); err != nil {
		return err
	}

	feed, err := buildFeed(g.config, bs.Posts)
	if err != nil {
		return err
	}
	if err := bs.claimOutput(feedOutputPath, "(feed)"); err != nil {
		return err
	}
	if err := bs.writePage(RenderedPage{OutputPath: feedOutputPath, HTML: feed}); err != nil {
		return err
	}
	bs.Manifest.AddAsset("(feed)", feedOutputPath, feed)

	slog.Info("Wrote index pages", logfields.Count(1+len(bs.categoryNames())), slog.String("feed", feedOutputPath))
	return nil
}

// writeIndexPage renders and writes one listing page.
func (bs *BuildState) writeIndexPage(outputPath, heading string, posts []postLink) error {
	g := bs.Generator
	basePath := g.config.Site.BasePath

	html, err := executeTemplate("index", indexData{
		SiteTitle: g.config.Site.Title,
		Heading:   heading,
		Posts:     posts,
		HomeURL:   basePath + "/",
		FeedURL:   basePath + "/" + feedOutputPath,
	})
	if err != nil {
		return err
	}

	if err := bs.claimOutput(outputPath, "(index)"); err != nil {
		return err
	}
	page := RenderedPage{OutputPath: outputPath, HTML: html}
	if err := bs.writePage(page); err != nil {
		return err
	}

	bs.Pages = append(bs.Pages, page)
	bs.Manifest.AddPage(manifest.PageEntry{
		Source: "(index)",
		Output: outputPath,
		Title:  heading,
	}, html)
	return nil
}

// writeCategoryIndexes writes one listing page per category. Categories are
// keyed by slug, so names that collapse to the same slug share a page.
func (bs *BuildState) writeCategoryIndexes() error {
	basePath := bs.Generator.config.Site.BasePath

	type catPosts struct {
		name  string
		links []postLink
	}
	bySlug := make(map[string]*catPosts)
	for i := range bs.Posts {
		p := &bs.Posts[i]
		link := postLink{
			Title:       p.Meta.Title,
			URL:         postURL(basePath, p),
			DateISO:     p.Meta.Time().Format("2006-01-02"),
			DateDisplay: p.Meta.Time().Format("January 2, 2006"),
		}
		for _, c := range p.Meta.Categories {
			slug := content.Slugify(c)
			if slug == "" {
				continue
			}
			cp, ok := bySlug[slug]
			if !ok {
				cp = &catPosts{name: c}
				bySlug[slug] = cp
			}
			cp.links = append(cp.links, link)
		}
	}

	slugs := make([]string, 0, len(bySlug))
	for slug := range bySlug {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	for _, slug := range slugs {
		cp := bySlug[slug]
		if err := bs.writeIndexPage(categoryOutputPath(cp.name), cp.name, cp.links); err != nil {
			return err
		}
	}
	return nil
}

func (bs *BuildState) categoryNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for i := range bs.Posts {
		for _, c := range bs.Posts[i].Meta.Categories {
			slug := content.Slugify(c)
			if _, ok := seen[slug]; ok || slug == "" {
				continue
			}
			seen[slug] = struct{}{}
			names = append(names, c)
		}
	}
	return names
}
