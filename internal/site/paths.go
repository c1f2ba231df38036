package site

import (
	"fmt"
	"path"

	"github.com/thought2/blog/internal/content"
	berrors "github.com/thought2/blog/internal/errors"
)

// Routing convention: a post dated 2019-09-16 with slug
// "its-all-about-translation" is written to
// 2019/09/its-all-about-translation/index.html and served at
// <basePath>/2019/09/its-all-about-translation/. The base path prefixes
// generated URLs only, never on-disk output paths.

// postOutputPath returns the output file path for a post, relative to the
// destination root.
func postOutputPath(p *content.Post) string {
	t := p.Meta.Time()
	return path.Join(fmt.Sprintf("%04d", t.Year()), fmt.Sprintf("%02d", int(t.Month())), p.Slug(), "index.html")
}

// postURL returns the published URL path for a post, including the base path.
func postURL(basePath string, p *content.Post) string {
	t := p.Meta.Time()
	return fmt.Sprintf("%s/%04d/%02d/%s/", basePath, t.Year(), int(t.Month()), p.Slug())
}

// categoryOutputPath returns the output file path for a category index page.
func categoryOutputPath(category string) string {
	return path.Join("categories", content.Slugify(category), "index.html")
}

// categoryURL returns the published URL path for a category index page.
func categoryURL(basePath, category string) string {
	return basePath + "/categories/" + content.Slugify(category) + "/"
}

// Fixed site-level output paths.
const (
	indexOutputPath    = "index.html"
	feedOutputPath     = "feed.xml"
	manifestOutputPath = "site-manifest.json"
)

func collisionError(outputPath, firstSource, secondSource string) error {
	return berrors.OutputPathCollision(outputPath, firstSource, secondSource)
}
