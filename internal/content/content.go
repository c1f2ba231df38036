// Package content discovers source files and models blog posts.
package content

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/thought2/blog/internal/frontmatter"
)

// File represents a discovered source file: a markdown post or a static asset.
type File struct {
	Path         string // Absolute path to the file
	RelativePath string // Path relative to the source root
	Name         string // File name without extension
	Extension    string // File extension
	Content      []byte // File content (loaded on demand)
	IsAsset      bool   // True for images and other non-markdown files
}

// LoadContent loads the content of a source file.
func (f *File) LoadContent() error {
	if f.Content != nil {
		return nil // Already loaded
	}

	content, err := os.ReadFile(f.Path)
	if err != nil {
		return err
	}

	f.Content = content
	return nil
}

// Post is a parsed markdown post: typed front matter plus raw body.
type Post struct {
	File File
	Meta *frontmatter.Meta
	Body []byte
}

// Slug returns the post's routing slug: the explicit front matter slug when
// present, otherwise a slug derived from the file name.
func (p *Post) Slug() string {
	if p.Meta != nil && strings.TrimSpace(p.Meta.Slug) != "" {
		return Slugify(p.Meta.Slug)
	}
	return Slugify(p.File.Name)
}

var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

var assetExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
	".ico":  true,
	".css":  true,
	".js":   true,
	".pdf":  true,
	".txt":  true,
	".woff": true,
	".woff2": true,
}

// IsMarkdownFile reports whether the path looks like a markdown post.
func IsMarkdownFile(path string) bool {
	return markdownExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsAssetFile reports whether the path is a static asset to copy verbatim.
func IsAssetFile(path string) bool {
	return assetExtensions[strings.ToLower(filepath.Ext(path))]
}
