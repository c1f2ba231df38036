package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thought2/blog/internal/content"
	berrors "github.com/thought2/blog/internal/errors"
	"github.com/thought2/blog/internal/frontmatter"
	"github.com/thought2/blog/internal/logfields"
	"github.com/thought2/blog/internal/manifest"
)

// stageRenderPosts parses, renders, and writes every markdown post. Any
// single failure aborts the build; no partial site is published.
func stageRenderPosts(ctx context.Context, bs *BuildState) error {
	cfg := bs.Generator.config
	skippedDrafts := 0

	for i := range bs.Files {
		file := &bs.Files[i]
		if file.IsAsset {
			continue
		}
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageRenderPosts, ctx.Err())
		default:
		}

		post, err := parsePost(file)
		if err != nil {
			return err
		}
		if post.Meta.Draft && !cfg.Build.Drafts {
			slog.Debug("Skipping draft", logfields.File(file.RelativePath))
			skippedDrafts++
			continue
		}

		page, err := bs.Generator.renderPost(post)
		if err != nil {
			return err
		}

		if err := bs.claimOutput(page.OutputPath, file.RelativePath); err != nil {
			return err
		}
		if err := bs.writePage(page); err != nil {
			return err
		}

		bs.Posts = append(bs.Posts, *post)
		bs.Pages = append(bs.Pages, page)
		bs.Manifest.AddPage(manifest.PageEntry{
			Source:     file.RelativePath,
			Output:     page.OutputPath,
			Title:      post.Meta.Title,
			Slug:       post.Slug(),
			Date:       post.Meta.Time().Format("2006-01-02"),
			Categories: post.Meta.Categories,
		}, page.HTML)
		bs.Report.PagesRendered++

		slog.Debug("Rendered post",
			logfields.File(file.RelativePath),
			logfields.Slug(post.Slug()),
			logfields.Output(page.OutputPath))
	}

	// Newest first; slug breaks ties so ordering is total.
	sort.Slice(bs.Posts, func(i, j int) bool {
		ti, tj := bs.Posts[i].Meta.Time(), bs.Posts[j].Meta.Time()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return bs.Posts[i].Slug() < bs.Posts[j].Slug()
	})

	slog.Info("Rendered all posts", logfields.Count(bs.Report.PagesRendered), slog.Int("drafts_skipped", skippedDrafts))
	return nil
}

// parsePost loads a source file and decodes its front matter.
func parsePost(file *content.File) (*content.Post, error) {
	if err := file.LoadContent(); err != nil {
		return nil, berrors.FrontMatterParseError(file.RelativePath, err)
	}

	fm, body, had, _, err := frontmatter.Split(file.Content)
	if err != nil {
		return nil, berrors.FrontMatterParseError(file.RelativePath, err)
	}
	if !had {
		return nil, berrors.FrontMatterParseError(file.RelativePath, errors.New("post has no front matter block"))
	}

	meta, err := frontmatter.DecodeMeta(fm)
	if err != nil {
		return nil, berrors.FrontMatterParseError(file.RelativePath, err)
	}
	if unknown, uerr := frontmatter.UnknownFields(fm); uerr == nil && len(unknown) > 0 {
		slog.Debug("Ignoring unknown front matter fields",
			logfields.File(file.RelativePath),
			slog.String("fields", strings.Join(unknown, ", ")))
	}

	return &content.Post{File: *file, Meta: meta, Body: body}, nil
}

// renderPost converts a post's body to HTML and wraps it in the page layout.
func (g *Generator) renderPost(post *content.Post) (RenderedPage, error) {
	sourceDir := path.Dir(post.File.RelativePath)
	if sourceDir == "." {
		sourceDir = ""
	}

	body, err := g.renderer.Render(post.Body, sourceDir)
	if err != nil {
		return RenderedPage{}, berrors.RenderError(post.File.RelativePath, err)
	}

	basePath := g.config.Site.BasePath
	categories := make([]categoryLink, 0, len(post.Meta.Categories))
	for _, c := range post.Meta.Categories {
		categories = append(categories, categoryLink{Name: c, URL: categoryURL(basePath, c)})
	}

	data := postData{
		SiteTitle:   g.config.Site.Title,
		Title:       post.Meta.Title,
		Description: post.Meta.Description,
		DateISO:     post.Meta.Time().Format("2006-01-02"),
		DateDisplay: post.Meta.Time().Format("January 2, 2006"),
		Categories:  categories,
		Content:     template.HTML(body),
		HomeURL:     basePath + "/",
		FeedURL:     basePath + "/" + feedOutputPath,
	}

	html, err := executeTemplate("post", data)
	if err != nil {
		return RenderedPage{}, berrors.RenderError(post.File.RelativePath, err)
	}

	return RenderedPage{
		OutputPath: postOutputPath(post),
		URL:        postURL(basePath, post),
		HTML:       html,
	}, nil
}

// writePage writes a rendered page under the staging root.
func (bs *BuildState) writePage(page RenderedPage) error {
	target := filepath.Join(bs.Generator.buildRoot(), filepath.FromSlash(page.OutputPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return berrors.DestinationWriteError(page.OutputPath, fmt.Errorf("create directory: %w", err))
	}
	if err := os.WriteFile(target, page.HTML, 0o644); err != nil {
		return berrors.DestinationWriteError(page.OutputPath, err)
	}
	return nil
}
